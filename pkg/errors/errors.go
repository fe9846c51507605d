// Package errors provides custom error types for the tagsync system.
// These errors enable programmatic error checking across the reconciliation
// engine: every failure kind the batch orchestrator records maps to one of
// the types defined here.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the tagsync system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrWriteFailed indicates that a write against one of the two stores failed
	ErrWriteFailed = errors.New("write failed")

	// ErrTimeout indicates that an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")
)

// InvalidIdentifierError reports a malformed dataset, table, or field identifier.
// It is fatal to the single operation that received the identifier, never to a batch.
type InvalidIdentifierError struct {
	Kind  string // "dataset", "table", "field", "template"
	Value string
}

// Error implements the error interface
func (e *InvalidIdentifierError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s identifier: empty", e.Kind)
	}
	return fmt.Sprintf("invalid %s identifier: %q", e.Kind, e.Value)
}

// Is implements errors.Is support
func (e *InvalidIdentifierError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewInvalidIdentifierError creates a new InvalidIdentifierError
func NewInvalidIdentifierError(kind, value string) *InvalidIdentifierError {
	return &InvalidIdentifierError{Kind: kind, Value: value}
}

// TableNotFoundError reports that a table does not exist in the schema store.
// The orchestrator records the table as failed and continues with the batch.
type TableNotFoundError struct {
	Dataset string
	Table   string
}

// Error implements the error interface
func (e *TableNotFoundError) Error() string {
	return fmt.Sprintf("table %s not found in dataset %s", e.Table, e.Dataset)
}

// Is implements errors.Is support
func (e *TableNotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewTableNotFoundError creates a new TableNotFoundError
func NewTableNotFoundError(dataset, table string) *TableNotFoundError {
	return &TableNotFoundError{Dataset: dataset, Table: table}
}

// SchemaWriteError reports a failed description write against the schema store,
// typically because the target table or field no longer exists.
type SchemaWriteError struct {
	Entity string // canonical entity key
	Err    error
}

// Error implements the error interface
func (e *SchemaWriteError) Error() string {
	return fmt.Sprintf("schema store write failed for %s: %v", e.Entity, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *SchemaWriteError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *SchemaWriteError) Is(target error) bool {
	return target == ErrWriteFailed
}

// NewSchemaWriteError creates a new SchemaWriteError
func NewSchemaWriteError(entity string, err error) *SchemaWriteError {
	return &SchemaWriteError{Entity: entity, Err: err}
}

// TagWriteError reports a failed tag create or update against the tag store,
// typically a permission or template-mismatch error.
type TagWriteError struct {
	Entity   string // canonical entity key
	Template string
	Err      error
}

// Error implements the error interface
func (e *TagWriteError) Error() string {
	if e.Template != "" {
		return fmt.Sprintf("tag store write failed for %s (template %s): %v", e.Entity, e.Template, e.Err)
	}
	return fmt.Sprintf("tag store write failed for %s: %v", e.Entity, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *TagWriteError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *TagWriteError) Is(target error) bool {
	return target == ErrWriteFailed
}

// NewTagWriteError creates a new TagWriteError
func NewTagWriteError(entity, template string, err error) *TagWriteError {
	return &TagWriteError{Entity: entity, Template: template, Err: err}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{Component: component, Message: message, Err: err}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "delete", "open", "close"
	Path      string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("IO error during %s: %v", e.Operation, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "yaml", "xlsx"
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidIdentifier checks if an error is a malformed identifier error
func IsInvalidIdentifier(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsWriteFailed checks if an error is a store write failure
func IsWriteFailed(err error) bool {
	return errors.Is(err, ErrWriteFailed)
}

// IsCanceled checks if an error is a cancellation error
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Operation: operation, Path: path, Err: err}
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return &ParseError{Format: format, File: file, Message: err.Error(), Err: err}
}
