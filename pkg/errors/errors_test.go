package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableNotFoundError(t *testing.T) {
	err := NewTableNotFoundError("analytics", "sales")

	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "sales")
	assert.Contains(t, err.Error(), "analytics")
}

func TestInvalidIdentifierError(t *testing.T) {
	err := NewInvalidIdentifierError("table", "a/b")
	assert.True(t, IsInvalidIdentifier(err))
	assert.Contains(t, err.Error(), `"a/b"`)

	empty := NewInvalidIdentifierError("dataset", "")
	assert.Contains(t, empty.Error(), "empty")
}

func TestWriteErrorsUnwrap(t *testing.T) {
	cause := stderrors.New("permission denied")

	schemaErr := NewSchemaWriteError("datasets/analytics/tables/sales", cause)
	assert.True(t, IsWriteFailed(schemaErr))
	assert.ErrorIs(t, schemaErr, cause)

	tagErr := NewTagWriteError("datasets/analytics/tables/sales", "desc-table", cause)
	assert.True(t, IsWriteFailed(tagErr))
	assert.ErrorIs(t, tagErr, cause)
	assert.Contains(t, tagErr.Error(), "desc-table")
}

func TestValidationErrorIsInvalidInput(t *testing.T) {
	err := &ValidationError{Field: "workers", Value: 0, Message: "must be at least 1"}
	assert.True(t, stderrors.Is(err, ErrInvalidInput))
}

func TestWrapHelpers(t *testing.T) {
	assert.NoError(t, WrapIO("read", "store.yaml", nil))
	assert.NoError(t, WrapParse("yaml", "store.yaml", nil))

	cause := stderrors.New("boom")

	ioErr := WrapIO("read", "store.yaml", cause)
	require.Error(t, ioErr)
	assert.ErrorIs(t, ioErr, cause)
	assert.Contains(t, ioErr.Error(), "store.yaml")

	parseErr := WrapParse("yaml", "store.yaml", cause)
	require.Error(t, parseErr)
	assert.ErrorIs(t, parseErr, cause)
}
