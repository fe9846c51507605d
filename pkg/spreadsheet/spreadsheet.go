// Package spreadsheet exports dataset descriptions to an .xlsx workbook and
// imports edited workbooks back into the schema store. The workbook is the
// curation surface: an overview sheet lists every table with its description,
// and each table gets its own sheet listing fields with theirs.
//
// Import targets the schema store only. The next sync run propagates imported
// descriptions to the tag store through the normal reconciliation path, so a
// spreadsheet edit is never a side channel around the engine.
package spreadsheet

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/dataannex/tagsync/pkg/errors"
	"github.com/dataannex/tagsync/pkg/logging"
	"github.com/dataannex/tagsync/pkg/metadata"
	"github.com/dataannex/tagsync/pkg/stores"
)

const (
	// OverviewSheet is the name of the sheet listing all tables.
	OverviewSheet = "metadata_of_tables"

	maxSheetNameLength = 31
)

// Overview sheet columns.
var overviewHeader = []string{"table_id", metadata.TableDescriptionKey}

// Per-table sheet columns.
var tableHeader = []string{"field_name", "field_type", "field_mode", metadata.FieldDescriptionKey}

// Export writes the dataset's current schema-side descriptions to an .xlsx
// workbook at path. When tables is empty every table in the dataset is
// exported; otherwise exactly the requested tables.
func Export(ctx context.Context, schema stores.SchemaStore, dataset metadata.DatasetRef, path string, tables ...string) error {
	if dataset == "" {
		return errors.NewInvalidIdentifierError("dataset", "")
	}
	logger := logging.FromContext(ctx)

	tableIDs := tables
	if len(tableIDs) == 0 {
		var err error
		tableIDs, err = schema.ListTables(ctx, dataset)
		if err != nil {
			return err
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", OverviewSheet); err != nil {
		return errors.WrapIO("write", path, err)
	}
	if err := writeRow(f, OverviewSheet, 1, overviewHeader); err != nil {
		return errors.WrapIO("write", path, err)
	}

	seen := make(map[string]string) // sheet name -> table ID
	for i, tableID := range tableIDs {
		table, err := schema.GetTable(ctx, dataset, tableID)
		if err != nil {
			return err
		}

		row := []string{table.TableID, table.Description}
		if err := writeRow(f, OverviewSheet, i+2, row); err != nil {
			return errors.WrapIO("write", path, err)
		}

		sheet := SheetName(table.TableID)
		if prior, ok := seen[sheet]; ok {
			logger.Warn().
				Str("table", table.TableID).
				Str("collides_with", prior).
				Str("sheet", sheet).
				Msg("Sheet name collision after shortening, skipping field sheet")
			continue
		}
		seen[sheet] = table.TableID

		if err := writeTableSheet(f, sheet, table); err != nil {
			return errors.WrapIO("write", path, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return errors.WrapIO("write", path, err)
	}

	logger.Info().
		Str("path", path).
		Int("tables", len(tableIDs)).
		Msg("Exported dataset descriptions")
	return nil
}

func writeTableSheet(f *excelize.File, sheet string, table *metadata.TableDescriptor) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := writeRow(f, sheet, 1, tableHeader); err != nil {
		return err
	}
	for i, field := range table.Fields {
		row := []string{field.Name, field.Type, field.Mode, field.Description}
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []string) error {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return err
		}
	}
	return nil
}

// ImportResult tallies what an import applied and what it left alone.
type ImportResult struct {
	TableWrites int
	FieldWrites int
	Skipped     int // rows referencing unknown tables or fields, or empty cells
}

// Summary returns a human-readable summary of the import.
func (r *ImportResult) Summary() string {
	return fmt.Sprintf("%d table writes, %d field writes, %d rows skipped",
		r.TableWrites, r.FieldWrites, r.Skipped)
}

// Import reads an edited workbook and applies its descriptions to the schema
// store. Description cells are cleaned and sentence-cased before writing.
//
// An empty cell never clobbers an existing description, and rows referencing
// tables or fields missing from the current schema are skipped with a
// warning, not treated as failures. Deleting a description therefore happens
// in the store itself, never through the spreadsheet.
func Import(ctx context.Context, schema stores.SchemaStore, dataset metadata.DatasetRef, path string) (*ImportResult, error) {
	if dataset == "" {
		return nil, errors.NewInvalidIdentifierError("dataset", "")
	}
	logger := logging.FromContext(ctx)

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(OverviewSheet)
	if err != nil {
		return nil, errors.WrapParse("xlsx", path, err)
	}
	if len(rows) == 0 {
		return nil, errors.WrapParse("xlsx", path,
			errors.New("overview sheet "+OverviewSheet+" is empty"))
	}

	result := &ImportResult{}

	for _, row := range rows[1:] {
		tableID := cell(row, 0)
		if tableID == "" {
			result.Skipped++
			continue
		}

		table, err := schema.GetTable(ctx, dataset, tableID)
		if err != nil {
			if errors.IsNotFound(err) {
				logger.Warn().Str("table", tableID).Msg("Table in workbook not found in schema, skipping")
				result.Skipped++
				continue
			}
			return nil, err
		}

		if err := importTable(ctx, schema, dataset, table, cell(row, 1), result); err != nil {
			return nil, err
		}
		if err := importFields(ctx, f, schema, dataset, table, result); err != nil {
			return nil, err
		}
	}

	logger.Info().
		Str("path", path).
		Int("table_writes", result.TableWrites).
		Int("field_writes", result.FieldWrites).
		Int("skipped", result.Skipped).
		Msg("Imported workbook descriptions")
	return result, nil
}

func importTable(ctx context.Context, schema stores.SchemaStore, dataset metadata.DatasetRef, table *metadata.TableDescriptor, raw string, result *ImportResult) error {
	description := CleanSentence(raw)
	if description == "" || description == table.Description {
		if description == "" && table.Description != "" {
			result.Skipped++
		}
		return nil
	}

	description = metadata.Truncate(description, metadata.MaxSchemaDescription)
	if err := schema.SetTableDescription(ctx, dataset, table.TableID, description); err != nil {
		return err
	}
	result.TableWrites++
	return nil
}

func importFields(ctx context.Context, f *excelize.File, schema stores.SchemaStore, dataset metadata.DatasetRef, table *metadata.TableDescriptor, result *ImportResult) error {
	logger := logging.FromContext(ctx)

	rows, err := f.GetRows(SheetName(table.TableID))
	if err != nil {
		// No field sheet for this table; the overview row alone is fine.
		return nil
	}
	if len(rows) == 0 {
		return nil
	}

	for _, row := range rows[1:] {
		name := cell(row, 0)
		if name == "" {
			result.Skipped++
			continue
		}

		field := table.Field(name)
		if field == nil {
			logger.Warn().
				Str("table", table.TableID).
				Str("field", name).
				Msg("Field in workbook not found in schema, skipping")
			result.Skipped++
			continue
		}

		description := CleanSentence(cell(row, 3))
		if description == "" || description == field.Description {
			if description == "" && field.Description != "" {
				result.Skipped++
			}
			continue
		}

		description = metadata.Truncate(description, metadata.MaxSchemaDescription)
		if err := schema.SetFieldDescription(ctx, dataset, table.TableID, name, description); err != nil {
			return err
		}
		result.FieldWrites++
	}
	return nil
}

// cell returns the trimmed value at index i, tolerating the ragged rows
// GetRows produces when trailing cells are empty.
func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return CleanString(row[i])
}
