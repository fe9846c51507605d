package spreadsheet

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/dataannex/tagsync/pkg/metadata"
	"github.com/dataannex/tagsync/pkg/stores/memory"
)

func TestCleanString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"order total", "order total"},
		{"  order   total  ", "order total"},
		{"order\ntotal", "order total"},
		{"order\t\ttotal\r\n", "order total"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanString(tt.in))
	}
}

func TestCleanSentence(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"order total", "Order total."},
		{"order total.", "Order total."},
		{"amount [EUR]", "Amount [EUR]"},
		{"  already   clean. ", "Already clean."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanSentence(tt.in))
	}
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "orders", SheetName("orders"))

	long := "a_very_long_table_name_that_exceeds_the_sheet_limit"
	short := SheetName(long)
	assert.Len(t, short, 31)
	assert.Equal(t, long[:31], short)
}

func seededStore() *memory.Store {
	store := memory.New()
	store.SeedTable("sales", metadata.TableDescriptor{
		TableID:     "orders",
		Description: "All orders.",
		Fields: []metadata.FieldDescriptor{
			{Name: "amount", Type: "NUMERIC", Mode: "NULLABLE", Description: "Order total in euros."},
			{Name: "region", Type: "STRING", Mode: "NULLABLE"},
		},
	})
	store.SeedTable("sales", metadata.TableDescriptor{TableID: "customers"})
	return store
}

func TestExportLayout(t *testing.T) {
	ctx := context.Background()
	store := seededStore()
	path := filepath.Join(t.TempDir(), "sales.xlsx")

	require.NoError(t, Export(ctx, store, "sales", path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(OverviewSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus one row per table")
	assert.Equal(t, []string{"table_id", metadata.TableDescriptionKey}, rows[0])
	assert.Equal(t, "orders", rows[1][0])
	assert.Equal(t, "All orders.", rows[1][1])

	fieldRows, err := f.GetRows("orders")
	require.NoError(t, err)
	require.Len(t, fieldRows, 3, "header plus one row per field")
	assert.Equal(t, "amount", fieldRows[1][0])
	assert.Equal(t, "NUMERIC", fieldRows[1][1])
	assert.Equal(t, "Order total in euros.", fieldRows[1][3])
}

func TestImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := seededStore()
	path := filepath.Join(t.TempDir(), "sales.xlsx")
	require.NoError(t, Export(ctx, store, "sales", path))

	// Simulate offline editing: fill the empty region description and change
	// the table description.
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue(OverviewSheet, "B2", "every order ever placed"))
	require.NoError(t, f.SetCellValue("orders", "D3", "sales   region\nof the order"))
	require.NoError(t, f.Save())
	require.NoError(t, f.Close())

	result, err := Import(ctx, store, "sales", path)
	require.NoError(t, err)

	assert.Equal(t, 1, result.TableWrites)
	assert.Equal(t, 1, result.FieldWrites, "amount is unchanged, only region gets written")

	table, err := store.GetTable(ctx, "sales", "orders")
	require.NoError(t, err)
	assert.Equal(t, "Every order ever placed.", table.Description, "descriptions are cleaned and sentence-cased")
	assert.Equal(t, "Sales region of the order.", table.Field("region").Description)
	assert.Equal(t, "Order total in euros.", table.Field("amount").Description)
}

func TestImportEmptyCellNeverClobbers(t *testing.T) {
	ctx := context.Background()
	store := seededStore()
	path := filepath.Join(t.TempDir(), "sales.xlsx")
	require.NoError(t, Export(ctx, store, "sales", path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("orders", "D2", ""))
	require.NoError(t, f.Save())
	require.NoError(t, f.Close())

	result, err := Import(ctx, store, "sales", path)
	require.NoError(t, err)
	assert.Equal(t, 0, result.FieldWrites)
	assert.GreaterOrEqual(t, result.Skipped, 1)

	table, err := store.GetTable(ctx, "sales", "orders")
	require.NoError(t, err)
	assert.Equal(t, "Order total in euros.", table.Field("amount").Description,
		"an emptied cell must not erase the stored description")
}

func TestImportSkipsUnknownTablesAndFields(t *testing.T) {
	ctx := context.Background()
	store := seededStore()
	path := filepath.Join(t.TempDir(), "sales.xlsx")
	require.NoError(t, Export(ctx, store, "sales", path))

	// The schema moved on while the workbook was being edited.
	store.RemoveTable("sales", "customers")

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("orders", "A4", "dropped_column"))
	require.NoError(t, f.SetCellValue("orders", "D4", "no longer exists"))
	require.NoError(t, f.Save())
	require.NoError(t, f.Close())

	result, err := Import(ctx, store, "sales", path)
	require.NoError(t, err, "stale rows are skipped, never fatal")
	assert.GreaterOrEqual(t, result.Skipped, 2)
}

func TestImportMissingWorkbook(t *testing.T) {
	_, err := Import(context.Background(), seededStore(), "sales", filepath.Join(t.TempDir(), "nope.xlsx"))
	require.Error(t, err)
}

func TestExportSelectedTables(t *testing.T) {
	ctx := context.Background()
	store := seededStore()
	path := filepath.Join(t.TempDir(), "sales.xlsx")

	require.NoError(t, Export(ctx, store, "sales", path, "orders"))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(OverviewSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 2, "only the requested table is exported")
}
