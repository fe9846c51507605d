package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataannex/tagsync/pkg/errors"
)

func TestNewTableRef(t *testing.T) {
	ref, err := NewTableRef("analytics", "sales")
	require.NoError(t, err)

	assert.Equal(t, KindTable, ref.Kind())
	assert.Equal(t, "datasets/analytics/tables/sales", ref.Key())
	assert.Equal(t, TableDescriptionKey, ref.DescriptionKey())
}

func TestNewFieldRef(t *testing.T) {
	ref, err := NewFieldRef("analytics", "sales", "amount")
	require.NoError(t, err)

	assert.Equal(t, KindField, ref.Kind())
	assert.Equal(t, "datasets/analytics/tables/sales/fields/amount", ref.Key())
	assert.Equal(t, FieldDescriptionKey, ref.DescriptionKey())
}

func TestRefValidation(t *testing.T) {
	tests := []struct {
		name    string
		dataset DatasetRef
		table   string
		field   string
	}{
		{name: "empty dataset", dataset: "", table: "sales"},
		{name: "empty table", dataset: "analytics", table: ""},
		{name: "separator in dataset", dataset: "a/b", table: "sales"},
		{name: "separator in table", dataset: "analytics", table: "a/b"},
		{name: "separator in field", dataset: "analytics", table: "sales", field: "a/b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			if tt.field != "" {
				_, err = NewFieldRef(tt.dataset, tt.table, tt.field)
			} else {
				_, err = NewTableRef(tt.dataset, tt.table)
			}
			require.Error(t, err)
			assert.True(t, errors.IsInvalidIdentifier(err), "expected invalid identifier, got %v", err)
		})
	}
}

func TestNewFieldRefEmptyField(t *testing.T) {
	_, err := NewFieldRef("analytics", "sales", "")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidIdentifier(err))
}

func TestKeyDistinguishesTableAndField(t *testing.T) {
	tableRef, err := NewTableRef("analytics", "sales")
	require.NoError(t, err)
	fieldRef, err := NewFieldRef("analytics", "sales", "amount")
	require.NoError(t, err)

	assert.NotEqual(t, tableRef.Key(), fieldRef.Key())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "abc", Truncate("abc", 3), "value at the limit passes through")
	assert.Equal(t, "ab", Truncate("abc", 2))
	assert.Equal(t, "", Truncate("", 10))
}

func TestTableDescriptorField(t *testing.T) {
	table := &TableDescriptor{
		TableID: "sales",
		Fields: []FieldDescriptor{
			{Name: "amount", Type: "NUMERIC"},
			{Name: "region", Type: "STRING"},
		},
	}

	field := table.Field("region")
	require.NotNil(t, field)
	assert.Equal(t, "STRING", field.Type)

	assert.Nil(t, table.Field("missing"))

	// Field returns a pointer into the descriptor, so writes stick.
	field.Description = "Sales region."
	assert.Equal(t, "Sales region.", table.Fields[1].Description)
}
