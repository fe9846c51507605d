package yamlstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataannex/tagsync/pkg/errors"
	"github.com/dataannex/tagsync/pkg/metadata"
)

func TestOpenMissingFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.yaml")

	s, err := Open(path)
	require.NoError(t, err)

	ids, err := s.ListTables(context.Background(), "sales")
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "no file is created before the first write")
}

func TestOpenEmptyPath(t *testing.T) {
	_, err := Open("")
	require.Error(t, err)
}

func TestWritesPersistAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.yaml")

	s, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, s.SeedTable("sales", metadata.TableDescriptor{
		TableID: "orders",
		Fields:  []metadata.FieldDescriptor{{Name: "amount", Type: "NUMERIC"}},
	}))
	require.NoError(t, s.SetTableDescription(ctx, "sales", "orders", "All orders."))
	require.NoError(t, s.SetFieldDescription(ctx, "sales", "orders", "amount", "Order total in euros."))

	ref, err := metadata.NewFieldRef("sales", "orders", "amount")
	require.NoError(t, err)
	require.NoError(t, s.CreateOrUpdateTag(ctx, ref, "desc-field", map[string]string{
		metadata.FieldDescriptionKey: "Order total in euros.",
	}))

	reopened, err := Open(path)
	require.NoError(t, err)

	table, err := reopened.GetTable(ctx, "sales", "orders")
	require.NoError(t, err)
	assert.Equal(t, "All orders.", table.Description)
	require.Len(t, table.Fields, 1)
	assert.Equal(t, "Order total in euros.", table.Fields[0].Description)

	tags, err := reopened.GetTagsForField(ctx, "sales", "orders", "amount")
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "Order total in euros.", tags[0].Description)
}

func TestOpenRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.yaml")
	require.NoError(t, os.WriteFile(path, []byte("datasets: [broken"), 0o644))

	_, err := Open(path)
	require.Error(t, err)

	var parseErr *errors.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestOpenRejectsBadIdentifiers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.yaml")
	doc := `datasets:
  - name: sales
    tables:
      - table_id: "a/b"
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	_, err := Open(path)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidIdentifier(err))
}

func TestWriteToMissingTableDoesNotFlush(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.yaml")

	s, err := Open(path)
	require.NoError(t, err)

	err = s.SetTableDescription(ctx, "sales", "missing", "x")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
