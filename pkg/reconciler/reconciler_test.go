package reconciler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataannex/tagsync/pkg/metadata"
)

func mustNew(t *testing.T, opts ...Option) Reconciler {
	t.Helper()
	r, err := New(opts...)
	require.NoError(t, err)
	return r
}

func tableTag(t *testing.T, dataset metadata.DatasetRef, tableID, description string) metadata.TagValue {
	t.Helper()
	ref, err := metadata.NewTableRef(dataset, tableID)
	require.NoError(t, err)
	return metadata.TagValue{Entity: ref, Description: description}
}

func fieldTag(t *testing.T, dataset metadata.DatasetRef, tableID, field, description string) metadata.TagValue {
	t.Helper()
	ref, err := metadata.NewFieldRef(dataset, tableID, field)
	require.NoError(t, err)
	return metadata.TagValue{Entity: ref, Description: description}
}

func TestDecideCases(t *testing.T) {
	tests := []struct {
		name      string
		schemaVal string
		tagVal    string
		direction Direction
		value     string
	}{
		{
			name:      "both empty is a no-op",
			direction: None,
		},
		{
			name:      "equal values are a no-op",
			schemaVal: "Order total in euros.",
			tagVal:    "Order total in euros.",
			direction: None,
		},
		{
			name:      "schema only pushes to tag",
			schemaVal: "Order total in euros.",
			direction: PushToTag,
			value:     "Order total in euros.",
		},
		{
			name:      "tag only pushes to schema",
			tagVal:    "Order total in euros.",
			direction: PushToSchema,
			value:     "Order total in euros.",
		},
		{
			name:      "conflict defaults to schema authority",
			schemaVal: "Order total in euros.",
			tagVal:    "Order total in dollars.",
			direction: PushToTag,
			value:     "Order total in euros.",
		},
		{
			name:      "whitespace difference is a conflict, not equality",
			schemaVal: "Order total.",
			tagVal:    "Order total. ",
			direction: PushToTag,
			value:     "Order total.",
		},
		{
			name:      "case difference is a conflict",
			schemaVal: "order total.",
			tagVal:    "Order total.",
			direction: PushToTag,
			value:     "order total.",
		},
	}

	r := mustNew(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := &metadata.TableDescriptor{TableID: "orders", Description: tt.schemaVal}
			var tags []metadata.TagValue
			if tt.tagVal != "" {
				tags = append(tags, tableTag(t, "sales", "orders", tt.tagVal))
			}

			decisions, err := r.Table("sales", table, tags)
			require.NoError(t, err)
			require.Len(t, decisions, 1)

			assert.Equal(t, tt.direction, decisions[0].Direction)
			assert.Equal(t, tt.value, decisions[0].Value)
			assert.Equal(t, tt.direction != None, decisions[0].IsWrite())
		})
	}
}

func TestTableDecisionOrder(t *testing.T) {
	r := mustNew(t)

	table := &metadata.TableDescriptor{
		TableID:     "orders",
		Description: "All orders.",
		Fields: []metadata.FieldDescriptor{
			{Name: "amount", Description: "Total amount."},
			{Name: "region"},
			{Name: "created_at", Description: "Creation time."},
		},
	}

	decisions, err := r.Table("sales", table, nil)
	require.NoError(t, err)
	require.Len(t, decisions, 4, "one decision for the table plus one per field")

	assert.Equal(t, "datasets/sales/tables/orders", decisions[0].Entity.Key())
	assert.Equal(t, "amount", decisions[1].Entity.Field)
	assert.Equal(t, "region", decisions[2].Entity.Field)
	assert.Equal(t, "created_at", decisions[3].Entity.Field)

	// region has no description on either side.
	assert.Equal(t, None, decisions[2].Direction)
	assert.Equal(t, PushToTag, decisions[1].Direction)
}

func TestTableIsDeterministic(t *testing.T) {
	r := mustNew(t)

	table := &metadata.TableDescriptor{
		TableID:     "orders",
		Description: "All orders.",
		Fields: []metadata.FieldDescriptor{
			{Name: "amount", Description: "Total amount."},
			{Name: "region", Description: "Sales region."},
		},
	}
	tags := []metadata.TagValue{
		tableTag(t, "sales", "orders", "Every order."),
		fieldTag(t, "sales", "orders", "amount", "Total amount."),
	}

	first, err := r.Table("sales", table, tags)
	require.NoError(t, err)
	second, err := r.Table("sales", table, tags)
	require.NoError(t, err)

	assert.Equal(t, first, second, "same snapshot must yield the same decisions")
}

func TestTagAuthorityPolicy(t *testing.T) {
	r := mustNew(t, WithPolicy(TagAuthorityPolicy{}))

	table := &metadata.TableDescriptor{TableID: "orders", Description: "Schema side."}
	tags := []metadata.TagValue{tableTag(t, "sales", "orders", "Tag side.")}

	decisions, err := r.Table("sales", table, tags)
	require.NoError(t, err)
	require.Len(t, decisions, 1)

	assert.Equal(t, PushToSchema, decisions[0].Direction)
	assert.Equal(t, "Tag side.", decisions[0].Value)
}

func TestTagAuthorityNeverPropagatesEmpty(t *testing.T) {
	// Even under tag authority an empty tag side never overwrites the schema.
	r := mustNew(t, WithPolicy(TagAuthorityPolicy{}))

	table := &metadata.TableDescriptor{TableID: "orders", Description: "Schema side."}

	decisions, err := r.Table("sales", table, nil)
	require.NoError(t, err)
	require.Len(t, decisions, 1)
	assert.Equal(t, PushToTag, decisions[0].Direction, "missing tag side is a fill, not a conflict")
}

func TestWithPolicyNil(t *testing.T) {
	_, err := New(WithPolicy(nil))
	require.Error(t, err)
}

func TestPolicyFromType(t *testing.T) {
	policy, ok := PolicyFromType(PolicyTypeSchemaAuthority)
	require.True(t, ok)
	assert.Equal(t, PolicyTypeSchemaAuthority, policy.Type())

	policy, ok = PolicyFromType("")
	require.True(t, ok, "empty type falls back to the default")
	assert.Equal(t, PolicyTypeSchemaAuthority, policy.Type())

	policy, ok = PolicyFromType(PolicyTypeTagAuthority)
	require.True(t, ok)
	assert.Equal(t, PolicyTypeTagAuthority, policy.Type())

	_, ok = PolicyFromType("merge")
	assert.False(t, ok)
}

func TestTableRejectsBadTableID(t *testing.T) {
	r := mustNew(t)

	_, err := r.Table("sales", &metadata.TableDescriptor{TableID: ""}, nil)
	require.Error(t, err)
}
