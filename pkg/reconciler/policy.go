package reconciler

import "github.com/dataannex/tagsync/pkg/metadata"

// PolicyType represents the type of conflict policy.
type PolicyType string

const (
	// PolicyTypeSchemaAuthority resolves true conflicts in favor of the schema store.
	PolicyTypeSchemaAuthority PolicyType = "schema-authority"
	// PolicyTypeTagAuthority resolves true conflicts in favor of the tag store.
	PolicyTypeTagAuthority PolicyType = "tag-authority"
)

// String returns the string representation of a policy type.
func (p PolicyType) String() string {
	return string(p)
}

// Policy decides the write direction when both stores hold a non-empty,
// differing description for the same entity. The policy is consulted only for
// that true-conflict case; the empty and equal cases are fixed algorithm
// steps and never reach a policy.
type Policy interface {
	// Type returns the policy type
	Type() PolicyType

	// Description returns a human-readable description
	Description() string

	// ResolveConflict picks the winning side for a true conflict and returns
	// the direction to write, the value to carry, and a reason string for the
	// decision record.
	ResolveConflict(entity metadata.EntityRef, schemaVal, tagVal string) (Direction, string, string)
}

// SchemaAuthorityPolicy treats the schema store as the operational source of
// truth: on conflict the schema-side value is pushed to the tag store, which
// is treated as an annotation layer that must catch up. This is the default.
type SchemaAuthorityPolicy struct{}

// Type returns the policy type.
func (SchemaAuthorityPolicy) Type() PolicyType {
	return PolicyTypeSchemaAuthority
}

// Description returns a human-readable description.
func (SchemaAuthorityPolicy) Description() string {
	return "Resolves conflicts in favor of the schema store; the tag store catches up"
}

// ResolveConflict pushes the schema-side value to the tag store.
func (SchemaAuthorityPolicy) ResolveConflict(_ metadata.EntityRef, schemaVal, _ string) (Direction, string, string) {
	return PushToTag, schemaVal, "conflict: schema store is authoritative"
}

// TagAuthorityPolicy is the explicit override of the default precedence: on
// conflict the tag-side value is pushed back into the schema store. Selecting
// it is always an explicit caller choice, never a silent fallback.
type TagAuthorityPolicy struct{}

// Type returns the policy type.
func (TagAuthorityPolicy) Type() PolicyType {
	return PolicyTypeTagAuthority
}

// Description returns a human-readable description.
func (TagAuthorityPolicy) Description() string {
	return "Resolves conflicts in favor of the tag store; the schema store catches up"
}

// ResolveConflict pushes the tag-side value to the schema store.
func (TagAuthorityPolicy) ResolveConflict(_ metadata.EntityRef, _, tagVal string) (Direction, string, string) {
	return PushToSchema, tagVal, "conflict: tag store is authoritative"
}

// PolicyFromType returns the policy for a type name, defaulting to schema
// authority for an empty type.
func PolicyFromType(t PolicyType) (Policy, bool) {
	switch t {
	case PolicyTypeSchemaAuthority, "":
		return SchemaAuthorityPolicy{}, true
	case PolicyTypeTagAuthority:
		return TagAuthorityPolicy{}, true
	default:
		return nil, false
	}
}
