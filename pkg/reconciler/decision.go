package reconciler

import (
	"fmt"

	"github.com/dataannex/tagsync/pkg/metadata"
)

// Direction says which store a decision writes to, if any.
type Direction string

const (
	// None means the entity needs no write: both sides are empty or already equal.
	None Direction = "none"
	// PushToTag writes the schema-side description into the tag store.
	PushToTag Direction = "push-to-tag"
	// PushToSchema writes the tag-side description into the schema store.
	PushToSchema Direction = "push-to-schema"
)

// Decision is the engine's output for one entity: the direction to write and
// the value to carry. Exactly one of the two store-side values is ever the
// write source; the engine never merges two differing non-empty strings.
type Decision struct {
	Entity    metadata.EntityRef
	Direction Direction
	Value     string // present only when Direction != None
	Reason    string
}

// IsWrite reports whether the decision requires a store write.
func (d Decision) IsWrite() bool {
	return d.Direction != None
}

// String returns a compact human-readable form of the decision.
func (d Decision) String() string {
	if d.Direction == None {
		return fmt.Sprintf("%s: no-op (%s)", d.Entity.Key(), d.Reason)
	}
	return fmt.Sprintf("%s: %s (%s)", d.Entity.Key(), d.Direction, d.Reason)
}
