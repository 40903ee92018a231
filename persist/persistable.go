package persist

import "github.com/modelvault/modelvault/field"

// Persistable is a component that can be saved and restored. The UID
// survives round trips verbatim; the field set carries everything else
// worth keeping.
type Persistable interface {
	// UID returns the component's stable identifier.
	UID() string
	// Fields returns the component's declared field set.
	Fields() *field.Set
}
