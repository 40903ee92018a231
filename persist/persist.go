package persist

import (
	"context"
	"fmt"

	"github.com/modelvault/modelvault/session"
)

// MetadataBlob is the blob name the manifest lives under within a
// component's path.
const MetadataBlob = "metadata"

// MetadataPath returns the manifest blob path for a component path.
func MetadataPath(path string) string {
	return path + "/" + MetadataBlob
}

// Option customizes a writer, reader, or package-level operation.
type Option func(*options)

type options struct {
	sess     *session.Session
	registry *Registry
}

// WithSession runs the operation against the given session instead of
// the process-wide default.
func WithSession(s *session.Session) Option {
	return func(o *options) {
		if s != nil {
			o.sess = s
		}
	}
}

// WithRegistry resolves classes through the given registry instead of
// the default one.
func WithRegistry(r *Registry) Option {
	return func(o *options) {
		if r != nil {
			o.registry = r
		}
	}
}

func applyOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.sess == nil {
		o.sess = session.Default()
	}
	if o.registry == nil {
		o.registry = defaultRegistry
	}
	return o
}

// Save persists a registered component, deriving the class name from
// its type. The path must be unoccupied; use a writer in overwrite
// mode to replace existing data.
func Save(ctx context.Context, path string, c Persistable, opts ...Option) error {
	o := applyOptions(opts)

	class, ok := o.registry.NameFor(c)
	if !ok {
		return fmt.Errorf("%w: type %T is not registered", ErrUnknownClass, c)
	}
	return NewGenericWriter(class, opts...).Save(ctx, path, c)
}

// Load reconstructs whatever component is saved at the path, using the
// manifest's class name to pick the registered factory. The returned
// instance carries the manifest's uid.
func Load(ctx context.Context, path string, opts ...Option) (Persistable, error) {
	return loadNew(ctx, applyOptions(opts), path, "")
}
