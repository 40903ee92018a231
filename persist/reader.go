package persist

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/modelvault/modelvault/manifest"
	"github.com/modelvault/modelvault/session"
	"github.com/modelvault/modelvault/storage"
)

// Reader restores component state saved under a fixed class name.
type Reader struct {
	sess  *session.Session
	class string
}

// NewReader creates a reader expecting the given class. An empty class
// skips the class check, which suits callers inspecting foreign data.
func NewReader(class string, opts ...Option) *Reader {
	o := applyOptions(opts)
	return &Reader{sess: o.sess, class: class}
}

// Session returns the session the reader operates against.
func (r *Reader) Session() *session.Session { return r.sess }

// Load reads the manifest at the path and decodes its fields into the
// component. The component keeps its own UID; only declared fields
// change. Use the package Load or LoadAs to reconstruct an instance
// carrying the manifest's uid.
func (r *Reader) Load(ctx context.Context, path string, into Persistable) (err error) {
	start := time.Now()
	defer func() {
		r.sess.Metrics().RecordLoad(r.class, time.Since(start), err)
	}()

	m, err := ReadManifest(ctx, r.sess, path)
	if err != nil {
		return err
	}

	if r.class != "" && m.ClassName != r.class {
		return fmt.Errorf("%w: path %q holds %s data, expected %s",
			ErrClassMismatch, path, m.ClassName, r.class)
	}

	if err := decodeInto(m, into); err != nil {
		return err
	}

	r.sess.Logger().Debug("loaded component",
		zap.String("class", m.ClassName),
		zap.String("path", path),
		zap.String("uid", into.UID()),
	)
	return nil
}

// ReadManifest fetches and parses the manifest blob under the path
// without touching any component. Callers use it to inspect saved data
// before deciding how to reconstruct it.
func ReadManifest(ctx context.Context, sess *session.Session, path string) (*manifest.Manifest, error) {
	cleaned, err := storage.CleanPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load: %w", err)
	}
	backend := sess.Backend()
	blobPath := MetadataPath(cleaned)

	exists, err := backend.Exists(ctx, blobPath)
	if err != nil {
		return nil, fmt.Errorf("failed to check path %q: %w", path, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: no saved data at %q", ErrNotFound, path)
	}

	text, err := backend.ReadFirstBlob(ctx, blobPath)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			return nil, fmt.Errorf("%w: no saved data at %q", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read manifest at %q: %w", path, err)
	}

	m, err := manifest.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("manifest at %q: %w", path, err)
	}
	return m, nil
}

// decodeInto applies manifest fields to the component in sorted name
// order, so the reported field on failure is deterministic.
func decodeInto(m *manifest.Manifest, into Persistable) error {
	names := make([]string, 0, len(m.Fields))
	for name := range m.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := into.Fields()
	for _, name := range names {
		if !fields.Declared(name) {
			return fmt.Errorf("%w: manifest field %q is not declared by %s",
				ErrUnknownField, name, m.ClassName)
		}
		if err := fields.DecodeAndSet(name, m.Fields[name]); err != nil {
			return fmt.Errorf("%w: field %q of %s: %w",
				ErrFieldDecode, name, m.ClassName, err)
		}
	}
	return nil
}

// LoadAs loads the component at the path as a concrete registered type,
// reconstructed with the manifest's uid. The type's registered class
// name doubles as the expected class, so foreign data fails with
// ErrClassMismatch.
func LoadAs[T Persistable](ctx context.Context, path string, opts ...Option) (T, error) {
	var zero T
	o := applyOptions(opts)

	class, ok := o.registry.nameForType(reflect.TypeFor[T]())
	if !ok {
		return zero, fmt.Errorf("%w: type %s is not registered",
			ErrUnknownClass, reflect.TypeFor[T]())
	}

	instance, err := loadNew(ctx, o, path, class)
	if err != nil {
		return zero, err
	}
	return instance.(T), nil
}

// loadNew reconstructs a fresh instance from the manifest at the path,
// carrying the manifest's uid. An empty expected class skips the
// mismatch check.
func loadNew(ctx context.Context, o options, path, class string) (c Persistable, err error) {
	start := time.Now()
	observed := class
	defer func() {
		o.sess.Metrics().RecordLoad(observed, time.Since(start), err)
	}()

	m, err := ReadManifest(ctx, o.sess, path)
	if err != nil {
		return nil, err
	}
	observed = m.ClassName

	if class != "" && m.ClassName != class {
		return nil, fmt.Errorf("%w: path %q holds %s data, expected %s",
			ErrClassMismatch, path, m.ClassName, class)
	}

	c, err = o.registry.New(m.ClassName, m.UID)
	if err != nil {
		return nil, fmt.Errorf("cannot reconstruct %q: %w", path, err)
	}
	if err := decodeInto(m, c); err != nil {
		return nil, err
	}

	o.sess.Logger().Debug("loaded component",
		zap.String("class", m.ClassName),
		zap.String("path", path),
		zap.String("uid", c.UID()),
	)
	return c, nil
}
