package persist

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/modelvault/modelvault/manifest"
	"github.com/modelvault/modelvault/session"
	"github.com/modelvault/modelvault/storage"
)

// SaveImpl writes a component's data beneath an already-cleared path.
// The generic implementation writes the manifest blob only; components
// with bulk data supply their own and typically still call the generic
// one for the manifest.
type SaveImpl func(ctx context.Context, sess *session.Session, path, class string, c Persistable) error

// Writer saves components under a fixed class name.
//
// A fresh writer refuses to touch occupied paths. Overwrite switches it
// to replace mode, where existing data is deleted before the new write.
// The delete and the write are separate backend calls: a crash between
// them leaves the path empty, with the old data gone and the new data
// never written.
type Writer struct {
	sess      *session.Session
	class     string
	impl      SaveImpl
	overwrite bool
}

// NewWriter creates a writer with a custom save implementation. It
// panics on an empty class or nil implementation, which are programming
// errors.
func NewWriter(class string, impl SaveImpl, opts ...Option) *Writer {
	if class == "" {
		panic("persist: empty class name for writer")
	}
	if impl == nil {
		panic("persist: nil save implementation for class " + class)
	}
	o := applyOptions(opts)
	return &Writer{sess: o.sess, class: class, impl: impl}
}

// NewGenericWriter creates a writer that persists the manifest blob
// alone, which covers every component whose state fits its field set.
func NewGenericWriter(class string, opts ...Option) *Writer {
	return NewWriter(class, GenericSave, opts...)
}

// Overwrite switches the writer to replace existing data. It returns
// the writer for chaining and is idempotent.
func (w *Writer) Overwrite() *Writer {
	w.overwrite = true
	return w
}

// Session returns the session the writer operates against.
func (w *Writer) Session() *session.Session { return w.sess }

// Save persists the component at the path. An occupied path yields
// ErrAlreadyExists unless the writer is in overwrite mode.
func (w *Writer) Save(ctx context.Context, path string, c Persistable) (err error) {
	start := time.Now()
	defer func() {
		w.sess.Metrics().RecordSave(w.class, time.Since(start), err)
	}()

	cleaned, err := storage.CleanPath(path)
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", w.class, err)
	}

	log := w.sess.Logger().With(
		zap.String("class", w.class),
		zap.String("path", cleaned),
		zap.String("uid", c.UID()),
	)
	backend := w.sess.Backend()

	exists, err := backend.Exists(ctx, cleaned)
	if err != nil {
		return fmt.Errorf("failed to check path %q: %w", path, err)
	}
	if exists {
		if !w.overwrite {
			return fmt.Errorf("%w: path %q already holds data (use Overwrite to replace it)",
				ErrAlreadyExists, path)
		}
		log.Warn("overwriting existing data")
		w.sess.Metrics().IncOverwrites()
		if err := backend.DeleteRecursive(ctx, cleaned); err != nil {
			return fmt.Errorf("failed to delete existing data at %q: %w", path, err)
		}
	}

	if err := w.impl(ctx, w.sess, cleaned, w.class, c); err != nil {
		return fmt.Errorf("failed to save %s at %q: %w", w.class, path, err)
	}

	log.Debug("saved component")
	return nil
}

// GenericSave renders the component's manifest and writes it as the
// single metadata blob under the path.
func GenericSave(ctx context.Context, sess *session.Session, path, class string, c Persistable) error {
	encoded, err := c.Fields().EncodeAll()
	if err != nil {
		return fmt.Errorf("failed to encode fields: %w", err)
	}

	m := manifest.New(class, c.UID(), sess.Version(), encoded)
	text, err := m.Render()
	if err != nil {
		return fmt.Errorf("failed to render manifest: %w", err)
	}
	sess.Metrics().ObserveManifestSize(len(text))

	if err := sess.Backend().WriteBlob(ctx, MetadataPath(path), text); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
