package persist_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelvault/modelvault/persist"
	"github.com/modelvault/modelvault/session"
)

func TestGenericWriterSave(t *testing.T) {
	ctx := context.Background()
	sess := newTestSession(t)

	scaler := newStubScaler()
	scaler.Fields().MustSet("scale", 2.0)
	scaler.Fields().MustSet("tags", []string{"prod", "v1"})

	writer := persist.NewGenericWriter("test.StubScaler", persist.WithSession(sess))
	require.NoError(t, writer.Save(ctx, "models/s1", scaler))

	m, err := persist.ReadManifest(ctx, sess, "models/s1")
	require.NoError(t, err)

	assert.Equal(t, "test.StubScaler", m.ClassName)
	assert.Equal(t, scaler.UID(), m.UID)
	assert.Equal(t, "0.3.0", m.FormatVersion)
	assert.NotZero(t, m.Timestamp)
	assert.Equal(t, map[string]string{
		"scale": "2",
		"tags":  `["prod","v1"]`,
	}, m.Fields)
}

func TestSaveGuardsOccupiedPath(t *testing.T) {
	ctx := context.Background()
	sess := newTestSession(t)

	writer := persist.NewGenericWriter("test.StubScaler", persist.WithSession(sess))
	require.NoError(t, writer.Save(ctx, "models/s1", newStubScaler()))

	err := writer.Save(ctx, "models/s1", newStubScaler())
	require.ErrorIs(t, err, persist.ErrAlreadyExists)
	assert.Contains(t, err.Error(), "models/s1")
}

func TestOverwriteReplaces(t *testing.T) {
	ctx := context.Background()
	sess := newTestSession(t)

	first := newStubScaler()
	first.Fields().MustSet("scale", 2.0)

	writer := persist.NewGenericWriter("test.StubScaler", persist.WithSession(sess))
	require.NoError(t, writer.Save(ctx, "models/s1", first))

	// Leave a stray blob beneath the path; overwrite must clear it.
	require.NoError(t, sess.Backend().WriteBlob(ctx, "models/s1/weights", "stale"))

	second := newStubScaler()
	second.Fields().MustSet("scale", 3.0)
	require.NoError(t, writer.Overwrite().Save(ctx, "models/s1", second))

	m, err := persist.ReadManifest(ctx, sess, "models/s1")
	require.NoError(t, err)
	assert.Equal(t, "3", m.Fields["scale"])
	assert.Equal(t, second.UID(), m.UID)

	gone, err := sess.Backend().Exists(ctx, "models/s1/weights")
	require.NoError(t, err)
	assert.False(t, gone, "overwrite should delete everything beneath the path")
}

func TestOverwriteIsCounted(t *testing.T) {
	ctx := context.Background()
	sess := newTestSession(t)

	writer := persist.NewGenericWriter("test.StubScaler", persist.WithSession(sess)).Overwrite()
	require.NoError(t, writer.Save(ctx, "models/s1", newStubScaler()))
	require.NoError(t, writer.Save(ctx, "models/s1", newStubScaler()))

	// Only the second save found data to replace.
	assert.Equal(t, 1.0, testutil.ToFloat64(sess.Metrics().Overwrites))
	assert.Equal(t, 2.0, testutil.ToFloat64(sess.Metrics().Saves.WithLabelValues("test.StubScaler", "ok")))
}

func TestCustomSaveImpl(t *testing.T) {
	ctx := context.Background()
	sess := newTestSession(t)

	impl := func(ctx context.Context, sess *session.Session, path, class string, c persist.Persistable) error {
		if err := persist.GenericSave(ctx, sess, path, class, c); err != nil {
			return err
		}
		return sess.Backend().WriteBlob(ctx, path+"/weights", "w1 w2 w3")
	}

	writer := persist.NewWriter("test.StubScaler", impl, persist.WithSession(sess))
	require.NoError(t, writer.Save(ctx, "models/s1", newStubScaler()))

	_, err := persist.ReadManifest(ctx, sess, "models/s1")
	require.NoError(t, err)

	weights, err := sess.Backend().ReadFirstBlob(ctx, "models/s1/weights")
	require.NoError(t, err)
	assert.Equal(t, "w1 w2 w3", weights)
}

func TestNewWriterPanics(t *testing.T) {
	assert.Panics(t, func() { persist.NewGenericWriter("") })
	assert.Panics(t, func() { persist.NewWriter("test.StubScaler", nil) })
}

func TestSaveAcceptsRootedPath(t *testing.T) {
	ctx := context.Background()
	sess := newTestSession(t)

	scaler := newStubScaler()
	scaler.Fields().MustSet("scale", 2.0)

	writer := persist.NewGenericWriter("test.StubScaler", persist.WithSession(sess))
	require.NoError(t, writer.Save(ctx, "/models/a", scaler))

	// The leading slash is root-relative: both spellings address the
	// same location.
	m, err := persist.ReadManifest(ctx, sess, "models/a")
	require.NoError(t, err)
	assert.Equal(t, scaler.UID(), m.UID)

	err = writer.Save(ctx, "/models/a", scaler)
	assert.ErrorIs(t, err, persist.ErrAlreadyExists)
}

func TestSaveRejectsEscapingPath(t *testing.T) {
	ctx := context.Background()
	sess := newTestSession(t)

	writer := persist.NewGenericWriter("test.StubScaler", persist.WithSession(sess))
	err := writer.Save(ctx, "../outside", newStubScaler())
	require.Error(t, err)
	assert.NotErrorIs(t, err, persist.ErrAlreadyExists)
}

func TestPackageSave(t *testing.T) {
	ctx := context.Background()
	sess := newTestSession(t)

	t.Run("derives class from type", func(t *testing.T) {
		scaler := newStubScaler()
		scaler.Fields().MustSet("scale", 4.0)
		require.NoError(t, persist.Save(ctx, "models/auto", scaler, persist.WithSession(sess)))

		m, err := persist.ReadManifest(ctx, sess, "models/auto")
		require.NoError(t, err)
		assert.Equal(t, "test.StubScaler", m.ClassName)
	})

	t.Run("unregistered type", func(t *testing.T) {
		err := persist.Save(ctx, "models/ghost", newUnregisteredStub(), persist.WithSession(sess))
		assert.ErrorIs(t, err, persist.ErrUnknownClass)
	})
}
