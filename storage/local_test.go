package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalWriteRead(t *testing.T) {
	ctx := context.Background()
	l, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, l.WriteBlob(ctx, "models/m1/metadata", `{"a":1}`))

	text, err := l.ReadFirstBlob(ctx, "models/m1/metadata")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, text)

	t.Run("replaces previous blob", func(t *testing.T) {
		require.NoError(t, l.WriteBlob(ctx, "models/m1/metadata", `{"a":2}`))
		text, err := l.ReadFirstBlob(ctx, "models/m1/metadata")
		require.NoError(t, err)
		assert.Equal(t, `{"a":2}`, text)
	})

	t.Run("first line only", func(t *testing.T) {
		full := filepath.Join(l.Root(), "multi")
		require.NoError(t, os.WriteFile(full, []byte("line1\nline2\n"), 0o644))
		text, err := l.ReadFirstBlob(ctx, "multi")
		require.NoError(t, err)
		assert.Equal(t, "line1", text)
	})
}

func TestLocalExists(t *testing.T) {
	ctx := context.Background()
	l, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	ok, err := l.Exists(ctx, "models/m1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, l.WriteBlob(ctx, "models/m1/metadata", "x"))

	t.Run("blob path", func(t *testing.T) {
		ok, err := l.Exists(ctx, "models/m1/metadata")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("parent directory", func(t *testing.T) {
		ok, err := l.Exists(ctx, "models/m1")
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestLocalDeleteRecursive(t *testing.T) {
	ctx := context.Background()
	l, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, l.WriteBlob(ctx, "models/m1/metadata", "x"))
	require.NoError(t, l.WriteBlob(ctx, "models/m1/extra", "y"))

	require.NoError(t, l.DeleteRecursive(ctx, "models/m1"))

	ok, err := l.Exists(ctx, "models/m1")
	require.NoError(t, err)
	assert.False(t, ok)

	t.Run("missing path is not an error", func(t *testing.T) {
		assert.NoError(t, l.DeleteRecursive(ctx, "models/m1"))
	})
}

func TestLocalMissingBlob(t *testing.T) {
	ctx := context.Background()
	l, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	_, err = l.ReadFirstBlob(ctx, "models/gone/metadata")
	assert.ErrorIs(t, err, ErrNotExist)
}

func TestLocalRejectsEscapes(t *testing.T) {
	ctx := context.Background()
	l, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	for _, p := range []string{"../outside", "a/../../outside", "/../outside/..", "/", ""} {
		t.Run(p, func(t *testing.T) {
			err := l.WriteBlob(ctx, p, "x")
			assert.Error(t, err)
		})
	}
}

func TestLocalAbsolutePathIsRootRelative(t *testing.T) {
	ctx := context.Background()
	l, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, l.WriteBlob(ctx, "/models/a/metadata", "x"))

	text, err := l.ReadFirstBlob(ctx, "models/a/metadata")
	require.NoError(t, err)
	assert.Equal(t, "x", text)

	ok, err := l.Exists(ctx, "/models/a")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLocalContextCancellation(t *testing.T) {
	l, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, l.WriteBlob(ctx, "p/metadata", "x"), context.Canceled)
	_, err = l.Exists(ctx, "p")
	assert.ErrorIs(t, err, context.Canceled)
}
