package persist_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelvault/modelvault/persist"
)

func TestRegistryNew(t *testing.T) {
	r := persist.NewRegistry()
	persist.RegisterIn[*stubScaler](r, "StubScaler", restoreStubScaler)

	t.Run("constructs with the given uid", func(t *testing.T) {
		c, err := r.New("StubScaler", "stub_a")
		require.NoError(t, err)
		assert.IsType(t, &stubScaler{}, c)
		assert.Equal(t, "stub_a", c.UID())
	})

	t.Run("instances are independent", func(t *testing.T) {
		a, err := r.New("StubScaler", "stub_a")
		require.NoError(t, err)
		b, err := r.New("StubScaler", "stub_b")
		require.NoError(t, err)
		assert.NotSame(t, a, b)
		assert.NotEqual(t, a.UID(), b.UID())
	})

	t.Run("unknown class", func(t *testing.T) {
		_, err := r.New("Ghost", "ghost_1")
		assert.ErrorIs(t, err, persist.ErrUnknownClass)
	})
}

func TestRegistryNameFor(t *testing.T) {
	r := persist.NewRegistry()
	persist.RegisterIn[*stubScaler](r, "StubScaler", restoreStubScaler)

	name, ok := r.NameFor(newStubScaler())
	assert.True(t, ok)
	assert.Equal(t, "StubScaler", name)

	_, ok = r.NameFor(newOtherStub())
	assert.False(t, ok)
}

func TestRegistryContains(t *testing.T) {
	r := persist.NewRegistry()
	persist.RegisterIn[*stubScaler](r, "StubScaler", restoreStubScaler)

	assert.True(t, r.Contains("StubScaler"))
	assert.False(t, r.Contains("Ghost"))
}

func TestRegistryNames(t *testing.T) {
	r := persist.NewRegistry()
	persist.RegisterIn[*otherStub](r, "Other", restoreOtherStub)
	persist.RegisterIn[*stubScaler](r, "StubScaler", restoreStubScaler)

	assert.Equal(t, []string{"Other", "StubScaler"}, r.Names())
}

func TestRegistryRejectsBadRegistrations(t *testing.T) {
	t.Run("duplicate name panics", func(t *testing.T) {
		r := persist.NewRegistry()
		persist.RegisterIn[*stubScaler](r, "StubScaler", restoreStubScaler)
		assert.Panics(t, func() {
			persist.RegisterIn[*stubScaler](r, "StubScaler", restoreStubScaler)
		})
	})

	t.Run("same type under two names panics", func(t *testing.T) {
		r := persist.NewRegistry()
		persist.RegisterIn[*stubScaler](r, "StubScaler", restoreStubScaler)
		assert.Panics(t, func() {
			persist.RegisterIn[*stubScaler](r, "Alias", restoreStubScaler)
		})
	})

	t.Run("empty name panics", func(t *testing.T) {
		r := persist.NewRegistry()
		assert.Panics(t, func() {
			persist.RegisterIn[*stubScaler](r, "", restoreStubScaler)
		})
	})

	t.Run("nil factory panics", func(t *testing.T) {
		r := persist.NewRegistry()
		assert.Panics(t, func() {
			r.Add("StubScaler", nil)
		})
	})
}

func TestRegistryAdd(t *testing.T) {
	r := persist.NewRegistry()
	r.Add("StubScaler", func(uid string) persist.Persistable { return restoreStubScaler(uid) })

	c, err := r.New("StubScaler", "stub_k")
	require.NoError(t, err)
	assert.IsType(t, &stubScaler{}, c)
	assert.Equal(t, "stub_k", c.UID())

	// Add probes the factory, so reverse lookup works too.
	name, ok := r.NameFor(newStubScaler())
	assert.True(t, ok)
	assert.Equal(t, "StubScaler", name)
}

func TestDefaultRegistry(t *testing.T) {
	r := persist.DefaultRegistry()
	require.NotNil(t, r)

	// Classes registered in init are visible.
	assert.True(t, r.Contains("test.StubScaler"))
	assert.True(t, r.Contains("test.Other"))
}
