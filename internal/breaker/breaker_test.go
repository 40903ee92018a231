package breaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func failing() error { return errBoom }
func succeeding() error { return nil }

func TestTripsAfterConsecutiveFailures(t *testing.T) {
	b := New("test", Config{FailureThreshold: 3, Cooldown: time.Minute})

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, b.Do(failing), errBoom)
	}
	assert.Equal(t, StateOpen, b.State())

	err := b.Do(succeeding)
	assert.ErrorIs(t, err, ErrOpen)
}

func TestSuccessResetsFailureCount(t *testing.T) {
	b := New("test", Config{FailureThreshold: 3, Cooldown: time.Minute})

	require.Error(t, b.Do(failing))
	require.Error(t, b.Do(failing))
	require.NoError(t, b.Do(succeeding))
	require.Error(t, b.Do(failing))
	require.Error(t, b.Do(failing))

	assert.Equal(t, StateClosed, b.State())
}

func TestHalfOpenProbeClosesBreaker(t *testing.T) {
	b := New("test", Config{FailureThreshold: 1, Cooldown: 10 * time.Millisecond})

	require.Error(t, b.Do(failing))
	require.Equal(t, StateOpen, b.State())

	time.Sleep(15 * time.Millisecond)
	assert.Equal(t, StateHalfOpen, b.State())

	require.NoError(t, b.Do(succeeding))
	assert.Equal(t, StateClosed, b.State())
}

func TestHalfOpenProbeFailureReopens(t *testing.T) {
	b := New("test", Config{FailureThreshold: 1, Cooldown: 10 * time.Millisecond})

	require.Error(t, b.Do(failing))
	time.Sleep(15 * time.Millisecond)

	require.ErrorIs(t, b.Do(failing), errBoom)
	assert.Equal(t, StateOpen, b.State())

	err := b.Do(succeeding)
	assert.ErrorIs(t, err, ErrOpen)
}

func TestHalfOpenLimitsProbes(t *testing.T) {
	b := New("test", Config{FailureThreshold: 1, Cooldown: 10 * time.Millisecond, ProbeCount: 1})

	require.Error(t, b.Do(failing))
	time.Sleep(15 * time.Millisecond)

	// Hold one probe slot open, then try a second call.
	epoch, err := b.admit()
	require.NoError(t, err)

	err = b.Do(succeeding)
	assert.ErrorIs(t, err, ErrOpen)

	b.report(epoch, true)
	assert.Equal(t, StateClosed, b.State())
}

func TestPanicCountsAsFailure(t *testing.T) {
	b := New("test", Config{FailureThreshold: 1, Cooldown: 10 * time.Millisecond, ProbeCount: 1})

	require.Error(t, b.Do(failing))
	time.Sleep(15 * time.Millisecond)

	assert.Panics(t, func() {
		_ = b.Do(func() error { panic("boom") })
	})

	// The probe slot was released and the failed probe reopened the
	// breaker rather than pinning it half-open.
	assert.Equal(t, StateOpen, b.State())

	time.Sleep(15 * time.Millisecond)
	require.NoError(t, b.Do(succeeding))
	assert.Equal(t, StateClosed, b.State())
}

func TestStaleReportIgnored(t *testing.T) {
	b := New("test", Config{FailureThreshold: 2, Cooldown: time.Minute})

	epoch, err := b.admit()
	require.NoError(t, err)

	// Trip the breaker while the first call is still in flight.
	require.Error(t, b.Do(failing))
	require.Error(t, b.Do(failing))
	require.Equal(t, StateOpen, b.State())

	// The late success belongs to the closed epoch and must not close
	// the breaker.
	b.report(epoch, true)
	assert.Equal(t, StateOpen, b.State())
}

func TestOnChangeHook(t *testing.T) {
	var transitions []string
	b := New("test", Config{
		FailureThreshold: 1,
		Cooldown:         10 * time.Millisecond,
		OnChange: func(name string, from, to State) {
			transitions = append(transitions, from.String()+">"+to.String())
		},
	})

	require.Error(t, b.Do(failing))
	time.Sleep(15 * time.Millisecond)
	require.NoError(t, b.Do(succeeding))

	assert.Equal(t, []string{"closed>open", "open>half-open", "half-open>closed"}, transitions)
}
