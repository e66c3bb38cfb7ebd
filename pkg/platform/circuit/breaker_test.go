package circuit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openBreaker(t *testing.T, opts ...Option) *Breaker {
	t.Helper()
	b := New("template-cache", append([]Option{WithFailureThreshold(1)}, opts...)...)
	useFallback, change := b.RecordFailure()
	require.True(t, useFallback)
	require.True(t, change.Opened)
	return b
}

func TestNewDefaults(t *testing.T) {
	b := New("template-cache")
	assert.Equal(t, "template-cache", b.Name())
	assert.Equal(t, StateClosed, b.State())
	assert.True(t, b.Allow())

	for range 4 {
		useFallback, _ := b.RecordFailure()
		assert.False(t, useFallback)
	}
	useFallback, change := b.RecordFailure()
	assert.True(t, useFallback, "fifth consecutive failure opens")
	assert.True(t, change.Opened)
}

func TestRecordFailure(t *testing.T) {
	t.Run("below threshold stays closed", func(t *testing.T) {
		b := New("template-cache", WithFailureThreshold(2))
		useFallback, change := b.RecordFailure()
		assert.False(t, useFallback)
		assert.Equal(t, StateChange{}, change)
		assert.False(t, b.IsOpen())
	})

	t.Run("already open reports no transition", func(t *testing.T) {
		b := openBreaker(t)
		useFallback, change := b.RecordFailure()
		assert.True(t, useFallback)
		assert.Equal(t, StateChange{}, change)
	})

	t.Run("success in between resets the streak", func(t *testing.T) {
		b := New("template-cache", WithFailureThreshold(2))
		b.RecordFailure()
		b.RecordSuccess()
		b.RecordFailure()
		assert.False(t, b.IsOpen())
		b.RecordFailure()
		assert.True(t, b.IsOpen())
	})
}

func TestRecordSuccess(t *testing.T) {
	t.Run("closed breaker keeps primary", func(t *testing.T) {
		b := New("template-cache")
		usePrimary, change := b.RecordSuccess()
		assert.True(t, usePrimary)
		assert.Equal(t, StateChange{}, change)
	})

	t.Run("closes after consecutive trials", func(t *testing.T) {
		b := openBreaker(t, WithSuccessThreshold(2))

		usePrimary, change := b.RecordSuccess()
		assert.False(t, usePrimary)
		assert.False(t, change.Closed)

		usePrimary, change = b.RecordSuccess()
		assert.True(t, usePrimary)
		assert.True(t, change.Closed)
		assert.Equal(t, StateClosed, b.State())
	})

	t.Run("failed trial restarts the count", func(t *testing.T) {
		b := openBreaker(t, WithSuccessThreshold(2))
		b.RecordSuccess()
		b.RecordFailure()
		b.RecordSuccess()
		assert.True(t, b.IsOpen())
		b.RecordSuccess()
		assert.False(t, b.IsOpen())
	})
}

func TestAllow(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	b := openBreaker(t,
		WithCooldown(time.Minute),
		withClock(func() time.Time { return now }),
	)

	assert.False(t, b.Allow(), "no trial inside the cooldown")

	now = now.Add(time.Minute)
	assert.True(t, b.Allow(), "first trial after cooldown")
	assert.False(t, b.Allow(), "next trial waits another cooldown")

	t.Run("zero cooldown allows every call", func(t *testing.T) {
		b := openBreaker(t, WithCooldown(0))
		assert.True(t, b.Allow())
		assert.True(t, b.Allow())
	})
}

func TestReset(t *testing.T) {
	b := openBreaker(t, WithCooldown(time.Hour))
	b.Reset()
	assert.Equal(t, StateClosed, b.State())
	assert.True(t, b.Allow())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "open", StateOpen.String())
}
