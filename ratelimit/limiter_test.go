package ratelimit_test

import (
	"testing"
	"time"

	"repopilot"
	"repopilot/ratelimit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_Allow_PerClient(t *testing.T) {
	t.Parallel()

	l := ratelimit.New(ratelimit.Config{
		ClientRequests: 3,
		ClientWindow:   time.Minute,
		GlobalRequests: 1000,
		GlobalWindow:   time.Minute,
	})

	for i := 0; i < 3; i++ {
		assert.NoError(t, l.Allow("1.2.3.4"))
	}

	err := l.Allow("1.2.3.4")
	require.Error(t, err)
	assert.Equal(t, repopilot.ERATELIMIT, repopilot.ErrorCode(err))
}

func TestLimiter_Allow_IndependentClients(t *testing.T) {
	t.Parallel()

	l := ratelimit.New(ratelimit.Config{
		ClientRequests: 1,
		ClientWindow:   time.Minute,
		GlobalRequests: 1000,
		GlobalWindow:   time.Minute,
	})

	require.NoError(t, l.Allow("1.1.1.1"))
	require.Error(t, l.Allow("1.1.1.1"))

	// A different client has its own bucket.
	assert.NoError(t, l.Allow("2.2.2.2"))
}

func TestLimiter_Allow_Global(t *testing.T) {
	t.Parallel()

	l := ratelimit.New(ratelimit.Config{
		ClientRequests: 1000,
		ClientWindow:   time.Minute,
		GlobalRequests: 2,
		GlobalWindow:   time.Minute,
	})

	require.NoError(t, l.Allow("1.1.1.1"))
	require.NoError(t, l.Allow("2.2.2.2"))

	err := l.Allow("3.3.3.3")
	require.Error(t, err)
	assert.Equal(t, repopilot.ERATELIMIT, repopilot.ErrorCode(err))
	assert.Contains(t, repopilot.ErrorMessage(err), "high load")
}

func TestLimiter_Prune(t *testing.T) {
	t.Parallel()

	l := ratelimit.New(ratelimit.DefaultConfig())

	require.NoError(t, l.Allow("1.1.1.1"))
	require.NoError(t, l.Allow("2.2.2.2"))
	assert.Equal(t, 2, l.ActiveClients())

	// Nothing is old enough to prune yet.
	assert.Equal(t, 0, l.Prune(time.Minute))

	// Everything is older than a zero idle cutoff.
	assert.Equal(t, 2, l.Prune(-time.Second))
	assert.Equal(t, 0, l.ActiveClients())
}
