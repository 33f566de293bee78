package crawler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestThrottle_FirstWaitIsImmediate(t *testing.T) {
	t.Parallel()
	th := newThrottle(Config{RequestDelay: time.Hour})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, th.Wait(ctx))
}

func TestThrottle_SecondWaitHonorsCancellation(t *testing.T) {
	t.Parallel()
	th := newThrottle(Config{RequestDelay: time.Hour})
	require.NoError(t, th.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.Error(t, th.Wait(ctx))
}

func TestThrottle_ZeroDelayNeverBlocks(t *testing.T) {
	t.Parallel()
	th := newThrottle(Config{})
	for i := 0; i < 100; i++ {
		require.NoError(t, th.Wait(context.Background()))
	}
}

func TestUserAgentRotor(t *testing.T) {
	t.Parallel()

	t.Run("round robin", func(t *testing.T) {
		t.Parallel()
		r := newUserAgentRotor([]string{"a", "b", "c"})
		require.Equal(t, "a", r.Next())
		require.Equal(t, "b", r.Next())
		require.Equal(t, "c", r.Next())
		require.Equal(t, "a", r.Next())
	})

	t.Run("empty pool falls back to defaults", func(t *testing.T) {
		t.Parallel()
		r := newUserAgentRotor(nil)
		require.Contains(t, defaultUserAgents, r.Next())
	})
}
