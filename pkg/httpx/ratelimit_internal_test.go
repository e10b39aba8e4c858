package httpx

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestRateLimiterSweepsIdleKeys(t *testing.T) {
	now := time.Now()
	rl := newRateLimiter(rate.Every(time.Second), 2)
	rl.now = func() time.Time { return now }

	for i := range 50 {
		rl.get(fmt.Sprintf("10.0.0.%d", i))
	}
	busy := rl.get("10.0.0.200")
	require.True(t, busy.AllowN(now, 2))
	require.Equal(t, 51, rl.size(), "no sweep before the interval")

	// After the interval every idle bucket is full again. The busy key has
	// refilled too, since a second per token has long passed.
	now = now.Add(limiterCleanupInterval + time.Second)
	rl.get("10.0.0.201")
	require.Equal(t, 1, rl.size())
}

func TestRateLimiterKeepsDrainedKeys(t *testing.T) {
	now := time.Now()
	rl := newRateLimiter(rate.Every(time.Hour), 2)
	rl.now = func() time.Time { return now }

	drained := rl.get("10.0.0.1")
	require.True(t, drained.AllowN(now, 2))
	rl.get("10.0.0.2")

	now = now.Add(limiterCleanupInterval + time.Second)
	rl.get("10.0.0.3")

	// The drained key still owes tokens and must keep its state.
	require.Equal(t, 2, rl.size())
	require.Same(t, drained, rl.get("10.0.0.1"))
}
