package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_New(t *testing.T) {
	assert.Equal(t, 5, NewLimiter(10, 5).defaultBurst)
	assert.Equal(t, 5, NewLimiter(10, -1).defaultBurst)
}

func TestLimiter_PerKey(t *testing.T) {
	limiter := NewLimiter(1, 1)
	ctx := context.Background()

	require.NoError(t, limiter.Wait(ctx, "openai"))
	assert.False(t, limiter.Allow("openai"), "burst of one is spent")
	assert.True(t, limiter.Allow("anthropic"), "other keys have their own bucket")
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(0, 1)
	for i := 0; i < 10; i++ {
		assert.True(t, limiter.Allow("openai"))
	}
}

func TestLimiter_SetRate(t *testing.T) {
	limiter := NewLimiter(10, 10)
	limiter.SetRate("slow", 0.1, 1)

	assert.True(t, limiter.Allow("slow"))
	assert.False(t, limiter.Allow("slow"))
	assert.True(t, limiter.Allow("fast"))
}

func TestLimiter_WaitURL(t *testing.T) {
	limiter := NewLimiter(1, 1)
	ctx := context.Background()

	require.NoError(t, limiter.WaitURL(ctx, "https://example.com/essay.txt"))
	assert.False(t, limiter.Allow("example.com"))
	assert.Error(t, limiter.WaitURL(ctx, "not a url"))
}

func TestLimiter_WaitWithDelay(t *testing.T) {
	limiter := NewLimiter(100, 1)

	start := time.Now()
	require.NoError(t, limiter.WaitWithDelay(context.Background(), "example.com", 50*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestLimiter_WaitCancelled(t *testing.T) {
	limiter := NewLimiter(0.01, 1)
	require.True(t, limiter.Allow("k"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Error(t, limiter.Wait(ctx, "k"))
}

func TestHostKey(t *testing.T) {
	host, err := HostKey("http://example.com:8080/foo")
	require.NoError(t, err)
	assert.Equal(t, "example.com:8080", host)

	_, err = HostKey("::invalid")
	assert.Error(t, err)
}
