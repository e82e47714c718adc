package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterAllow(t *testing.T) {
	limiter := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow("client-1"))
	}
	assert.False(t, limiter.Allow("client-1"))

	// Лимиты считаются отдельно по клиентам
	assert.True(t, limiter.Allow("client-2"))
}

func TestRateLimiterReset(t *testing.T) {
	limiter := NewRateLimiter(1, time.Minute)

	assert.True(t, limiter.Allow("client-1"))
	assert.False(t, limiter.Allow("client-1"))

	limiter.Reset("client-1")
	assert.True(t, limiter.Allow("client-1"))
}

func TestRateLimiterRemaining(t *testing.T) {
	limiter := NewRateLimiter(5, time.Minute)

	assert.Equal(t, 5, limiter.GetRemaining("client-1"))
	limiter.Allow("client-1")
	limiter.Allow("client-1")
	assert.Equal(t, 3, limiter.GetRemaining("client-1"))
}
