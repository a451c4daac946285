package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPinRateLimiter_BlocksAfterFiveAttempts(t *testing.T) {
	rl := NewPinRateLimiter()

	for i := 0; i < 5; i++ {
		assert.True(t, rl.Allow("10.0.0.1"), "attempt %d should pass", i+1)
	}
	assert.False(t, rl.Allow("10.0.0.1"))
}

func TestPinRateLimiter_PerIP(t *testing.T) {
	rl := NewPinRateLimiter()

	for i := 0; i < 6; i++ {
		rl.Allow("10.0.0.1")
	}
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"))
}

func TestPinRateLimiter_ResetClearsCounter(t *testing.T) {
	rl := NewPinRateLimiter()

	for i := 0; i < 6; i++ {
		rl.Allow("10.0.0.1")
	}
	assert.False(t, rl.Allow("10.0.0.1"))

	rl.Reset("10.0.0.1")
	assert.True(t, rl.Allow("10.0.0.1"))
}
