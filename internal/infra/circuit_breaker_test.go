package infra

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var errBoom = errors.New("boom")

func failing() error { return errBoom }
func ok() error      { return nil }

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	b := NewBreaker(BreakerConfig{FailureThreshold: 3, SuccessThreshold: 1, OpenTimeout: time.Minute})

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, b.Do(failing), errBoom)
	}
	assert.Equal(t, BreakerOpen, b.State())

	called := false
	err := b.Do(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrBreakerOpen)
	assert.False(t, called)
}

func TestBreaker_SuccessResetsFailureCount(t *testing.T) {
	b := NewBreaker(BreakerConfig{FailureThreshold: 2, SuccessThreshold: 1, OpenTimeout: time.Minute})

	_ = b.Do(failing)
	_ = b.Do(ok)
	_ = b.Do(failing)
	assert.Equal(t, BreakerClosed, b.State())
}

func TestBreaker_HalfOpenRecovery(t *testing.T) {
	now := time.Now()
	b := NewBreaker(BreakerConfig{FailureThreshold: 1, SuccessThreshold: 2, OpenTimeout: time.Minute})
	b.now = func() time.Time { return now }

	_ = b.Do(failing)
	assert.Equal(t, BreakerOpen, b.State())

	now = now.Add(2 * time.Minute)
	assert.Equal(t, BreakerHalfOpen, b.State())

	assert.NoError(t, b.Do(ok))
	assert.Equal(t, BreakerHalfOpen, b.State())
	assert.NoError(t, b.Do(ok))
	assert.Equal(t, BreakerClosed, b.State())
}

func TestBreaker_HalfOpenFailureReopens(t *testing.T) {
	now := time.Now()
	b := NewBreaker(BreakerConfig{FailureThreshold: 1, SuccessThreshold: 1, OpenTimeout: time.Minute})
	b.now = func() time.Time { return now }

	_ = b.Do(failing)
	now = now.Add(2 * time.Minute)
	assert.ErrorIs(t, b.Do(failing), errBoom)
	assert.Equal(t, BreakerOpen, b.State())
}
