package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/set-night/cookieai/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircuitBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	ctx := context.Background()
	cb := service.NewCircuitBreaker("test", 3, time.Minute)
	calls := 0
	failing := func() (string, error) {
		calls++
		return "", errRemote
	}

	for range 3 {
		_, err := cb.Execute(ctx, failing)
		assert.ErrorIs(t, err, errRemote)
	}
	assert.Equal(t, "open", cb.State())

	_, err := cb.Execute(ctx, failing)
	assert.ErrorIs(t, err, service.ErrCircuitOpen)
	assert.Equal(t, 3, calls)
}

func TestCircuitBreaker_HalfOpenRecovers(t *testing.T) {
	ctx := context.Background()
	cb := service.NewCircuitBreaker("test", 1, 50*time.Millisecond)

	_, err := cb.Execute(ctx, func() (string, error) { return "", errRemote })
	require.Error(t, err)
	assert.Equal(t, "open", cb.State())

	time.Sleep(80 * time.Millisecond)
	out, err := cb.Execute(ctx, func() (string, error) { return "ok", nil })

	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, "closed", cb.State())
}

func TestCircuitBreaker_CancelledContextShortCircuits(t *testing.T) {
	cb := service.NewCircuitBreaker("test", 1, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := cb.Execute(ctx, func() (string, error) {
		t.Fatal("must not run")
		return "", nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "closed", cb.State())
}
