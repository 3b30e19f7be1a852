package utils_otp

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fortaxe/finlook-backend/internal/models/api_error"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	return mr, rdb
}

func statusOf(t *testing.T, err error) int {
	t.Helper()

	var apiErr api_error.APIError
	require.True(t, errors.As(err, &apiErr), "expected an APIError, got %v", err)
	return apiErr.HTTPStatus()
}

func TestSendStoresSixDigitCode(t *testing.T) {
	mr, rdb := newTestRedis(t)
	ctx := context.Background()

	code, err := Send(ctx, rdb, "9876543210")
	require.NoError(t, err)

	assert.Len(t, code, 6)
	assert.Regexp(t, `^\d{6}$`, code)

	stored, err := mr.Get("otp:9876543210")
	require.NoError(t, err)
	assert.Equal(t, code, stored)
}

func TestSendRejectsImmediateResend(t *testing.T) {
	mr, rdb := newTestRedis(t)
	ctx := context.Background()

	_, err := Send(ctx, rdb, "9876543210")
	require.NoError(t, err)

	_, err = Send(ctx, rdb, "9876543210")
	assert.Equal(t, http.StatusTooManyRequests, statusOf(t, err))

	mr.FastForward(RESEND_WINDOW + time.Second)

	_, err = Send(ctx, rdb, "9876543210")
	assert.NoError(t, err)
}

func TestVerifyConsumesCode(t *testing.T) {
	_, rdb := newTestRedis(t)
	ctx := context.Background()

	code, err := Send(ctx, rdb, "9876543210")
	require.NoError(t, err)

	require.NoError(t, Verify(ctx, rdb, "9876543210", code))

	// Replay of the same code must fail once consumed.
	err = Verify(ctx, rdb, "9876543210", code)
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}

func TestVerifyWithoutSend(t *testing.T) {
	_, rdb := newTestRedis(t)

	err := Verify(context.Background(), rdb, "9876543210", "123456")
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}

func TestVerifyLocksOutAfterMaxAttempts(t *testing.T) {
	mr, rdb := newTestRedis(t)
	ctx := context.Background()

	code, err := Send(ctx, rdb, "9876543210")
	require.NoError(t, err)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	for i := 0; i < MAX_ATTEMPTS-1; i++ {
		err := Verify(ctx, rdb, "9876543210", wrong)
		assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
	}

	// The final attempt trips the lock and invalidates the code.
	err = Verify(ctx, rdb, "9876543210", wrong)
	assert.Equal(t, http.StatusTooManyRequests, statusOf(t, err))

	// Even the right code is refused while locked.
	err = Verify(ctx, rdb, "9876543210", code)
	assert.Equal(t, http.StatusTooManyRequests, statusOf(t, err))

	// And so is requesting a new one.
	_, err = Send(ctx, rdb, "9876543210")
	assert.Equal(t, http.StatusTooManyRequests, statusOf(t, err))

	// The lockout expires.
	mr.FastForward(LOCKOUT_DURATION + time.Second)

	_, err = Send(ctx, rdb, "9876543210")
	assert.NoError(t, err)
}

func TestVerifyResetsAttemptsOnSuccess(t *testing.T) {
	_, rdb := newTestRedis(t)
	ctx := context.Background()

	code, err := Send(ctx, rdb, "9876543210")
	require.NoError(t, err)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	for i := 0; i < MAX_ATTEMPTS-2; i++ {
		require.Error(t, Verify(ctx, rdb, "9876543210", wrong))
	}
	require.NoError(t, Verify(ctx, rdb, "9876543210", code))

	attempts, err := rdb.Exists(ctx, "otp_attempts:9876543210").Result()
	require.NoError(t, err)
	assert.Zero(t, attempts)
}

func TestGenerateCodeFormat(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		assert.Regexp(t, `^\d{6}$`, code)
	}
}
