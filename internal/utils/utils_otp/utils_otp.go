package utils_otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/fortaxe/finlook-backend/internal/models/api_error"
	"github.com/go-redis/redis/v8"
)

const (
	OTP_TTL          = 5 * time.Minute
	RESEND_WINDOW    = time.Minute // last 20% of OTP_TTL
	MAX_ATTEMPTS     = 5
	LOCKOUT_DURATION = 15 * time.Minute
)

func codeKey(mobile string) string     { return "otp:" + mobile }
func attemptsKey(mobile string) string { return "otp_attempts:" + mobile }
func lockKey(mobile string) string     { return "otp_lock:" + mobile }

// GenerateCode returns a random 6-digit numeric code.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// Send issues a fresh OTP for the mobile number and stores it with
// OTP_TTL. A resend is rejected while the previous code is younger
// than RESEND_WINDOW, and while the number is locked out.
func Send(ctx context.Context, rdb *redis.Client, mobile string) (string, error) {
	locked, err := rdb.Exists(ctx, lockKey(mobile)).Result()
	if err != nil {
		return "", err
	}
	if locked > 0 {
		return "", api_error.RateLimited("too many failed attempts, try again later")
	}

	ttl, err := rdb.TTL(ctx, codeKey(mobile)).Result()
	if err != nil {
		return "", err
	}
	if ttl > OTP_TTL-RESEND_WINDOW {
		return "", api_error.RateLimited("otp recently sent, wait before requesting another")
	}

	code, err := GenerateCode()
	if err != nil {
		return "", err
	}

	if err := rdb.Set(ctx, codeKey(mobile), code, OTP_TTL).Err(); err != nil {
		return "", err
	}
	rdb.Del(ctx, attemptsKey(mobile))

	return code, nil
}

// Verify compares the supplied code against the stored one. Wrong
// attempts are counted with an atomic INCR; hitting MAX_ATTEMPTS
// invalidates the code and locks the number out for LOCKOUT_DURATION.
// A correct match consumes the code.
func Verify(ctx context.Context, rdb *redis.Client, mobile, code string) error {
	locked, err := rdb.Exists(ctx, lockKey(mobile)).Result()
	if err != nil {
		return err
	}
	if locked > 0 {
		return api_error.RateLimited("too many failed attempts, try again later")
	}

	stored, err := rdb.Get(ctx, codeKey(mobile)).Result()
	if err == redis.Nil {
		return api_error.Validation("otp expired or not requested")
	}
	if err != nil {
		return err
	}

	if stored != code {
		attempts, err := rdb.Incr(ctx, attemptsKey(mobile)).Result()
		if err != nil {
			return err
		}
		if attempts == 1 {
			rdb.Expire(ctx, attemptsKey(mobile), OTP_TTL)
		}
		if attempts >= MAX_ATTEMPTS {
			rdb.Del(ctx, codeKey(mobile), attemptsKey(mobile))
			rdb.Set(ctx, lockKey(mobile), "1", LOCKOUT_DURATION)
			return api_error.RateLimited("too many failed attempts, try again later")
		}
		return api_error.Unauthorized("incorrect otp")
	}

	rdb.Del(ctx, codeKey(mobile), attemptsKey(mobile))
	return nil
}
