// utils/otp.go
package utils

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrTooManyAttempts is returned when a phone number exceeds the
// verification attempt limit.
var ErrTooManyAttempts = errors.New("too many OTP attempts")

// GenerateOTP generates a 6-digit code, uniformly random over
// [100000, 999999].
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}

// OTPAttemptLimiter caps OTP verification attempts per phone number
// using a Redis counter: 5 attempts per rolling hour.
type OTPAttemptLimiter struct {
	Client *redis.Client
}

func (l *OTPAttemptLimiter) Allow(ctx context.Context, phoneNumber string) error {
	key := "otp_attempts:" + phoneNumber
	attempts, err := l.Client.Incr(ctx, key).Result()
	if err != nil {
		return err
	}

	// Set expiry if first attempt
	if attempts == 1 {
		l.Client.Expire(ctx, key, 1*time.Hour)
	}

	if attempts > 5 {
		return ErrTooManyAttempts
	}
	return nil
}
