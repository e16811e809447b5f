package repository

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// OTP purposes.  A code issued for one purpose cannot be redeemed for
// another because the purpose is part of the Redis key.
const (
	OTPPurposeVerify = "verify"
	OTPPurposeReset  = "reset"
)

// ErrOTPInvalid is returned when a submitted code is wrong, expired or
// was never issued.  Handlers translate this into HTTP 400.
var ErrOTPInvalid = errors.New("invalid or expired code")

// OTPRepo stores one-time codes in Redis with a TTL.  This replaces a
// process-local map: codes survive restarts and are visible to every
// server instance behind a load balancer.
type OTPRepo struct {
	RDB *redis.Client
	TTL time.Duration
}

func NewOTPRepo(rdb *redis.Client, ttl time.Duration) *OTPRepo {
	return &OTPRepo{RDB: rdb, TTL: ttl}
}

func otpKey(purpose, email string) string {
	return "otp:" + purpose + ":" + strings.ToLower(strings.TrimSpace(email))
}

// Issue generates a six-digit code for the (purpose, email) pair and
// stores it with the configured TTL, overwriting any previous code so
// only the most recent one is redeemable.
func (r *OTPRepo) Issue(ctx context.Context, purpose, email string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}
	if err := r.RDB.Set(ctx, otpKey(purpose, email), code, r.TTL).Err(); err != nil {
		return "", err
	}
	return code, nil
}

// Redeem checks the submitted code and deletes it on success so a code
// can be used at most once.  ErrOTPInvalid covers wrong, expired and
// never-issued codes alike; callers get no oracle for which it was.
func (r *OTPRepo) Redeem(ctx context.Context, purpose, email, code string) error {
	key := otpKey(purpose, email)
	stored, err := r.RDB.Get(ctx, key).Result()
	if err == redis.Nil {
		return ErrOTPInvalid
	}
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(strings.TrimSpace(code))) != 1 {
		return ErrOTPInvalid
	}
	_ = r.RDB.Del(ctx, key).Err()
	return nil
}

// generateCode returns a uniformly random six-digit numeric code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
