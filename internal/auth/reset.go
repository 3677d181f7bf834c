package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	resetKeyPrefix      = "reset:"
	defaultResetCodeTTL = 10 * time.Minute
)

// ResetCodes manages one-time 6-digit password-reset codes in Redis, keyed
// by email. Delivery is mocked: the code is written to the log instead of
// an email. A real out-of-band channel would replace logDelivery.
type ResetCodes struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewResetCodes returns a new reset-code store.
func NewResetCodes(rdb *redis.Client, ttl time.Duration, logger zerolog.Logger) *ResetCodes {
	if ttl <= 0 {
		ttl = defaultResetCodeTTL
	}
	return &ResetCodes{rdb: rdb, ttl: ttl, logger: logger}
}

// Issue generates a fresh code for the email, stores it with a TTL and
// "delivers" it. Re-issuing replaces any previous code.
func (r *ResetCodes) Issue(ctx context.Context, email string) (string, error) {
	code, err := newCode()
	if err != nil {
		return "", err
	}
	key := resetKeyPrefix + normalizeEmail(email)
	if err := r.rdb.Set(ctx, key, code, r.ttl).Err(); err != nil {
		return "", err
	}
	r.logDelivery(email, code)
	return code, nil
}

// Verify compares the submitted code against the stored one and consumes it
// on success. Returns false for a missing, expired or wrong code.
func (r *ResetCodes) Verify(ctx context.Context, email, code string) (bool, error) {
	key := resetKeyPrefix + normalizeEmail(email)
	stored, err := r.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if stored != strings.TrimSpace(code) {
		return false, nil
	}
	_ = r.rdb.Del(ctx, key).Err()
	return true, nil
}

func (r *ResetCodes) logDelivery(email, code string) {
	r.logger.Info().
		Str("email", email).
		Str("code", code).
		Msg("password reset code issued (mock delivery)")
}

// newCode returns a random 6-digit code, 100000-999999.
func newCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("rand: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
