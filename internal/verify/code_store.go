package verify

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCodeMismatch is returned when a presented code is absent, expired,
// or does not match the stored value.
var ErrCodeMismatch = errors.New("verification code invalid or expired")

// CodeStore issues and consumes short-lived verification codes. It is an
// injected collaborator with no persistence guarantee across restarts.
type CodeStore interface {
	Issue(ctx context.Context, subject string) (string, error)
	Consume(ctx context.Context, subject, code string) error
}

type redisCodeStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCodeStore builds a Redis-backed store with the given key prefix
// and code lifetime.
func NewRedisCodeStore(client *redis.Client, prefix string, ttl time.Duration) CodeStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &redisCodeStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *redisCodeStore) key(subject string) string {
	return s.prefix + ":" + subject
}

// Issue generates a six-digit code for the subject, replacing any
// outstanding one.
func (s *redisCodeStore) Issue(ctx context.Context, subject string) (string, error) {
	code, err := randomCode()
	if err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, s.key(subject), code, s.ttl).Err(); err != nil {
		return "", err
	}
	return code, nil
}

// Consume validates and deletes the code atomically so it cannot be
// replayed.
func (s *redisCodeStore) Consume(ctx context.Context, subject, code string) error {
	const script = `
        if redis.call("GET", KEYS[1]) == ARGV[1] then
            return redis.call("DEL", KEYS[1])
        end
        return 0`
	deleted, err := s.client.Eval(ctx, script, []string{s.key(subject)}, code).Int()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrCodeMismatch
	}
	return nil
}

func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
