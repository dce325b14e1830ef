package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	wherrors "github.com/jrsteele09/go-warehouse-client/internal/errors"
	"github.com/jrsteele09/go-warehouse-client/storage"
	"github.com/redis/go-redis/v9"
)

var _ storage.Repo = (*Store)(nil)

const defaultTimeout = 2 * time.Second

// Store keeps session keys in Redis under "<prefix>:<key>". It lets several
// client processes on one host share a session.
type Store struct {
	redis   redis.UniversalClient
	prefix  string
	timeout time.Duration
}

// New creates a Store. A zero timeout uses a 2 second default per command.
func New(client redis.UniversalClient, prefix string, timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Store{
		redis:   client,
		prefix:  prefix,
		timeout: timeout,
	}
}

func (s *Store) key(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + ":" + key
}

func (s *Store) Get(key string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	v, err := s.redis.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", wherrors.ErrStorageUnavailable, err)
	}
	return v, true, nil
}

func (s *Store) Set(key, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.redis.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", wherrors.ErrStorageUnavailable, err)
	}
	return nil
}

func (s *Store) Remove(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.redis.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("%w: %v", wherrors.ErrStorageUnavailable, err)
	}
	return nil
}
