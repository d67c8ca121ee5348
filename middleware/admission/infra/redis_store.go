package infra

import (
	"context"
	"fmt"
	"time"

	"admission-gateway/middleware/admission/domain"

	"github.com/redis/go-redis/v9"
)

// RedisStore implementa domain.CounterStore sobre um cliente go-redis.
//
// Cada chamada usa um timeout curto próprio: uma lentidão no Redis vira um
// erro (que a cadeia converte em allow), nunca uma request pendurada.
type RedisStore struct {
	rdb     *redis.Client
	timeout time.Duration
}

type RedisStoreOption func(*RedisStore)

// WithTimeout define o timeout por operação. Padrão: 200ms.
func WithTimeout(d time.Duration) RedisStoreOption {
	return func(s *RedisStore) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func NewRedisStore(rdb *redis.Client, opts ...RedisStoreOption) *RedisStore {
	s := &RedisStore{
		rdb:     rdb,
		timeout: 200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Increment implementa o INCR + EXPIRE-na-primeira do contrato.
//
// Existe uma janela de corrida aceita: duas primeiras-requests concorrentes
// podem ambas ver valor<=1 momentos distintos e ambas aplicar o EXPIRE — mas
// ambas aplicariam o mesmo TTL, então a corrida é inócua. O INCR em si é
// atômico no servidor: nenhuma contagem se perde.
func (s *RedisStore) Increment(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	v, err := s.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, storeErr("incr", key, err)
	}
	if v == 1 && ttl > 0 {
		if err := s.rdb.Expire(ctx, key, ttl).Err(); err != nil {
			return 0, storeErr("expire", key, err)
		}
	}
	return v, nil
}

func (s *RedisStore) Exists(ctx context.Context, key string) (bool, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	n, err := s.rdb.Exists(ctx, key).Result()
	if err != nil {
		return false, storeErr("exists", key, err)
	}
	return n > 0, nil
}

func (s *RedisStore) SetFlag(ctx context.Context, key string, ttl time.Duration) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if err := s.rdb.Set(ctx, key, "1", ttl).Err(); err != nil {
		return storeErr("set", key, err)
	}
	return nil
}

func (s *RedisStore) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

func storeErr(op, key string, err error) error {
	return fmt.Errorf("%w: redis %s %q: %v", domain.ErrStoreUnavailable, op, key, err)
}
