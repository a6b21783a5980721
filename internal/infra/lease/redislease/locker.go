// Package redislease keeps the single-instance lease in redis instead of the
// scheduler_leases table.
package redislease

import (
	"context"
	"time"

	"github.com/autoclock/scheduler/internal/biz/lease"
	"github.com/autoclock/scheduler/pkg/errors"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const keyPrefix = "autoclock:lease:"

// renewScript extends the TTL only while the key still holds our value.
var renewScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// releaseScript deletes the key only while it still holds our value.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type Locker struct {
	client *redis.Client
	name   string
	holder string
	ttl    time.Duration
	logger *zap.Logger
}

var _ lease.Locker = (*Locker)(nil)

func NewLocker(client *redis.Client, name, holder string, ttl time.Duration, logger *zap.Logger) *Locker {
	return &Locker{client: client, name: name, holder: holder, ttl: ttl, logger: logger}
}

func (l *Locker) key() string    { return keyPrefix + l.name }
func (l *Locker) Name() string   { return l.name }
func (l *Locker) Holder() string { return l.holder }

func (l *Locker) Acquire(ctx context.Context) error {
	ok, err := l.client.SetNX(ctx, l.key(), l.holder, l.ttl).Result()
	if err != nil {
		return errors.Wrapf(err, "acquire lease %s", l.name)
	}
	if ok {
		l.logger.Info("acquired lease", zap.String("lease", l.name), zap.String("holder", l.holder))
		return nil
	}

	current, err := l.client.Get(ctx, l.key()).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return errors.Wrapf(err, "inspect lease %s", l.name)
	}
	// 重启后同一身份重新拿回
	if current == l.holder {
		return l.Renew(ctx)
	}
	return errors.Wrapf(errors.ErrLeaseHeld, "lease %s held by %s", l.name, current)
}

func (l *Locker) Renew(ctx context.Context) error {
	n, err := renewScript.Run(ctx, l.client, []string{l.key()}, l.holder, l.ttl.Milliseconds()).Int64()
	if err != nil {
		return errors.Wrapf(err, "renew lease %s", l.name)
	}
	if n == 0 {
		return errors.Wrapf(errors.ErrLeaseLost, "lease %s no longer held by %s", l.name, l.holder)
	}
	return nil
}

func (l *Locker) Release(ctx context.Context) error {
	if err := releaseScript.Run(ctx, l.client, []string{l.key()}, l.holder).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return errors.Wrapf(err, "release lease %s", l.name)
	}
	l.logger.Info("released lease", zap.String("lease", l.name))
	return nil
}
