package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/autoclock/scheduler/internal/biz/lease"
	"github.com/autoclock/scheduler/pkg/errors"
	"go.uber.org/zap"
)

// Locker 基于 scheduler_leases 表的租约
type Locker struct {
	repo   lease.Repo
	name   string
	holder string
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger

	mu     sync.Mutex
	locked bool
}

var _ lease.Locker = (*Locker)(nil)

// NewLocker 创建租约，holder 为当前进程身份
func NewLocker(repo lease.Repo, name, holder string, ttl time.Duration, logger *zap.Logger) *Locker {
	return &Locker{
		repo:   repo,
		name:   name,
		holder: holder,
		ttl:    ttl,
		now:    time.Now,
		logger: logger,
	}
}

func (l *Locker) Name() string   { return l.name }
func (l *Locker) Holder() string { return l.holder }

// Acquire 其他实例持有未过期租约时返回 ErrLeaseHeld
func (l *Locker) Acquire(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	ok, err := l.repo.TryAcquire(ctx, l.name, l.holder, l.ttl, l.now())
	if err != nil {
		return errors.Wrapf(err, "acquire lease %s", l.name)
	}
	if !ok {
		current, err := l.repo.Get(ctx, l.name)
		if err == nil && current != nil {
			return errors.Wrapf(errors.ErrLeaseHeld, "lease %s held by %s until %s",
				l.name, current.Holder, current.ExpiresAt.Format(time.RFC3339))
		}
		return errors.Wrapf(errors.ErrLeaseHeld, "lease %s", l.name)
	}

	l.locked = true
	l.logger.Info("acquired lease",
		zap.String("lease", l.name),
		zap.String("holder", l.holder))
	return nil
}

// Renew 租约被删除、改写或已过期被他人接管时返回 ErrLeaseLost
func (l *Locker) Renew(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.locked {
		return errors.Wrapf(errors.ErrLeaseLost, "lease %s not held", l.name)
	}
	ok, err := l.repo.Extend(ctx, l.name, l.holder, l.ttl, l.now())
	if err != nil {
		return errors.Wrapf(err, "renew lease %s", l.name)
	}
	if !ok {
		l.locked = false
		return errors.Wrapf(errors.ErrLeaseLost, "lease %s no longer held by %s", l.name, l.holder)
	}
	return nil
}

// Release 只删除自己持有的租约
func (l *Locker) Release(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.locked {
		return nil
	}
	l.locked = false
	if err := l.repo.Delete(ctx, l.name, l.holder); err != nil {
		return errors.Wrapf(err, "release lease %s", l.name)
	}
	l.logger.Info("released lease", zap.String("lease", l.name))
	return nil
}

// WithLease 持有租约期间执行 fn，结束后释放
func WithLease(ctx context.Context, l lease.Locker, logger *zap.Logger, fn func(ctx context.Context) error) error {
	if err := l.Acquire(ctx); err != nil {
		return err
	}
	defer func() {
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := l.Release(releaseCtx); err != nil {
			logger.Error("failed to release lease",
				zap.String("lease", l.Name()),
				zap.Error(err))
		}
	}()
	return fn(ctx)
}
