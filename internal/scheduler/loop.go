package scheduler

import (
	"context"
	"time"

	"github.com/autoclock/scheduler/internal/biz/lease"
	"github.com/autoclock/scheduler/pkg/errors"
	"go.uber.org/zap"
)

// sleepCtx ctx 取消时提前返回 ctx.Err()
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// keeper 按不超过 slice 的间隔睡眠并续约，租约在长时间等待中不会过期
type keeper struct {
	locker  lease.Locker
	slice   time.Duration
	release bool
	sleep   func(ctx context.Context, d time.Duration) error
	logger  *zap.Logger
}

// hold 等待 d，期间每个 slice 续约一次。
// 返回 ctx 错误、ErrLeaseLost，或续约的临时错误。
func (k *keeper) hold(ctx context.Context, d time.Duration) error {
	d = max(d, 0)
	for {
		step := min(d, k.slice)
		if err := k.sleep(ctx, step); err != nil {
			return err
		}
		if err := k.locker.Renew(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		d -= step
		if d <= 0 {
			return nil
		}
	}
}

// finish ctx 结束或租约丢失属于正常退出
func (k *keeper) finish(err error) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return nil
	case errors.Is(err, errors.ErrLeaseLost):
		k.logger.Warn("lease lost, stopping loop",
			zap.String("lease", k.locker.Name()),
			zap.Error(err))
		return nil
	}
	return err
}

// run 拿到租约后执行 body，退出时按配置释放
func (k *keeper) run(ctx context.Context, body func(ctx context.Context) error) error {
	if !k.release {
		if err := k.locker.Acquire(ctx); err != nil {
			return err
		}
		return k.finish(body(ctx))
	}
	return k.finish(WithLease(ctx, k.locker, k.logger, body))
}
