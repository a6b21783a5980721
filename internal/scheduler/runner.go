package scheduler

import (
	"context"
	"time"

	"github.com/autoclock/scheduler/internal/biz/lease"
	"github.com/autoclock/scheduler/internal/biz/task"
	"github.com/autoclock/scheduler/internal/clocker"
	"github.com/autoclock/scheduler/pkg/config"
	"github.com/autoclock/scheduler/pkg/errors"
	"github.com/samber/mo"
	"go.uber.org/zap"
)

// DueSource 返回已到期的下一条任务
type DueSource interface {
	NextDue(ctx context.Context) (mo.Option[DueTask], error)
}

// Session 执行一次浏览器会话
type Session interface {
	Run(ctx context.Context, cred clocker.Credentials, action clocker.Action) error
}

type statusWriter func(ctx context.Context, key task.Key, from, to task.Status) error

// RunnerLoop 持有 runner 租约，逐条执行到期任务
type RunnerLoop struct {
	keeper
	source  DueSource
	session Session
	writers map[task.Kind]statusWriter
	poll    time.Duration
	idle    time.Duration
	backoff []time.Duration
}

func NewRunnerLoop(
	cfg *config.Config,
	locker lease.Locker,
	source DueSource,
	session Session,
	clocks task.ClockRepo,
	schedules task.ScheduleRepo,
	logger *zap.Logger,
) *RunnerLoop {
	return &RunnerLoop{
		keeper: keeper{
			locker:  locker,
			slice:   cfg.Scheduler.PollInterval,
			release: cfg.Lease.ReleaseOnShutdown,
			sleep:   sleepCtx,
			logger:  logger.Named("runner"),
		},
		source:  source,
		session: session,
		writers: map[task.Kind]statusWriter{
			task.KindClockIn:       clocks.UpdateStatus,
			task.KindClockOut:      clocks.UpdateStatus,
			task.KindApplyTelework: schedules.UpdateStatus,
		},
		poll:    cfg.Scheduler.PollInterval,
		idle:    cfg.Scheduler.IdleInterval,
		backoff: []time.Duration{time.Second, 2 * time.Second, 4 * time.Second},
	}
}

// Run 阻塞到 ctx 取消或租约丢失。其他实例持有租约时返回 ErrLeaseHeld。
func (l *RunnerLoop) Run(ctx context.Context) error {
	return l.run(ctx, l.loop)
}

func (l *RunnerLoop) loop(ctx context.Context) error {
	l.logger.Info("runner loop started", zap.String("holder", l.locker.Holder()))
	for {
		if err := l.hold(ctx, l.poll); err != nil {
			if ctx.Err() != nil || errors.Is(err, errors.ErrLeaseLost) {
				return err
			}
			l.logger.Error("lease renew failed, skipping iteration", zap.Error(err))
			continue
		}

		idle, err := l.Step(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, errors.ErrLeaseLost) {
				return err
			}
			l.logger.Error("iteration failed", zap.Error(err))
			continue
		}
		if idle {
			if err := l.hold(ctx, l.idle); err != nil {
				if ctx.Err() != nil || errors.Is(err, errors.ErrLeaseLost) {
					return err
				}
				l.logger.Error("lease renew failed while idle", zap.Error(err))
			}
		}
	}
}

// Step 执行一条到期任务；没有到期任务时 idle 为 true
func (l *RunnerLoop) Step(ctx context.Context) (idle bool, err error) {
	next, err := l.source.NextDue(ctx)
	if err != nil {
		return false, err
	}
	d, ok := next.Get()
	if !ok {
		return true, nil
	}

	write, ok := l.writers[d.Kind]
	if !ok {
		return false, errors.Wrapf(errors.ErrInvalidArgument, "no queue for %s", d.Kind)
	}

	log := l.logger.With(
		zap.String("kind", d.Kind.String()),
		zap.String("key", d.Key.String()),
		zap.Time("run_time", d.RunTime))

	// 浏览器会话可能持续数十秒，领取前与结束后各续约一次
	if err := l.locker.Renew(ctx); err != nil {
		return false, errors.Wrap(err, "renew before task")
	}
	if err := write(ctx, d.Key, task.StatusPending, task.StatusRunning); err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			log.Warn("task changed before claim, skipped")
			return false, nil
		}
		return false, errors.Wrap(err, "claim task")
	}
	log.Info("task started")

	final := task.StatusSuccess
	if runErr := l.execute(ctx, d); runErr != nil {
		final = task.StatusFailed
		log.Error("task failed", zap.Error(runErr))
	} else {
		log.Info("task succeeded")
	}

	// 会话已经结束，续约失败也要先落最终状态
	renewErr := l.locker.Renew(context.WithoutCancel(ctx))
	l.settle(context.WithoutCancel(ctx), log, write, d.Key, final)
	if renewErr != nil {
		return false, errors.Wrap(renewErr, "renew after task")
	}
	return false, nil
}

func (l *RunnerLoop) execute(ctx context.Context, d DueTask) error {
	action, err := actionFor(d)
	if err != nil {
		return err
	}
	cred := clocker.Credentials{Email: d.User.Email, Password: d.User.Password}
	return l.session.Run(ctx, cred, action)
}

func actionFor(d DueTask) (clocker.Action, error) {
	switch d.Kind {
	case task.KindClockIn, task.KindClockOut:
		if d.WorkType == nil {
			return nil, errors.Wrapf(ErrMissingReference, "work type for %s", d.Key)
		}
		return clocker.NewClockAction(d.Kind, *d.WorkType)
	case task.KindApplyTelework:
		if d.ScheduleType == nil {
			return nil, errors.Wrapf(ErrMissingReference, "schedule type for %s", d.Key)
		}
		return clocker.NewApplyTelework(d.ApplyDate, *d.ScheduleType)
	}
	return nil, errors.Wrapf(errors.ErrInvalidArgument, "kind %s", d.Kind)
}

// settle 写入最终状态，失败时按 backoff 重试，仍失败则任务保持 running 等待人工处理
func (l *RunnerLoop) settle(ctx context.Context, log *zap.Logger, write statusWriter, key task.Key, final task.Status) {
	var err error
	for attempt := 0; attempt <= len(l.backoff); attempt++ {
		if attempt > 0 {
			wait := l.backoff[attempt-1]
			log.Info("retrying status write",
				zap.Int("attempt", attempt),
				zap.Duration("backoff", wait))
			_ = l.sleep(ctx, wait)
		}
		if err = write(ctx, key, task.StatusRunning, final); err == nil {
			return
		}
		if errors.Is(err, errors.ErrNotFound) {
			log.Warn("task status changed while running", zap.String("status", string(final)))
			return
		}
	}
	log.Error("status write failed, task left running",
		zap.String("status", string(final)),
		zap.Error(err))
}
