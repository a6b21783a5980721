package scheduler

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/autoclock/scheduler/internal/biz/lease"
	"github.com/autoclock/scheduler/pkg/config"
	"github.com/autoclock/scheduler/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// TaskBuilder 生成任务
type TaskBuilder interface {
	BuildTasks(ctx context.Context) (BuildResult, error)
}

// BuilderLoop 持有 builder 租约，每天在 cron 时刻后的随机窗口内生成一次任务
type BuilderLoop struct {
	keeper
	builder  TaskBuilder
	schedule cron.Schedule
	loc      *time.Location
	onStart  bool
	now      func() time.Time
	offset   func() time.Duration
}

func NewBuilderLoop(cfg *config.Config, locker lease.Locker, builder TaskBuilder, logger *zap.Logger) (*BuilderLoop, error) {
	schedule, err := cron.ParseStandard(cfg.Scheduler.BuildSchedule)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "build_schedule %q: %v", cfg.Scheduler.BuildSchedule, err)
	}
	loc, err := cfg.Scheduler.Location()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "timezone %q", cfg.Scheduler.Timezone)
	}
	window := cfg.Scheduler.BuildWindow
	return &BuilderLoop{
		keeper: keeper{
			locker:  locker,
			slice:   cfg.Scheduler.PollInterval,
			release: cfg.Lease.ReleaseOnShutdown,
			sleep:   sleepCtx,
			logger:  logger.Named("builder"),
		},
		builder:  builder,
		schedule: schedule,
		loc:      loc,
		onStart:  cfg.Scheduler.BuildOnStart,
		now:      time.Now,
		offset: func() time.Duration {
			if window <= 0 {
				return 0
			}
			return rand.N(window)
		},
	}, nil
}

// Run 阻塞到 ctx 取消或租约丢失
func (l *BuilderLoop) Run(ctx context.Context) error {
	return l.run(ctx, l.loop)
}

// NextRun now 之后的下一个生成时刻
func (l *BuilderLoop) NextRun(now time.Time) time.Time {
	return l.schedule.Next(now.In(l.loc)).Add(l.offset())
}

func (l *BuilderLoop) loop(ctx context.Context) error {
	l.logger.Info("builder loop started", zap.String("holder", l.locker.Holder()))
	if l.onStart {
		l.build(ctx)
	}
	next := l.NextRun(l.now())
	l.logger.Info("next build", zap.Time("at", next))
	for {
		if err := l.hold(ctx, next.Sub(l.now())); err != nil {
			if ctx.Err() != nil || errors.Is(err, errors.ErrLeaseLost) {
				return err
			}
			l.logger.Error("lease renew failed, build postponed", zap.Error(err))
			if err := l.sleep(ctx, l.slice); err != nil {
				return err
			}
			continue
		}
		l.build(ctx)
		next = l.NextRun(l.now())
		l.logger.Info("next build", zap.Time("at", next))
	}
}

// build 失败只记录，次日重试
func (l *BuilderLoop) build(ctx context.Context) {
	result, err := l.builder.BuildTasks(ctx)
	if err != nil {
		l.logger.Error("build tasks failed", zap.Error(err))
		return
	}
	l.logger.Info("build finished",
		zap.Int64("clock_inserted", result.ClockInserted),
		zap.Int64("schedule_inserted", result.ScheduleInserted))
}
