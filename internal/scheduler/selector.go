package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/autoclock/scheduler/internal/biz/catalog"
	"github.com/autoclock/scheduler/internal/biz/task"
	"github.com/autoclock/scheduler/internal/biz/user"
	"github.com/autoclock/scheduler/pkg/errors"
	"github.com/samber/mo"
	"go.uber.org/zap"
)

// DueTask 两个队列中最早的一条待执行任务，附带执行所需的用户与目录项
type DueTask struct {
	Kind         task.Kind
	Key          task.Key
	RunTime      time.Time
	User         *user.User
	WorkType     *catalog.WorkType
	ScheduleType *catalog.WorkScheduleType
	ApplyDate    time.Time
}

// Due 调度时刻已到
func (d DueTask) Due(now time.Time) bool {
	return !d.RunTime.After(now)
}

// Selector 合并打卡队列与排班队列
type Selector struct {
	clocks    task.ClockRepo
	schedules task.ScheduleRepo
	users     user.Repo
	catalog   catalog.Repo
	logger    *zap.Logger
	now       func() time.Time

	mu       sync.Mutex
	lastNote time.Time
}

func NewSelector(
	clocks task.ClockRepo,
	schedules task.ScheduleRepo,
	users user.Repo,
	catalogRepo catalog.Repo,
	logger *zap.Logger,
) *Selector {
	return &Selector{
		clocks:    clocks,
		schedules: schedules,
		users:     users,
		catalog:   catalogRepo,
		logger:    logger,
		now:       time.Now,
	}
}

// Peek 两个队列中 run_time 最早的任务，不论是否已到期。时间相同时打卡优先。
func (s *Selector) Peek(ctx context.Context) (mo.Option[DueTask], error) {
	clock, err := s.clocks.NextPending(ctx)
	if err != nil {
		return mo.None[DueTask](), errors.Wrap(err, "next clock task")
	}
	schedule, err := s.schedules.NextPending(ctx)
	if err != nil {
		return mo.None[DueTask](), errors.Wrap(err, "next schedule task")
	}

	switch {
	case clock == nil && schedule == nil:
		return mo.None[DueTask](), nil
	case schedule == nil || (clock != nil && !schedule.RunTime.Before(clock.RunTime)):
		d, err := s.fromClock(ctx, clock)
		if err != nil {
			return mo.None[DueTask](), err
		}
		return mo.Some(d), nil
	default:
		d, err := s.fromSchedule(ctx, schedule)
		if err != nil {
			return mo.None[DueTask](), err
		}
		return mo.Some(d), nil
	}
}

// NextDue 最早任务已到期时返回它，否则返回 None
func (s *Selector) NextDue(ctx context.Context) (mo.Option[DueTask], error) {
	next, err := s.Peek(ctx)
	if err != nil {
		return next, err
	}
	d, ok := next.Get()
	if !ok {
		return next, nil
	}
	now := s.now()
	if d.Due(now) {
		return next, nil
	}
	s.note(d, now)
	return mo.None[DueTask](), nil
}

// note 每小时记录一次下一个任务
func (s *Selector) note(d DueTask, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.lastNote.IsZero() && now.Sub(s.lastNote) < time.Hour {
		return
	}
	s.lastNote = now
	s.logger.Info("next task",
		zap.String("kind", d.Kind.String()),
		zap.String("key", d.Key.String()),
		zap.Time("run_time", d.RunTime))
}

func (s *Selector) loadUser(ctx context.Context, id uint64) (*user.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "load user %d", id)
	}
	if u == nil {
		return nil, errors.Wrapf(ErrMissingReference, "user %d", id)
	}
	return u, nil
}

func (s *Selector) fromClock(ctx context.Context, t *task.ClockTask) (DueTask, error) {
	kind, err := task.KindOf(t.Key.RunType)
	if err != nil {
		return DueTask{}, err
	}
	u, err := s.loadUser(ctx, t.Key.UserID)
	if err != nil {
		return DueTask{}, err
	}
	wt, err := s.catalog.GetWorkType(ctx, t.WorkTypeID)
	if err != nil {
		return DueTask{}, errors.Wrapf(err, "load work type %d", t.WorkTypeID)
	}
	if wt == nil {
		return DueTask{}, errors.Wrapf(ErrMissingReference, "work type %d", t.WorkTypeID)
	}
	return DueTask{
		Kind:     kind,
		Key:      t.Key,
		RunTime:  t.RunTime,
		User:     u,
		WorkType: wt,
	}, nil
}

func (s *Selector) fromSchedule(ctx context.Context, t *task.ScheduleTask) (DueTask, error) {
	u, err := s.loadUser(ctx, t.Key.UserID)
	if err != nil {
		return DueTask{}, err
	}
	st, err := s.catalog.GetScheduleType(ctx, t.ScheduleTypeID)
	if err != nil {
		return DueTask{}, errors.Wrapf(err, "load schedule type %d", t.ScheduleTypeID)
	}
	if st == nil {
		return DueTask{}, errors.Wrapf(ErrMissingReference, "schedule type %d", t.ScheduleTypeID)
	}
	return DueTask{
		Kind:         task.KindApplyTelework,
		Key:          t.Key,
		RunTime:      t.RunTime,
		User:         u,
		ScheduleType: st,
		ApplyDate:    t.ApplyDate,
	}, nil
}
