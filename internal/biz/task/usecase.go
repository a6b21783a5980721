package task

import (
	"context"
	"time"

	"github.com/autoclock/scheduler/internal/biz/catalog"
	"github.com/autoclock/scheduler/pkg/errors"
	"github.com/samber/mo"
)

// Usecase 管理接口对两个任务队列的行级操作
type Usecase struct {
	clocks    ClockRepo
	schedules ScheduleRepo
	now       func() time.Time
}

func NewUsecase(clocks ClockRepo, schedules ScheduleRepo) *Usecase {
	return &Usecase{clocks: clocks, schedules: schedules, now: time.Now}
}

type UpdateRequest struct {
	RunTime mo.Option[time.Time]
	Active  mo.Option[bool]
	Applied mo.Option[Status]
}

// Update 修改一行任务；运维可以把任意状态改回 pending 以重新执行
func (u *Usecase) Update(ctx context.Context, key Key, req *UpdateRequest) error {
	if s, ok := req.Applied.Get(); ok && !s.Valid() {
		return errors.Wrapf(errors.ErrInvalidArgument, "status %q", string(s))
	}

	patch := NewPatch()
	patch.RunTime = req.RunTime.ToPointer()
	patch.Active = req.Active.ToPointer()
	patch.Applied = req.Applied.ToPointer()
	if patch.Empty() {
		return nil
	}

	switch key.RunType {
	case catalog.RunTypeClockIn, catalog.RunTypeClockOut:
		return u.clocks.Update(ctx, key, patch)
	case catalog.RunTypeSchedule:
		return u.schedules.Update(ctx, key, patch)
	}
	return errors.Wrapf(errors.ErrInvalidArgument, "run type %q", string(key.RunType))
}

// PurgePast 删除已过期的任务行，userID 为 0 时作用于全部用户
func (u *Usecase) PurgePast(ctx context.Context, userID uint64) (int64, error) {
	now := u.now()
	clocks, err := u.clocks.PurgeBefore(ctx, userID, now)
	if err != nil {
		return 0, err
	}
	schedules, err := u.schedules.PurgeBefore(ctx, userID, now)
	if err != nil {
		return clocks, err
	}
	return clocks + schedules, nil
}

// ListByUser 返回用户在两个队列中的全部任务
func (u *Usecase) ListByUser(ctx context.Context, userID uint64) ([]*ClockTask, []*ScheduleTask, error) {
	clocks, err := u.clocks.ListByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	schedules, err := u.schedules.ListByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return clocks, schedules, nil
}
