package task

import (
	"context"
	"time"
)

// ClockRepo 打卡队列 t_clock_schedules
type ClockRepo interface {
	// InsertIgnore 批量插入，主键冲突的行跳过，返回实际插入数
	InsertIgnore(ctx context.Context, tasks []*ClockTask) (int64, error)
	// NextPending active 且 pending 中 run_time 最小的一行，队列为空时返回 nil
	NextPending(ctx context.Context) (*ClockTask, error)
	// UpdateStatus 仅当当前状态为 from 时改为 to，未命中返回 ErrNotFound
	UpdateStatus(ctx context.Context, key Key, from, to Status) error
	Get(ctx context.Context, key Key) (*ClockTask, error)
	ListByUser(ctx context.Context, userID uint64) ([]*ClockTask, error)
	Update(ctx context.Context, key Key, patch *Patch) error
	// PurgeBefore 删除 run_time 早于 before 的行，userID 为 0 时作用于全部用户
	PurgeBefore(ctx context.Context, userID uint64, before time.Time) (int64, error)
}

// ScheduleRepo 排班申请队列 t_applied_schedules
type ScheduleRepo interface {
	InsertIgnore(ctx context.Context, tasks []*ScheduleTask) (int64, error)
	NextPending(ctx context.Context) (*ScheduleTask, error)
	UpdateStatus(ctx context.Context, key Key, from, to Status) error
	Get(ctx context.Context, key Key) (*ScheduleTask, error)
	ListByUser(ctx context.Context, userID uint64) ([]*ScheduleTask, error)
	Update(ctx context.Context, key Key, patch *Patch) error
	PurgeBefore(ctx context.Context, userID uint64, before time.Time) (int64, error)
}
