package task

import (
	"fmt"
	"time"

	"github.com/autoclock/scheduler/internal/biz/catalog"
	"github.com/autoclock/scheduler/pkg/errors"
)

// Status 任务执行状态，存于 applied 列
type Status string

const (
	StatusPending Status = "pending"
	StatusRunning Status = "running"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusRunning, StatusSuccess, StatusFailed:
		return true
	}
	return false
}

// CanTransitionTo 调度循环只允许 pending -> running -> success|failed
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusRunning
	case StatusRunning:
		return next == StatusSuccess || next == StatusFailed
	}
	return false
}

// Kind 任务的执行分支
type Kind int

const (
	KindClockIn Kind = iota + 1
	KindClockOut
	KindApplyTelework
)

func (k Kind) String() string {
	switch k {
	case KindClockIn:
		return "clock_in"
	case KindClockOut:
		return "clock_out"
	case KindApplyTelework:
		return "apply_telework"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// RunType 与 catalog.RunType 一一对应
func (k Kind) RunType() catalog.RunType {
	switch k {
	case KindClockIn:
		return catalog.RunTypeClockIn
	case KindClockOut:
		return catalog.RunTypeClockOut
	case KindApplyTelework:
		return catalog.RunTypeSchedule
	}
	return ""
}

// KindOf 由动作类型得到执行分支
func KindOf(rt catalog.RunType) (Kind, error) {
	switch rt {
	case catalog.RunTypeClockIn:
		return KindClockIn, nil
	case catalog.RunTypeClockOut:
		return KindClockOut, nil
	case catalog.RunTypeSchedule:
		return KindApplyTelework, nil
	}
	return 0, errors.Wrapf(errors.ErrInvalidArgument, "run type %q", string(rt))
}

// Key 两个任务队列共用的主键 (user_id, run_type, run_date)
type Key struct {
	UserID  uint64
	RunType catalog.RunType
	RunDate time.Time
}

func (k Key) String() string {
	return fmt.Sprintf("%d/%s/%s", k.UserID, k.RunType, k.RunDate.Format(time.DateOnly))
}

// DateOf 取 t 在 loc 时区下的零点
func DateOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
