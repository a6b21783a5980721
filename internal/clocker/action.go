package clocker

import (
	"time"

	"github.com/autoclock/scheduler/internal/biz/catalog"
	"github.com/autoclock/scheduler/internal/biz/task"
	"github.com/autoclock/scheduler/pkg/errors"
)

type Credentials struct {
	Email    string
	Password string
}

// Action 一次会话执行的动作，只有 ClockIn、ClockOut、ApplyTelework 三种
type Action interface {
	Kind() task.Kind
	sealed()
}

type ClockIn struct {
	Lat, Lon float64
}

type ClockOut struct {
	Lat, Lon float64
}

// ApplyTelework 为 Date 提交排班申请
type ApplyTelework struct {
	Date     time.Time
	Schedule catalog.WorkScheduleType
}

func (ClockIn) Kind() task.Kind       { return task.KindClockIn }
func (ClockOut) Kind() task.Kind      { return task.KindClockOut }
func (ApplyTelework) Kind() task.Kind { return task.KindApplyTelework }

func (ClockIn) sealed()       {}
func (ClockOut) sealed()      {}
func (ApplyTelework) sealed() {}

// NewClockAction 由打卡目录项构造 ClockIn 或 ClockOut，GPS 格式错误立即返回
func NewClockAction(kind task.Kind, workType catalog.WorkType) (Action, error) {
	lat, lon, err := workType.Coordinates()
	if err != nil {
		return nil, err
	}
	switch kind {
	case task.KindClockIn:
		return ClockIn{Lat: lat, Lon: lon}, nil
	case task.KindClockOut:
		return ClockOut{Lat: lat, Lon: lon}, nil
	}
	return nil, errors.Wrapf(errors.ErrInvalidArgument, "%s is not a clock action", kind)
}

func NewApplyTelework(date time.Time, schedule catalog.WorkScheduleType) (ApplyTelework, error) {
	if date.IsZero() {
		return ApplyTelework{}, errors.Wrap(errors.ErrInvalidArgument, "apply date is required")
	}
	if schedule.TypeName == "" {
		return ApplyTelework{}, errors.Wrap(errors.ErrInvalidArgument, "schedule type name is required")
	}
	return ApplyTelework{Date: date, Schedule: schedule}, nil
}
