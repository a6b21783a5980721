package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/autoclock/scheduler/pkg/errors"
)

// RunType 任务动作类型，取值即门户上的日文名称
type RunType string

const (
	RunTypeClockIn  RunType = "出勤"
	RunTypeClockOut RunType = "退勤"
	RunTypeSchedule RunType = "実績スケジュール申請"
)

var AllRunTypes = []RunType{RunTypeClockIn, RunTypeClockOut, RunTypeSchedule}

func (r RunType) Valid() bool {
	switch r {
	case RunTypeClockIn, RunTypeClockOut, RunTypeSchedule:
		return true
	}
	return false
}

func (r RunType) String() string { return string(r) }

// ClockType 排班类型的考勤方式
type ClockType string

const (
	ClockTypeNormal ClockType = "通常勤務"
	ClockTypeCustom ClockType = "カスタム"
)

func (c ClockType) Valid() bool {
	return c == ClockTypeNormal || c == ClockTypeCustom
}

// TimeOfDay 一天内的时刻，以距零点的偏移表示
type TimeOfDay time.Duration

// ParseTimeOfDay 解析 "HH:MM" 或 "HH:MM:SS"
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return NewTimeOfDay(t.Hour(), t.Minute(), t.Second()), nil
		}
	}
	return 0, errors.Wrapf(errors.ErrInvalidArgument, "time of day %q", s)
}

// MustParseTimeOfDay 用于常量与测试
func MustParseTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

func NewTimeOfDay(hour, minute, second int) TimeOfDay {
	return TimeOfDay(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute + time.Duration(second)*time.Second)
}

func (t TimeOfDay) Duration() time.Duration { return time.Duration(t) }

// On 把时刻与 date 所在日期组合成 loc 时区的时间点
func (t TimeOfDay) On(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc).Add(time.Duration(t))
}

// String 以门户表单接受的 HH:MM:SS 输出
func (t TimeOfDay) String() string {
	total := int(time.Duration(t) / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, total%3600/60, total%60)
}

func (t *TimeOfDay) UnmarshalText(b []byte) error {
	v, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}
