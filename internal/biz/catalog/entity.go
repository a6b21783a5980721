package catalog

import (
	"strings"

	"github.com/autoclock/scheduler/pkg/errors"
	"github.com/spf13/cast"
)

// DefaultTeleworkMessage 未填写备注时提交的申请理由
const DefaultTeleworkMessage = "現場規定により在宅勤務いたします。ご確認お願い致します。"

// WorkType 打卡目录项：动作、时刻与上报的 GPS
type WorkType struct {
	ID       uint64
	TypeName string
	RunType  RunType
	RunTime  TimeOfDay
	// GPS 形如 "35.0,139.0"
	GPS string
}

// Coordinates 解析 GPS 字符串
func (w WorkType) Coordinates() (lat, lon float64, err error) {
	return ParseCoordinates(w.GPS)
}

// ParseCoordinates 解析 "lat,lon"
func ParseCoordinates(gps string) (lat, lon float64, err error) {
	parts := strings.Split(gps, ",")
	if len(parts) != 2 {
		return 0, 0, errors.Wrapf(errors.ErrInvalidArgument, "gps %q: want \"lat,lon\"", gps)
	}
	lat, err = cast.ToFloat64E(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, errors.Wrapf(errors.ErrInvalidArgument, "gps latitude %q", parts[0])
	}
	lon, err = cast.ToFloat64E(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, errors.Wrapf(errors.ErrInvalidArgument, "gps longitude %q", parts[1])
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return 0, 0, errors.Wrapf(errors.ErrInvalidArgument, "gps %q out of range", gps)
	}
	return lat, lon, nil
}

// WorkScheduleType 排班申请目录项
type WorkScheduleType struct {
	ID        uint64
	TypeName  string
	Memo      string
	Workday   bool
	Telework  bool
	ClockType ClockType
	ClockIn   *TimeOfDay
	ClockOut  *TimeOfDay
	BreakIn   *TimeOfDay
	BreakOut  *TimeOfDay
	Msg       string
}

// Message 申请理由，空白时使用默认文案
func (s WorkScheduleType) Message() string {
	if strings.TrimSpace(s.Msg) == "" {
		return DefaultTeleworkMessage
	}
	return s.Msg
}

// Brief 目录下拉用的精简视图
type Brief struct {
	ID       uint64
	TypeName string
}
