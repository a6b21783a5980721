package catalogrepo

import (
	"time"

	domain "github.com/autoclock/scheduler/internal/biz/catalog"
	"github.com/autoclock/scheduler/internal/infra/persistence/commonrepo"
	"gorm.io/datatypes"
)

type WorkTypePo struct {
	commonrepo.Mode
	TypeName string         `gorm:"column:type_name;size:64;not null;uniqueIndex"`
	RunType  string         `gorm:"column:run_type;size:32;not null;index"`
	RunTime  datatypes.Time `gorm:"column:run_time;not null"`
	GPS      string         `gorm:"column:gps;size:64"`
}

func (WorkTypePo) TableName() string {
	return "m_work_types"
}

type WorkScheduleTypePo struct {
	commonrepo.Mode
	TypeName  string          `gorm:"column:type_name;size:64;not null;uniqueIndex"`
	Memo      string          `gorm:"column:memo;size:255"`
	Workday   bool            `gorm:"column:workday;not null"`
	Telework  bool            `gorm:"column:telework;not null"`
	ClockType string          `gorm:"column:clock_type;size:32;not null"`
	ClockIn   *datatypes.Time `gorm:"column:clockin"`
	ClockOut  *datatypes.Time `gorm:"column:clockout"`
	BreakIn   *datatypes.Time `gorm:"column:breakin"`
	BreakOut  *datatypes.Time `gorm:"column:breakout"`
	Msg       string          `gorm:"column:msg;size:512"`
}

func (WorkScheduleTypePo) TableName() string {
	return "m_work_schedule_types"
}

func toDatatypesTime(t domain.TimeOfDay) datatypes.Time {
	return datatypes.Time(t.Duration())
}

func fromDatatypesTime(t datatypes.Time) domain.TimeOfDay {
	return domain.TimeOfDay(time.Duration(t))
}

func toNullableTime(t *domain.TimeOfDay) *datatypes.Time {
	if t == nil {
		return nil
	}
	v := toDatatypesTime(*t)
	return &v
}

func fromNullableTime(t *datatypes.Time) *domain.TimeOfDay {
	if t == nil {
		return nil
	}
	v := fromDatatypesTime(*t)
	return &v
}
