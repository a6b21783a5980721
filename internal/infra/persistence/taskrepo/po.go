package taskrepo

import (
	"time"

	"gorm.io/datatypes"
)

// ClockSchedulePo 打卡队列
type ClockSchedulePo struct {
	UserID     uint64         `gorm:"column:user_id;primaryKey;autoIncrement:false"`
	RunType    string         `gorm:"column:run_type;primaryKey;size:32"`
	RunDate    datatypes.Date `gorm:"column:run_date;primaryKey"`
	WorkTypeID uint64         `gorm:"column:work_type_id;not null;index"`
	RunTime    time.Time      `gorm:"column:run_time;not null;index"`
	Applied    string         `gorm:"column:applied;size:16;not null;index"`
	Active     bool           `gorm:"column:active;not null"`
	CreatedAt  time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (ClockSchedulePo) TableName() string {
	return "t_clock_schedules"
}

// AppliedSchedulePo 排班申请队列
type AppliedSchedulePo struct {
	UserID         uint64         `gorm:"column:user_id;primaryKey;autoIncrement:false"`
	RunType        string         `gorm:"column:run_type;primaryKey;size:32"`
	RunDate        datatypes.Date `gorm:"column:run_date;primaryKey"`
	ScheduleTypeID uint64         `gorm:"column:schedule_type_id;not null;index"`
	RunTime        time.Time      `gorm:"column:run_time;not null;index"`
	ApplyDate      datatypes.Date `gorm:"column:apply_date;not null"`
	Applied        string         `gorm:"column:applied;size:16;not null;index"`
	Active         bool           `gorm:"column:active;not null"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (AppliedSchedulePo) TableName() string {
	return "t_applied_schedules"
}
