package policyrepo

import (
	"time"

	domain "github.com/autoclock/scheduler/internal/biz/policy"
)

type BasicTypePo struct {
	UserID           uint64    `gorm:"column:user_id;primarykey;autoIncrement:false"`
	ClockinTypeName  *string   `gorm:"column:clockin_type_name;size:64"`
	ClockoutTypeName *string   `gorm:"column:clockout_type_name;size:64"`
	ScheduleTypeName *string   `gorm:"column:schedule_type_name;size:64"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (BasicTypePo) TableName() string {
	return "t_basic_types"
}

func (po *BasicTypePo) ToDomain() *domain.UserPolicy {
	return &domain.UserPolicy{
		UserID:           po.UserID,
		ClockInTypeName:  po.ClockinTypeName,
		ClockOutTypeName: po.ClockoutTypeName,
		ScheduleTypeName: po.ScheduleTypeName,
	}
}

func (po *BasicTypePo) FromDomain(p *domain.UserPolicy) *BasicTypePo {
	po.UserID = p.UserID
	po.ClockinTypeName = p.ClockInTypeName
	po.ClockoutTypeName = p.ClockOutTypeName
	po.ScheduleTypeName = p.ScheduleTypeName
	return po
}
