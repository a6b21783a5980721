package taskrepo

import (
	"time"

	"github.com/autoclock/scheduler/internal/biz/catalog"
	domain "github.com/autoclock/scheduler/internal/biz/task"
	"gorm.io/datatypes"
)

func keyOf(userID uint64, runType string, runDate datatypes.Date) domain.Key {
	return domain.Key{
		UserID:  userID,
		RunType: catalog.RunType(runType),
		RunDate: time.Time(runDate),
	}
}

func (po *ClockSchedulePo) ToDomain() *domain.ClockTask {
	return &domain.ClockTask{
		WorkTypeID: po.WorkTypeID,
		Key:        keyOf(po.UserID, po.RunType, po.RunDate),
		RunTime:    po.RunTime,
		Applied:    domain.Status(po.Applied),
		Active:     po.Active,
		CreatedAt:  po.CreatedAt,
		UpdatedAt:  po.UpdatedAt,
	}
}

func (po *ClockSchedulePo) FromDomain(t *domain.ClockTask) *ClockSchedulePo {
	po.UserID = t.Key.UserID
	po.RunType = string(t.Key.RunType)
	po.RunDate = datatypes.Date(t.Key.RunDate)
	po.WorkTypeID = t.WorkTypeID
	po.RunTime = t.RunTime
	po.Applied = string(t.Applied)
	po.Active = t.Active
	return po
}

func (po *AppliedSchedulePo) ToDomain() *domain.ScheduleTask {
	return &domain.ScheduleTask{
		ScheduleTypeID: po.ScheduleTypeID,
		Key:            keyOf(po.UserID, po.RunType, po.RunDate),
		RunTime:        po.RunTime,
		ApplyDate:      time.Time(po.ApplyDate),
		Applied:        domain.Status(po.Applied),
		Active:         po.Active,
		CreatedAt:      po.CreatedAt,
		UpdatedAt:      po.UpdatedAt,
	}
}

func (po *AppliedSchedulePo) FromDomain(t *domain.ScheduleTask) *AppliedSchedulePo {
	po.UserID = t.Key.UserID
	po.RunType = string(t.Key.RunType)
	po.RunDate = datatypes.Date(t.Key.RunDate)
	po.ScheduleTypeID = t.ScheduleTypeID
	po.RunTime = t.RunTime
	po.ApplyDate = datatypes.Date(t.ApplyDate)
	po.Applied = string(t.Applied)
	po.Active = t.Active
	return po
}

func patchToMap(p *domain.Patch) map[string]any {
	m := make(map[string]any)
	if p.RunTime != nil {
		m["run_time"] = *p.RunTime
	}
	if p.Active != nil {
		m["active"] = *p.Active
	}
	if p.Applied != nil {
		m["applied"] = string(*p.Applied)
	}
	return m
}
