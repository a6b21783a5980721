package catalogrepo

import (
	domain "github.com/autoclock/scheduler/internal/biz/catalog"
)

func (po *WorkTypePo) ToDomain() *domain.WorkType {
	return &domain.WorkType{
		ID:       po.ID,
		TypeName: po.TypeName,
		RunType:  domain.RunType(po.RunType),
		RunTime:  fromDatatypesTime(po.RunTime),
		GPS:      po.GPS,
	}
}

func (po *WorkTypePo) FromDomain(w *domain.WorkType) *WorkTypePo {
	po.ID = w.ID
	po.TypeName = w.TypeName
	po.RunType = string(w.RunType)
	po.RunTime = toDatatypesTime(w.RunTime)
	po.GPS = w.GPS
	return po
}

func (po *WorkScheduleTypePo) ToDomain() *domain.WorkScheduleType {
	return &domain.WorkScheduleType{
		ID:        po.ID,
		TypeName:  po.TypeName,
		Memo:      po.Memo,
		Workday:   po.Workday,
		Telework:  po.Telework,
		ClockType: domain.ClockType(po.ClockType),
		ClockIn:   fromNullableTime(po.ClockIn),
		ClockOut:  fromNullableTime(po.ClockOut),
		BreakIn:   fromNullableTime(po.BreakIn),
		BreakOut:  fromNullableTime(po.BreakOut),
		Msg:       po.Msg,
	}
}

func (po *WorkScheduleTypePo) FromDomain(s *domain.WorkScheduleType) *WorkScheduleTypePo {
	po.ID = s.ID
	po.TypeName = s.TypeName
	po.Memo = s.Memo
	po.Workday = s.Workday
	po.Telework = s.Telework
	po.ClockType = string(s.ClockType)
	po.ClockIn = toNullableTime(s.ClockIn)
	po.ClockOut = toNullableTime(s.ClockOut)
	po.BreakIn = toNullableTime(s.BreakIn)
	po.BreakOut = toNullableTime(s.BreakOut)
	po.Msg = s.Msg
	return po
}
