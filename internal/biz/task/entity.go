package task

import (
	"time"
)

// ClockTask 打卡队列中的一行，用户由 Key 确定
type ClockTask struct {
	WorkTypeID uint64
	Key        Key
	RunTime    time.Time
	Applied    Status
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ScheduleTask 排班申请队列中的一行，ApplyDate 为申请的目标工作日
type ScheduleTask struct {
	ScheduleTypeID uint64
	Key            Key
	RunTime        time.Time
	ApplyDate      time.Time
	Applied        Status
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewClockTask 新生成的打卡任务，状态 pending
func NewClockTask(key Key, workTypeID uint64, runTime time.Time) *ClockTask {
	return &ClockTask{
		WorkTypeID: workTypeID,
		Key:        key,
		RunTime:    runTime,
		Applied:    StatusPending,
		Active:     true,
	}
}

// NewScheduleTask 新生成的排班申请任务，状态 pending
func NewScheduleTask(key Key, scheduleTypeID uint64, runTime, applyDate time.Time) *ScheduleTask {
	return &ScheduleTask{
		ScheduleTypeID: scheduleTypeID,
		Key:            key,
		RunTime:        runTime,
		ApplyDate:      applyDate,
		Applied:        StatusPending,
		Active:         true,
	}
}

// Patch 运维修改任务时的可选字段
type Patch struct {
	RunTime *time.Time
	Active  *bool
	Applied *Status
}

func NewPatch() *Patch {
	return &Patch{}
}

func (p *Patch) WithRunTime(t time.Time) *Patch {
	p.RunTime = &t
	return p
}

func (p *Patch) WithActive(active bool) *Patch {
	p.Active = &active
	return p
}

func (p *Patch) WithApplied(s Status) *Patch {
	p.Applied = &s
	return p
}

func (p *Patch) Empty() bool {
	return p.RunTime == nil && p.Active == nil && p.Applied == nil
}
