package api

import (
	"time"

	"github.com/autoclock/scheduler/internal/biz/catalog"
	"github.com/autoclock/scheduler/internal/biz/policy"
	"github.com/autoclock/scheduler/internal/biz/task"
	"github.com/autoclock/scheduler/internal/biz/user"
)

type ListReq struct {
	Brief bool `form:"brief"`
}

////// user API //////

type UpsertUserReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Memo     string `json:"memo"`
}

type UserResp struct {
	ID        uint64    `json:"id,string"`
	Email     string    `json:"email"`
	Memo      string    `json:"memo"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type BriefResp struct {
	ID   uint64 `json:"id,string"`
	Name string `json:"name"`
}

func toUserResp(u *user.User) UserResp {
	return UserResp{
		ID:        u.ID,
		Email:     u.Email,
		Memo:      u.Memo,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

////// catalog API //////

type ListWorkTypesReq struct {
	Brief bool `form:"brief"`
	// Type in 只看出勤，out 只看退勤
	Type string `form:"type" binding:"omitempty,oneof=in out"`
}

type SaveWorkTypeReq struct {
	TypeName string            `json:"type_name" binding:"required"`
	RunType  catalog.RunType   `json:"run_type" binding:"required"`
	RunTime  catalog.TimeOfDay `json:"run_time"`
	GPS      string            `json:"gps" binding:"required"`
}

type WorkTypeResp struct {
	ID       uint64            `json:"id,string"`
	TypeName string            `json:"type_name"`
	RunType  catalog.RunType   `json:"run_type"`
	RunTime  catalog.TimeOfDay `json:"run_time"`
	GPS      string            `json:"gps"`
}

func toWorkTypeResp(w *catalog.WorkType) WorkTypeResp {
	return WorkTypeResp{
		ID:       w.ID,
		TypeName: w.TypeName,
		RunType:  w.RunType,
		RunTime:  w.RunTime,
		GPS:      w.GPS,
	}
}

type SaveScheduleTypeReq struct {
	TypeName  string             `json:"type_name" binding:"required"`
	Memo      string             `json:"memo"`
	Workday   bool               `json:"workday"`
	Telework  bool               `json:"telework"`
	ClockType catalog.ClockType  `json:"clock_type" binding:"required"`
	ClockIn   *catalog.TimeOfDay `json:"clockin"`
	ClockOut  *catalog.TimeOfDay `json:"clockout"`
	BreakIn   *catalog.TimeOfDay `json:"breakin"`
	BreakOut  *catalog.TimeOfDay `json:"breakout"`
	Msg       string             `json:"msg"`
}

type ScheduleTypeResp struct {
	ID        uint64             `json:"id,string"`
	TypeName  string             `json:"type_name"`
	Memo      string             `json:"memo"`
	Workday   bool               `json:"workday"`
	Telework  bool               `json:"telework"`
	ClockType catalog.ClockType  `json:"clock_type"`
	ClockIn   *catalog.TimeOfDay `json:"clockin"`
	ClockOut  *catalog.TimeOfDay `json:"clockout"`
	BreakIn   *catalog.TimeOfDay `json:"breakin"`
	BreakOut  *catalog.TimeOfDay `json:"breakout"`
	Msg       string             `json:"msg"`
}

func (r SaveScheduleTypeReq) toDomain() *catalog.WorkScheduleType {
	return &catalog.WorkScheduleType{
		TypeName:  r.TypeName,
		Memo:      r.Memo,
		Workday:   r.Workday,
		Telework:  r.Telework,
		ClockType: r.ClockType,
		ClockIn:   r.ClockIn,
		ClockOut:  r.ClockOut,
		BreakIn:   r.BreakIn,
		BreakOut:  r.BreakOut,
		Msg:       r.Msg,
	}
}

func toScheduleTypeResp(s *catalog.WorkScheduleType) ScheduleTypeResp {
	return ScheduleTypeResp{
		ID:        s.ID,
		TypeName:  s.TypeName,
		Memo:      s.Memo,
		Workday:   s.Workday,
		Telework:  s.Telework,
		ClockType: s.ClockType,
		ClockIn:   s.ClockIn,
		ClockOut:  s.ClockOut,
		BreakIn:   s.BreakIn,
		BreakOut:  s.BreakOut,
		Msg:       s.Msg,
	}
}

////// policy API //////

type SavePolicyReq struct {
	UserID           uint64  `json:"user_id,string" binding:"required"`
	ClockInTypeName  *string `json:"clockin_type_name"`
	ClockOutTypeName *string `json:"clockout_type_name"`
	ScheduleTypeName *string `json:"schedule_type_name"`
}

type PolicyResp struct {
	UserID           uint64  `json:"user_id,string"`
	Email            string  `json:"email,omitempty"`
	ClockInTypeName  *string `json:"clockin_type_name"`
	ClockOutTypeName *string `json:"clockout_type_name"`
	ScheduleTypeName *string `json:"schedule_type_name"`
	Ready            bool    `json:"ready"`
}

type SavePolicyResp struct {
	Policy PolicyResp `json:"policy"`
	// Build 保存后立即生成任务的结果，生成失败时为空并填写 BuildError
	Build      *BuildResp `json:"build,omitempty"`
	BuildError string     `json:"build_error,omitempty"`
}

func toPolicyResp(p *policy.UserPolicy, email string) PolicyResp {
	return PolicyResp{
		UserID:           p.UserID,
		Email:            email,
		ClockInTypeName:  p.ClockInTypeName,
		ClockOutTypeName: p.ClockOutTypeName,
		ScheduleTypeName: p.ScheduleTypeName,
		Ready:            p.Ready(),
	}
}

////// task API //////

type BuildResp struct {
	ClockInserted    int64 `json:"clock_inserted"`
	ScheduleInserted int64 `json:"schedule_inserted"`
}

type ListTasksReq struct {
	Email string `form:"email"`
}

type TaskResp struct {
	UserID    uint64          `json:"user_id,string"`
	Email     string          `json:"email"`
	RunType   catalog.RunType `json:"run_type"`
	RunDate   string          `json:"run_date"`
	RunTime   time.Time       `json:"run_time"`
	TypeName  string          `json:"type_name"`
	ApplyDate string          `json:"apply_date,omitempty"`
	Applied   task.Status     `json:"applied"`
	Active    bool            `json:"active"`
}

type PatchTaskReq struct {
	UserID  uint64          `json:"user_id,string" binding:"required"`
	RunType catalog.RunType `json:"run_type" binding:"required"`
	RunDate string          `json:"run_date" binding:"required"`
	RunTime *time.Time      `json:"run_time"`
	Active  *bool           `json:"active"`
	Applied *task.Status    `json:"applied"`
}

type PurgeTasksResp struct {
	Purged int64      `json:"purged"`
	Tasks  []TaskResp `json:"tasks"`
}
