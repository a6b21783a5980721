package api

import (
	"sort"
	"time"

	"github.com/autoclock/scheduler/internal/biz/catalog"
	"github.com/autoclock/scheduler/internal/biz/task"
	"github.com/autoclock/scheduler/internal/biz/user"
	"github.com/autoclock/scheduler/internal/scheduler"
	"github.com/autoclock/scheduler/pkg/errors"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"go.uber.org/zap"
)

type ITaskAPI interface {
	// List 任务列表
	// 合并两个队列，按 run_time 排序；email 为空时列出全部用户
	// @GET(api/tasks)
	List(ctx *gin.Context, req ListTasksReq) ([]TaskResp, error)

	// Patch 修改单条任务
	// 可修改 run_time、active、applied
	// @PATCH(api/tasks)
	Patch(ctx *gin.Context, req PatchTaskReq) (TaskResp, error)

	// Purge 清理过期任务
	// 删除 run_time 已过的行后返回剩余任务
	// @DELETE(api/tasks)
	Purge(ctx *gin.Context, req ListTasksReq) (PurgeTasksResp, error)

	// Build 手动生成任务
	// @POST(api/tasks/build)
	Build(ctx *gin.Context) (BuildResp, error)
}

var _ ITaskAPI = (*TaskAPI)(nil)

type TaskAPI struct {
	tasks   *task.Usecase
	users   user.Repo
	catalog catalog.Repo
	builder scheduler.TaskBuilder
	logger  *zap.Logger
}

func NewTaskAPI(
	tasks *task.Usecase,
	users user.Repo,
	catalogRepo catalog.Repo,
	builder scheduler.TaskBuilder,
	logger *zap.Logger,
) *TaskAPI {
	return &TaskAPI{
		tasks:   tasks,
		users:   users,
		catalog: catalogRepo,
		builder: builder,
		logger:  logger,
	}
}

// selectUsers email 为空时返回全部用户
func (a *TaskAPI) selectUsers(ctx *gin.Context, email string) ([]*user.User, error) {
	if email == "" {
		return a.users.List(ctx)
	}
	u, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "user %s", email)
	}
	return []*user.User{u}, nil
}

func (a *TaskAPI) List(ctx *gin.Context, req ListTasksReq) ([]TaskResp, error) {
	users, err := a.selectUsers(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	return a.list(ctx, users)
}

func (a *TaskAPI) list(ctx *gin.Context, users []*user.User) ([]TaskResp, error) {
	workTypes, err := a.catalog.ListWorkTypes(ctx, nil)
	if err != nil {
		return nil, err
	}
	scheduleTypes, err := a.catalog.ListScheduleTypes(ctx)
	if err != nil {
		return nil, err
	}
	workNames := lo.SliceToMap(workTypes, func(w *catalog.WorkType) (uint64, string) { return w.ID, w.TypeName })
	scheduleNames := lo.SliceToMap(scheduleTypes, func(s *catalog.WorkScheduleType) (uint64, string) { return s.ID, s.TypeName })

	out := make([]TaskResp, 0)
	for _, u := range users {
		clocks, schedules, err := a.tasks.ListByUser(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		for _, c := range clocks {
			out = append(out, TaskResp{
				UserID:   u.ID,
				Email:    u.Email,
				RunType:  c.Key.RunType,
				RunDate:  c.Key.RunDate.Format(time.DateOnly),
				RunTime:  c.RunTime,
				TypeName: workNames[c.WorkTypeID],
				Applied:  c.Applied,
				Active:   c.Active,
			})
		}
		for _, s := range schedules {
			out = append(out, TaskResp{
				UserID:    u.ID,
				Email:     u.Email,
				RunType:   s.Key.RunType,
				RunDate:   s.Key.RunDate.Format(time.DateOnly),
				RunTime:   s.RunTime,
				TypeName:  scheduleNames[s.ScheduleTypeID],
				ApplyDate: s.ApplyDate.Format(time.DateOnly),
				Applied:   s.Applied,
				Active:    s.Active,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RunTime.Before(out[j].RunTime) })
	return out, nil
}

func (a *TaskAPI) Patch(ctx *gin.Context, req PatchTaskReq) (TaskResp, error) {
	runDate, err := time.Parse(time.DateOnly, req.RunDate)
	if err != nil {
		return TaskResp{}, errors.Wrapf(errors.ErrInvalidArgument, "run_date %q", req.RunDate)
	}
	key := task.Key{UserID: req.UserID, RunType: req.RunType, RunDate: runDate}
	update := &task.UpdateRequest{
		RunTime: mo.PointerToOption(req.RunTime),
		Active:  mo.PointerToOption(req.Active),
		Applied: mo.PointerToOption(req.Applied),
	}
	if err := a.tasks.Update(ctx, key, update); err != nil {
		return TaskResp{}, err
	}
	a.logger.Info("task updated by operator", zap.String("key", key.String()))

	u, err := a.users.GetByID(ctx, req.UserID)
	if err != nil {
		return TaskResp{}, err
	}
	if u == nil {
		return TaskResp{}, errors.Wrapf(errors.ErrNotFound, "user %d", req.UserID)
	}
	all, err := a.list(ctx, []*user.User{u})
	if err != nil {
		return TaskResp{}, err
	}
	found, ok := lo.Find(all, func(t TaskResp) bool {
		return t.RunType == req.RunType && t.RunDate == req.RunDate
	})
	if !ok {
		return TaskResp{}, errors.Wrapf(errors.ErrNotFound, "task %s", key)
	}
	return found, nil
}

func (a *TaskAPI) Purge(ctx *gin.Context, req ListTasksReq) (PurgeTasksResp, error) {
	users, err := a.selectUsers(ctx, req.Email)
	if err != nil {
		return PurgeTasksResp{}, err
	}
	var userID uint64
	if req.Email != "" {
		userID = users[0].ID
	}
	purged, err := a.tasks.PurgePast(ctx, userID)
	if err != nil {
		return PurgeTasksResp{}, err
	}
	a.logger.Info("past tasks purged", zap.String("email", req.Email), zap.Int64("rows", purged))

	remaining, err := a.list(ctx, users)
	if err != nil {
		return PurgeTasksResp{}, err
	}
	return PurgeTasksResp{Purged: purged, Tasks: remaining}, nil
}

func (a *TaskAPI) Build(ctx *gin.Context) (BuildResp, error) {
	result, err := a.builder.BuildTasks(ctx)
	if err != nil {
		return BuildResp{}, err
	}
	return BuildResp{ClockInserted: result.ClockInserted, ScheduleInserted: result.ScheduleInserted}, nil
}
