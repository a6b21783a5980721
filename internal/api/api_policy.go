package api

import (
	"github.com/autoclock/scheduler/internal/biz/catalog"
	"github.com/autoclock/scheduler/internal/biz/policy"
	"github.com/autoclock/scheduler/internal/biz/user"
	"github.com/autoclock/scheduler/internal/scheduler"
	"github.com/autoclock/scheduler/pkg/errors"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

type IPolicyAPI interface {
	// List 用户策略列表
	// @GET(api/policies)
	List(ctx *gin.Context) ([]PolicyResp, error)

	// Save 保存用户策略
	// 保存后立即生成任务
	// @POST(api/policies)
	Save(ctx *gin.Context, req SavePolicyReq) (SavePolicyResp, error)
}

var _ IPolicyAPI = (*PolicyAPI)(nil)

type PolicyAPI struct {
	policies policy.Repo
	users    user.Repo
	catalog  catalog.Repo
	builder  scheduler.TaskBuilder
	logger   *zap.Logger
}

func NewPolicyAPI(
	policies policy.Repo,
	users user.Repo,
	catalogRepo catalog.Repo,
	builder scheduler.TaskBuilder,
	logger *zap.Logger,
) *PolicyAPI {
	return &PolicyAPI{
		policies: policies,
		users:    users,
		catalog:  catalogRepo,
		builder:  builder,
		logger:   logger,
	}
}

func (a *PolicyAPI) List(ctx *gin.Context) ([]PolicyResp, error) {
	policies, err := a.policies.List(ctx)
	if err != nil {
		return nil, err
	}
	users, err := a.users.List(ctx)
	if err != nil {
		return nil, err
	}
	emails := lo.SliceToMap(users, func(u *user.User) (uint64, string) { return u.ID, u.Email })
	return lo.Map(policies, func(p *policy.UserPolicy, _ int) PolicyResp {
		return toPolicyResp(p, emails[p.UserID])
	}), nil
}

func (a *PolicyAPI) Save(ctx *gin.Context, req SavePolicyReq) (SavePolicyResp, error) {
	u, err := a.users.GetByID(ctx, req.UserID)
	if err != nil {
		return SavePolicyResp{}, err
	}
	if u == nil {
		return SavePolicyResp{}, errors.Wrapf(errors.ErrNotFound, "user %d", req.UserID)
	}
	if err := a.checkNames(ctx, req); err != nil {
		return SavePolicyResp{}, err
	}

	p := &policy.UserPolicy{
		UserID:           req.UserID,
		ClockInTypeName:  blankToNil(req.ClockInTypeName),
		ClockOutTypeName: blankToNil(req.ClockOutTypeName),
		ScheduleTypeName: blankToNil(req.ScheduleTypeName),
	}
	if err := a.policies.Save(ctx, p); err != nil {
		return SavePolicyResp{}, err
	}

	resp := SavePolicyResp{Policy: toPolicyResp(p, u.Email)}
	result, err := a.builder.BuildTasks(ctx)
	if err != nil {
		a.logger.Error("build after policy save failed", zap.Uint64("user_id", p.UserID), zap.Error(err))
		resp.BuildError = err.Error()
		return resp, nil
	}
	resp.Build = &BuildResp{ClockInserted: result.ClockInserted, ScheduleInserted: result.ScheduleInserted}
	return resp, nil
}

// checkNames 选择的类型名必须存在于目录中且动作匹配
func (a *PolicyAPI) checkNames(ctx *gin.Context, req SavePolicyReq) error {
	for _, sel := range []struct {
		name *string
		want catalog.RunType
	}{
		{req.ClockInTypeName, catalog.RunTypeClockIn},
		{req.ClockOutTypeName, catalog.RunTypeClockOut},
	} {
		if blankToNil(sel.name) == nil {
			continue
		}
		w, err := a.catalog.GetWorkTypeByName(ctx, *sel.name)
		if err != nil {
			return err
		}
		if w == nil || w.RunType != sel.want {
			return errors.Wrapf(errors.ErrInvalidArgument, "%s is not a %s work type", *sel.name, sel.want)
		}
	}
	if name := blankToNil(req.ScheduleTypeName); name != nil {
		s, err := a.catalog.GetScheduleTypeByName(ctx, *name)
		if err != nil {
			return err
		}
		if s == nil {
			return errors.Wrapf(errors.ErrInvalidArgument, "schedule type %s not found", *name)
		}
	}
	return nil
}

func blankToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
