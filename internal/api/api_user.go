package api

import (
	"context"

	"github.com/autoclock/scheduler/internal/biz/policy"
	"github.com/autoclock/scheduler/internal/biz/user"
	"github.com/autoclock/scheduler/internal/infra/persistence/commonrepo"
	"github.com/autoclock/scheduler/pkg/errors"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

type IUserAPI interface {
	// List 用户列表
	// brief=true 时只返回 id 与邮箱
	// @GET(api/users)
	List(ctx *gin.Context, req ListReq) (any, error)

	// Upsert 新增或更新用户
	// 按邮箱插入或更新，新用户在同一事务中创建空的策略行
	// @POST(api/users)
	Upsert(ctx *gin.Context, req UpsertUserReq) (UserResp, error)

	// Delete 删除用户
	// 策略与任务随之级联删除
	// @DELETE(api/users/{id})
	Delete(ctx *gin.Context, id string) (string, error)
}

var _ IUserAPI = (*UserAPI)(nil)

type UserAPI struct {
	tx       commonrepo.Transaction
	users    user.Repo
	policies policy.Repo
	logger   *zap.Logger
}

func NewUserAPI(tx commonrepo.Transaction, users user.Repo, policies policy.Repo, logger *zap.Logger) *UserAPI {
	return &UserAPI{tx: tx, users: users, policies: policies, logger: logger}
}

func (a *UserAPI) List(ctx *gin.Context, req ListReq) (any, error) {
	users, err := a.users.List(ctx)
	if err != nil {
		return nil, err
	}
	if req.Brief {
		return lo.Map(users, func(u *user.User, _ int) BriefResp {
			return BriefResp{ID: u.ID, Name: u.Email}
		}), nil
	}
	return lo.Map(users, func(u *user.User, _ int) UserResp {
		return toUserResp(u)
	}), nil
}

func (a *UserAPI) Upsert(ctx *gin.Context, req UpsertUserReq) (UserResp, error) {
	var u *user.User
	err := a.tx.Execute(ctx, func(ctx context.Context) error {
		var err error
		u, err = a.users.Upsert(ctx, &user.User{
			Email:    req.Email,
			Password: req.Password,
			Memo:     req.Memo,
		})
		if err != nil {
			return err
		}
		existing, err := a.policies.Get(ctx, u.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return nil
		}
		return a.policies.Save(ctx, &policy.UserPolicy{UserID: u.ID})
	})
	if err != nil {
		return UserResp{}, err
	}

	a.logger.Info("user saved", zap.Uint64("user_id", u.ID), zap.String("email", u.Email))
	return toUserResp(u), nil
}

func (a *UserAPI) Delete(ctx *gin.Context, id string) (string, error) {
	userID, err := cast.ToUint64E(id)
	if err != nil || userID == 0 {
		return "", errors.Wrapf(errors.ErrInvalidArgument, "user id %q", id)
	}
	if err := a.users.Delete(ctx, userID); err != nil {
		return "", err
	}
	a.logger.Info("user deleted", zap.Uint64("user_id", userID))
	return "deleted", nil
}
