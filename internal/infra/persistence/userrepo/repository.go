package userrepo

import (
	"context"

	domain "github.com/autoclock/scheduler/internal/biz/user"
	"github.com/autoclock/scheduler/internal/infra/persistence/commonrepo"
	"github.com/autoclock/scheduler/pkg/errors"
	"github.com/google/wire"
	"github.com/samber/lo"
	"gorm.io/gorm/clause"
)

var Provider = wire.NewSet(NewRepositoryImpl)

type RepositoryImpl struct {
	commonrepo.DefaultRepo
}

func NewRepositoryImpl(db commonrepo.DB) domain.Repo {
	return &RepositoryImpl{DefaultRepo: commonrepo.NewDefaultRepo(db)}
}

func (r *RepositoryImpl) GetByID(ctx context.Context, id uint64) (*domain.User, error) {
	var po UserPo
	if err := r.Db(ctx).Where("id = ?", id).First(&po).Error; err != nil {
		return nil, commonrepo.IgnoreNotFound(err)
	}
	return po.ToDomain(), nil
}

func (r *RepositoryImpl) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var po UserPo
	if err := r.Db(ctx).Where("email = ?", email).First(&po).Error; err != nil {
		return nil, commonrepo.IgnoreNotFound(err)
	}
	return po.ToDomain(), nil
}

func (r *RepositoryImpl) List(ctx context.Context) ([]*domain.User, error) {
	var pos []*UserPo
	if err := r.Db(ctx).Order("id").Find(&pos).Error; err != nil {
		return nil, errors.WithStack(err)
	}
	return lo.Map(pos, func(po *UserPo, _ int) *domain.User {
		return po.ToDomain()
	}), nil
}

// Upsert 邮箱已存在时只更新密码与备注
func (r *RepositoryImpl) Upsert(ctx context.Context, u *domain.User) (*domain.User, error) {
	if u.ID == 0 {
		u.ID = commonrepo.NextID()
	}
	po := new(UserPo).FromDomain(u)
	err := r.Db(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"password", "memo", "updated_at"}),
	}).Create(po).Error
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return r.GetByEmail(ctx, u.Email)
}

func (r *RepositoryImpl) Delete(ctx context.Context, id uint64) error {
	return commonrepo.MustAffect(r.Db(ctx).Where("id = ?", id).Delete(&UserPo{}), "user %d", id)
}
