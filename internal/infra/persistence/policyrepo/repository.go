package policyrepo

import (
	"context"

	domain "github.com/autoclock/scheduler/internal/biz/policy"
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

func (r *RepositoryImpl) Get(ctx context.Context, userID uint64) (*domain.UserPolicy, error) {
	var po BasicTypePo
	if err := r.Db(ctx).Where("user_id = ?", userID).First(&po).Error; err != nil {
		return nil, commonrepo.IgnoreNotFound(err)
	}
	return po.ToDomain(), nil
}

func (r *RepositoryImpl) List(ctx context.Context) ([]*domain.UserPolicy, error) {
	var pos []*BasicTypePo
	if err := r.Db(ctx).Order("user_id").Find(&pos).Error; err != nil {
		return nil, errors.WithStack(err)
	}
	return toDomains(pos), nil
}

func (r *RepositoryImpl) ListReady(ctx context.Context) ([]*domain.UserPolicy, error) {
	var pos []*BasicTypePo
	err := r.Db(ctx).
		Where("clockin_type_name IS NOT NULL AND clockin_type_name <> ''").
		Where("clockout_type_name IS NOT NULL AND clockout_type_name <> ''").
		Where("schedule_type_name IS NOT NULL AND schedule_type_name <> ''").
		Order("user_id").
		Find(&pos).Error
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return toDomains(pos), nil
}

// Save 按 user_id 插入或覆盖全部选择
func (r *RepositoryImpl) Save(ctx context.Context, p *domain.UserPolicy) error {
	po := new(BasicTypePo).FromDomain(p)
	err := r.Db(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"clockin_type_name", "clockout_type_name", "schedule_type_name", "updated_at",
		}),
	}).Create(po).Error
	return errors.WithStack(err)
}

func toDomains(pos []*BasicTypePo) []*domain.UserPolicy {
	return lo.Map(pos, func(po *BasicTypePo, _ int) *domain.UserPolicy {
		return po.ToDomain()
	})
}
