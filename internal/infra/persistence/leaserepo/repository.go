package leaserepo

import (
	"context"
	"time"

	domain "github.com/autoclock/scheduler/internal/biz/lease"
	"github.com/autoclock/scheduler/internal/infra/persistence/commonrepo"
	"github.com/autoclock/scheduler/pkg/errors"
	"github.com/google/wire"
	"gorm.io/gorm/clause"
)

var Provider = wire.NewSet(NewRepositoryImpl)

type RepositoryImpl struct {
	commonrepo.DefaultRepo
}

func NewRepositoryImpl(db commonrepo.DB) domain.Repo {
	return &RepositoryImpl{DefaultRepo: commonrepo.NewDefaultRepo(db)}
}

func (r *RepositoryImpl) Get(ctx context.Context, name string) (*domain.Lease, error) {
	var po LeasePo
	if err := r.Db(ctx).Where("name = ?", name).First(&po).Error; err != nil {
		return nil, commonrepo.IgnoreNotFound(err)
	}
	return po.ToDomain(), nil
}

// TryAcquire 两步均为单条语句，并发实例之间只有一个能命中
func (r *RepositoryImpl) TryAcquire(ctx context.Context, name, holder string, ttl time.Duration, now time.Time) (bool, error) {
	now = now.UTC()
	po := &LeasePo{Name: name, Holder: holder, ExpiresAt: now.Add(ttl)}
	tx := r.Db(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(po)
	if tx.Error != nil {
		return false, errors.WithStack(tx.Error)
	}
	if tx.RowsAffected == 1 {
		return true, nil
	}

	tx = r.Db(ctx).Model(&LeasePo{}).
		Where("name = ? AND (holder = ? OR expires_at < ?)", name, holder, now).
		Updates(map[string]any{"holder": holder, "expires_at": now.Add(ttl)})
	if tx.Error != nil {
		return false, errors.WithStack(tx.Error)
	}
	return tx.RowsAffected > 0, nil
}

func (r *RepositoryImpl) Extend(ctx context.Context, name, holder string, ttl time.Duration, now time.Time) (bool, error) {
	tx := r.Db(ctx).Model(&LeasePo{}).
		Where("name = ? AND holder = ?", name, holder).
		Update("expires_at", now.UTC().Add(ttl))
	if tx.Error != nil {
		return false, errors.WithStack(tx.Error)
	}
	return tx.RowsAffected > 0, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, name, holder string) error {
	err := r.Db(ctx).Where("name = ? AND holder = ?", name, holder).Delete(&LeasePo{}).Error
	return errors.WithStack(err)
}
