package catalogrepo

import (
	"context"

	domain "github.com/autoclock/scheduler/internal/biz/catalog"
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

func (r *RepositoryImpl) GetWorkType(ctx context.Context, id uint64) (*domain.WorkType, error) {
	var po WorkTypePo
	if err := r.Db(ctx).Where("id = ?", id).First(&po).Error; err != nil {
		return nil, commonrepo.IgnoreNotFound(err)
	}
	return po.ToDomain(), nil
}

func (r *RepositoryImpl) GetWorkTypeByName(ctx context.Context, name string) (*domain.WorkType, error) {
	var po WorkTypePo
	if err := r.Db(ctx).Where("type_name = ?", name).First(&po).Error; err != nil {
		return nil, commonrepo.IgnoreNotFound(err)
	}
	return po.ToDomain(), nil
}

func (r *RepositoryImpl) ListWorkTypes(ctx context.Context, filter *domain.WorkTypeFilter) ([]*domain.WorkType, error) {
	var pos []*WorkTypePo
	query := r.Db(ctx).Order("id")
	if filter != nil {
		if rt, ok := filter.RunType.Get(); ok {
			query = query.Where("run_type = ?", string(rt))
		}
	}
	if err := query.Find(&pos).Error; err != nil {
		return nil, errors.WithStack(err)
	}
	return lo.Map(pos, func(po *WorkTypePo, _ int) *domain.WorkType {
		return po.ToDomain()
	}), nil
}

// SaveWorkType 按类型名插入或覆盖
func (r *RepositoryImpl) SaveWorkType(ctx context.Context, w *domain.WorkType) error {
	if !w.RunType.Valid() {
		return errors.Wrapf(errors.ErrInvalidArgument, "run type %q", string(w.RunType))
	}
	if w.ID == 0 {
		w.ID = commonrepo.NextID()
	}
	po := new(WorkTypePo).FromDomain(w)
	err := r.Db(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "type_name"}},
		DoUpdates: clause.AssignmentColumns([]string{"run_type", "run_time", "gps", "updated_at"}),
	}).Create(po).Error
	if err != nil {
		return errors.WithStack(err)
	}
	// 冲突时保留原有 ID
	saved, err := r.GetWorkTypeByName(ctx, w.TypeName)
	if err != nil {
		return err
	}
	if saved != nil {
		w.ID = saved.ID
	}
	return nil
}

func (r *RepositoryImpl) GetScheduleType(ctx context.Context, id uint64) (*domain.WorkScheduleType, error) {
	var po WorkScheduleTypePo
	if err := r.Db(ctx).Where("id = ?", id).First(&po).Error; err != nil {
		return nil, commonrepo.IgnoreNotFound(err)
	}
	return po.ToDomain(), nil
}

func (r *RepositoryImpl) GetScheduleTypeByName(ctx context.Context, name string) (*domain.WorkScheduleType, error) {
	var po WorkScheduleTypePo
	if err := r.Db(ctx).Where("type_name = ?", name).First(&po).Error; err != nil {
		return nil, commonrepo.IgnoreNotFound(err)
	}
	return po.ToDomain(), nil
}

func (r *RepositoryImpl) ListScheduleTypes(ctx context.Context) ([]*domain.WorkScheduleType, error) {
	var pos []*WorkScheduleTypePo
	if err := r.Db(ctx).Order("id").Find(&pos).Error; err != nil {
		return nil, errors.WithStack(err)
	}
	return lo.Map(pos, func(po *WorkScheduleTypePo, _ int) *domain.WorkScheduleType {
		return po.ToDomain()
	}), nil
}

func (r *RepositoryImpl) SaveScheduleType(ctx context.Context, s *domain.WorkScheduleType) error {
	if !s.ClockType.Valid() {
		return errors.Wrapf(errors.ErrInvalidArgument, "clock type %q", string(s.ClockType))
	}
	if s.ID == 0 {
		s.ID = commonrepo.NextID()
	}
	po := new(WorkScheduleTypePo).FromDomain(s)
	err := r.Db(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "type_name"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"memo", "workday", "telework", "clock_type",
			"clockin", "clockout", "breakin", "breakout", "msg", "updated_at",
		}),
	}).Create(po).Error
	if err != nil {
		return errors.WithStack(err)
	}
	saved, err := r.GetScheduleTypeByName(ctx, s.TypeName)
	if err != nil {
		return err
	}
	if saved != nil {
		s.ID = saved.ID
	}
	return nil
}
