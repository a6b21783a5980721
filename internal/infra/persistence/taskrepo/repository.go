package taskrepo

import (
	"context"
	"time"

	domain "github.com/autoclock/scheduler/internal/biz/task"
	"github.com/autoclock/scheduler/internal/infra/persistence/commonrepo"
	"github.com/google/wire"
	"github.com/samber/lo"
)

var Provider = wire.NewSet(NewClockRepositoryImpl, NewScheduleRepositoryImpl)

type ClockRepositoryImpl struct {
	queue[ClockSchedulePo]
}

func NewClockRepositoryImpl(db commonrepo.DB) domain.ClockRepo {
	return &ClockRepositoryImpl{queue[ClockSchedulePo]{commonrepo.NewDefaultRepo(db)}}
}

func (r *ClockRepositoryImpl) InsertIgnore(ctx context.Context, tasks []*domain.ClockTask) (int64, error) {
	return r.insertIgnore(ctx, lo.Map(tasks, func(t *domain.ClockTask, _ int) *ClockSchedulePo {
		return new(ClockSchedulePo).FromDomain(t)
	}))
}

func (r *ClockRepositoryImpl) NextPending(ctx context.Context) (*domain.ClockTask, error) {
	po, err := r.nextPending(ctx)
	if err != nil || po == nil {
		return nil, err
	}
	return po.ToDomain(), nil
}

func (r *ClockRepositoryImpl) UpdateStatus(ctx context.Context, key domain.Key, from, to domain.Status) error {
	return r.updateStatus(ctx, key, from, to)
}

func (r *ClockRepositoryImpl) Get(ctx context.Context, key domain.Key) (*domain.ClockTask, error) {
	po, err := r.get(ctx, key)
	if err != nil || po == nil {
		return nil, err
	}
	return po.ToDomain(), nil
}

func (r *ClockRepositoryImpl) ListByUser(ctx context.Context, userID uint64) ([]*domain.ClockTask, error) {
	pos, err := r.listByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return lo.Map(pos, func(po *ClockSchedulePo, _ int) *domain.ClockTask {
		return po.ToDomain()
	}), nil
}

func (r *ClockRepositoryImpl) Update(ctx context.Context, key domain.Key, patch *domain.Patch) error {
	return r.update(ctx, key, patch)
}

func (r *ClockRepositoryImpl) PurgeBefore(ctx context.Context, userID uint64, before time.Time) (int64, error) {
	return r.purgeBefore(ctx, userID, before)
}

type ScheduleRepositoryImpl struct {
	queue[AppliedSchedulePo]
}

func NewScheduleRepositoryImpl(db commonrepo.DB) domain.ScheduleRepo {
	return &ScheduleRepositoryImpl{queue[AppliedSchedulePo]{commonrepo.NewDefaultRepo(db)}}
}

func (r *ScheduleRepositoryImpl) InsertIgnore(ctx context.Context, tasks []*domain.ScheduleTask) (int64, error) {
	return r.insertIgnore(ctx, lo.Map(tasks, func(t *domain.ScheduleTask, _ int) *AppliedSchedulePo {
		return new(AppliedSchedulePo).FromDomain(t)
	}))
}

func (r *ScheduleRepositoryImpl) NextPending(ctx context.Context) (*domain.ScheduleTask, error) {
	po, err := r.nextPending(ctx)
	if err != nil || po == nil {
		return nil, err
	}
	return po.ToDomain(), nil
}

func (r *ScheduleRepositoryImpl) UpdateStatus(ctx context.Context, key domain.Key, from, to domain.Status) error {
	return r.updateStatus(ctx, key, from, to)
}

func (r *ScheduleRepositoryImpl) Get(ctx context.Context, key domain.Key) (*domain.ScheduleTask, error) {
	po, err := r.get(ctx, key)
	if err != nil || po == nil {
		return nil, err
	}
	return po.ToDomain(), nil
}

func (r *ScheduleRepositoryImpl) ListByUser(ctx context.Context, userID uint64) ([]*domain.ScheduleTask, error) {
	pos, err := r.listByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return lo.Map(pos, func(po *AppliedSchedulePo, _ int) *domain.ScheduleTask {
		return po.ToDomain()
	}), nil
}

func (r *ScheduleRepositoryImpl) Update(ctx context.Context, key domain.Key, patch *domain.Patch) error {
	return r.update(ctx, key, patch)
}

func (r *ScheduleRepositoryImpl) PurgeBefore(ctx context.Context, userID uint64, before time.Time) (int64, error) {
	return r.purgeBefore(ctx, userID, before)
}
