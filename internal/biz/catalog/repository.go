package catalog

import (
	"context"

	"github.com/samber/mo"
)

type Repo interface {
	GetWorkType(ctx context.Context, id uint64) (*WorkType, error)
	GetWorkTypeByName(ctx context.Context, name string) (*WorkType, error)
	ListWorkTypes(ctx context.Context, filter *WorkTypeFilter) ([]*WorkType, error)
	SaveWorkType(ctx context.Context, w *WorkType) error

	GetScheduleType(ctx context.Context, id uint64) (*WorkScheduleType, error)
	GetScheduleTypeByName(ctx context.Context, name string) (*WorkScheduleType, error)
	ListScheduleTypes(ctx context.Context) ([]*WorkScheduleType, error)
	SaveScheduleType(ctx context.Context, s *WorkScheduleType) error
}

type WorkTypeFilter struct {
	RunType mo.Option[RunType]
}
