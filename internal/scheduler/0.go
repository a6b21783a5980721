package scheduler

import (
	"github.com/autoclock/scheduler/internal/biz/task"
	"github.com/autoclock/scheduler/internal/clocker"
	"github.com/autoclock/scheduler/pkg/config"
	"github.com/google/wire"
	"go.uber.org/zap"
)

var Provider = wire.NewSet(
	New,
	NewBuilder,
	NewSelector,
	NewHolderID,
	NewLockerFactory,
	ProvideRunnerLoop,
	ProvideBuilderLoop,
	wire.Bind(new(TaskBuilder), new(*Builder)),
	wire.Bind(new(DueSource), new(*Selector)),
	wire.Bind(new(Session), new(*clocker.Runner)),
)

var (
	_ TaskBuilder = (*Builder)(nil)
	_ DueSource   = (*Selector)(nil)
	_ Session     = (*clocker.Runner)(nil)
)

func ProvideRunnerLoop(
	cfg *config.Config,
	lockers *LockerFactory,
	source DueSource,
	session Session,
	clocks task.ClockRepo,
	schedules task.ScheduleRepo,
	logger *zap.Logger,
) *RunnerLoop {
	return NewRunnerLoop(cfg, lockers.Runner(), source, session, clocks, schedules, logger)
}

func ProvideBuilderLoop(cfg *config.Config, lockers *LockerFactory, builder TaskBuilder, logger *zap.Logger) (*BuilderLoop, error) {
	return NewBuilderLoop(cfg, lockers.Builder(), builder, logger)
}
