//go:build wireinject
// +build wireinject

package main

//go:generate go run -mod=mod github.com/google/wire/cmd/wire

import (
	"github.com/autoclock/scheduler/internal/api"
	"github.com/autoclock/scheduler/internal/biz/task"
	"github.com/autoclock/scheduler/internal/browser"
	"github.com/autoclock/scheduler/internal/clocker"
	"github.com/autoclock/scheduler/internal/holiday"
	"github.com/autoclock/scheduler/internal/infra/persistence/catalogrepo"
	"github.com/autoclock/scheduler/internal/infra/persistence/commonrepo"
	"github.com/autoclock/scheduler/internal/infra/persistence/leaserepo"
	"github.com/autoclock/scheduler/internal/infra/persistence/policyrepo"
	"github.com/autoclock/scheduler/internal/infra/persistence/taskrepo"
	"github.com/autoclock/scheduler/internal/infra/persistence/userrepo"
	"github.com/autoclock/scheduler/internal/orm"
	"github.com/autoclock/scheduler/internal/scheduler"
	"github.com/autoclock/scheduler/pkg/config"
	"github.com/google/wire"
	"go.uber.org/zap"
)

func InitializeApp(cfg *config.Config, logger *zap.Logger, storage *orm.Storage) (*App, error) {
	wire.Build(
		NewApp,
		ProvideRedisClient,

		wire.Bind(new(api.Pinger), new(*orm.Storage)),
		wire.Bind(new(holiday.Oracle), new(*holiday.CabinetOfficeOracle)),
		wire.Bind(new(browser.Launcher), new(*browser.ChromeLauncher)),

		// other
		scheduler.Provider,
		holiday.NewCabinetOfficeOracle,
		browser.NewChromeLauncher,
		clocker.NewRunner,

		// http api providers
		api.Provider,

		// biz providers
		task.NewUsecase,

		// infra providers
		orm.ProvideDB,
		commonrepo.Provider,
		userrepo.Provider,
		catalogrepo.Provider,
		policyrepo.Provider,
		taskrepo.Provider,
		leaserepo.Provider,
	)
	return nil, nil
}
