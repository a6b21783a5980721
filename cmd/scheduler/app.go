package main

import (
	"github.com/autoclock/scheduler/internal/api"
	"github.com/autoclock/scheduler/internal/biz/task"
	"github.com/autoclock/scheduler/internal/biz/user"
	"github.com/autoclock/scheduler/internal/orm"
	"github.com/autoclock/scheduler/internal/scheduler"
	"github.com/autoclock/scheduler/pkg/config"
	"go.uber.org/zap"
)

// App 一个进程内的全部组件
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Storage   *orm.Storage
	Scheduler *scheduler.Scheduler
	Server    *api.Server
	Builder   *scheduler.Builder
	Tasks     *task.Usecase
	Users     user.Repo
}

func NewApp(
	cfg *config.Config,
	logger *zap.Logger,
	storage *orm.Storage,
	sched *scheduler.Scheduler,
	server *api.Server,
	builder *scheduler.Builder,
	tasks *task.Usecase,
	users user.Repo,
) *App {
	return &App{
		Config:    cfg,
		Logger:    logger,
		Storage:   storage,
		Scheduler: sched,
		Server:    server,
		Builder:   builder,
		Tasks:     tasks,
		Users:     users,
	}
}
