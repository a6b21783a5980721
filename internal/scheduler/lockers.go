package scheduler

import (
	"github.com/autoclock/scheduler/internal/biz/lease"
	"github.com/autoclock/scheduler/internal/infra/lease/redislease"
	"github.com/autoclock/scheduler/pkg/config"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// HolderID 当前进程持有租约时使用的身份
type HolderID string

func NewHolderID(cfg *config.Config) HolderID {
	return HolderID(lease.NewHolderID(cfg.Scheduler.InstanceID))
}

// LockerFactory 按 lease.backend 创建租约
type LockerFactory struct {
	cfg    *config.Config
	repo   lease.Repo
	redis  *redis.Client
	holder HolderID
	logger *zap.Logger
}

// NewLockerFactory rdb 仅在 redis 后端时使用，可以为 nil
func NewLockerFactory(cfg *config.Config, repo lease.Repo, rdb *redis.Client, holder HolderID, logger *zap.Logger) *LockerFactory {
	return &LockerFactory{cfg: cfg, repo: repo, redis: rdb, holder: holder, logger: logger}
}

func (f *LockerFactory) New(name string) lease.Locker {
	if f.cfg.Lease.Backend == "redis" && f.redis != nil {
		return redislease.NewLocker(f.redis, name, string(f.holder), f.cfg.Lease.TTL, f.logger)
	}
	return NewLocker(f.repo, name, string(f.holder), f.cfg.Lease.TTL, f.logger)
}

func (f *LockerFactory) Runner() lease.Locker {
	return f.New(f.cfg.Lease.RunnerName)
}

func (f *LockerFactory) Builder() lease.Locker {
	return f.New(f.cfg.Lease.BuilderName)
}
