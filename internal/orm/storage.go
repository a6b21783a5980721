package orm

import (
	"time"

	"github.com/autoclock/scheduler/internal/infra/persistence/catalogrepo"
	"github.com/autoclock/scheduler/internal/infra/persistence/commonrepo"
	"github.com/autoclock/scheduler/internal/infra/persistence/leaserepo"
	"github.com/autoclock/scheduler/internal/infra/persistence/policyrepo"
	"github.com/autoclock/scheduler/internal/infra/persistence/taskrepo"
	"github.com/autoclock/scheduler/internal/infra/persistence/userrepo"
	"github.com/autoclock/scheduler/pkg/config"
	"github.com/autoclock/scheduler/pkg/errors"
	pkglogger "github.com/autoclock/scheduler/pkg/logger"
	"github.com/google/wire"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var Provider = wire.NewSet(New, ProvideDB)

type Storage struct {
	db     *gorm.DB
	driver string
}

// Models 全部持久化对象，被引用的表在前
func Models() []any {
	return []any{
		&userrepo.UserPo{},
		&catalogrepo.WorkTypePo{},
		&catalogrepo.WorkScheduleTypePo{},
		&policyrepo.BasicTypePo{},
		&taskrepo.ClockSchedulePo{},
		&taskrepo.AppliedSchedulePo{},
		&leaserepo.LeasePo{},
	}
}

// New 按 database.driver 连接数据库，database.migrate 为 true 时执行迁移
func New(cfg *config.Config, log *zap.Logger) (*Storage, error) {
	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "mysql":
		dialector = mysql.Open(cfg.Database.DSN())
	case "postgres":
		dialector = postgres.Open(cfg.Database.DSN())
	default:
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "database driver %q", cfg.Database.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(pkglogger.GormLevel(cfg.Log.Level)),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get sql.DB")
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxConnections)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConnections)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnectionMaxLifetime)

	s := &Storage{db: db, driver: cfg.Database.Driver}
	if cfg.Database.Migrate {
		if err := s.Migrate(log); err != nil {
			_ = s.Close()
			return nil, err
		}
	}
	return s, nil
}

// NewWithDB 包装已打开的连接，测试使用
func NewWithDB(db *gorm.DB, driver string) *Storage {
	return &Storage{db: db, driver: driver}
}

// Migrate 执行内置的 SQL 迁移，外键级联只在迁移脚本中定义
func (s *Storage) Migrate(log *zap.Logger) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get sql.DB")
	}
	return RunMigrations(sqlDB, s.driver, log)
}

// ProvideDB 仓储层使用的连接
func ProvideDB(s *Storage) commonrepo.DB {
	return s.db
}

func (s *Storage) DB() *gorm.DB {
	return s.db
}

func (s *Storage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Storage) Ping() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
