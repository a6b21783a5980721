package main

import (
	"fmt"
	"os"

	"github.com/autoclock/scheduler/internal/infra/persistence/commonrepo"
	"github.com/autoclock/scheduler/internal/orm"
	"github.com/autoclock/scheduler/pkg/config"
	"github.com/autoclock/scheduler/pkg/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "autoclock",
	Short: "Attendance automation scheduler",
	Long: `autoclock clocks users in and out of the attendance portal and submits
telework schedule applications on their behalf.

Available commands:
  serve   - Run the scheduler loops and the management API
  build   - Generate tasks for the coming workdays once
  purge   - Delete tasks whose run time has passed
  migrate - Apply database migrations`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default ./configs/config.yaml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(purgeCmd)
	rootCmd.AddCommand(migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap 加载配置并创建日志器
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	zapLogger, err := logger.NewFromConfig(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	commonrepo.InitIDGenerator(cfg.Scheduler.WorkerID)
	return cfg, zapLogger, nil
}

// openApp 连接数据库并装配全部组件，返回的 cleanup 关闭连接
func openApp() (*App, func(), error) {
	cfg, zapLogger, err := bootstrap()
	if err != nil {
		return nil, nil, err
	}
	storage, err := orm.New(cfg, zapLogger)
	if err != nil {
		_ = zapLogger.Sync()
		return nil, nil, err
	}
	app, err := InitializeApp(cfg, zapLogger, storage)
	if err != nil {
		_ = storage.Close()
		_ = zapLogger.Sync()
		return nil, nil, err
	}
	cleanup := func() {
		if err := storage.Close(); err != nil {
			zapLogger.Error("failed to close database", zap.Error(err))
		}
		_ = zapLogger.Sync()
	}
	return app, cleanup, nil
}
