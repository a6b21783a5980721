package main

import (
	"encoding/json"
	"fmt"

	"github.com/autoclock/scheduler/internal/orm"
	"github.com/autoclock/scheduler/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Generate tasks for the coming workdays once",
	Long: `Generate clock and schedule tasks for every ready user policy over the
configured horizon. Existing tasks are left untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, cleanup, err := openApp()
		if err != nil {
			return err
		}
		defer cleanup()

		result, err := app.Builder.BuildTasks(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd, result)
	},
}

var purgeEmail string

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete tasks whose run time has passed",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, cleanup, err := openApp()
		if err != nil {
			return err
		}
		defer cleanup()

		var userID uint64
		if purgeEmail != "" {
			u, err := app.Users.GetByEmail(cmd.Context(), purgeEmail)
			if err != nil {
				return err
			}
			if u == nil {
				return errors.Wrapf(errors.ErrNotFound, "user %s", purgeEmail)
			}
			userID = u.ID
		}
		n, err := app.Tasks.PurgePast(cmd.Context(), userID)
		if err != nil {
			return err
		}
		app.Logger.Info("past tasks purged", zap.String("email", purgeEmail), zap.Int64("rows", n))
		return printJSON(cmd, map[string]int64{"purged": n})
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, zapLogger, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = zapLogger.Sync() }()

		cfg.Database.Migrate = false
		storage, err := orm.New(cfg, zapLogger)
		if err != nil {
			return err
		}
		defer storage.Close()

		if err := storage.Migrate(zapLogger); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
		return nil
	},
}

func init() {
	purgeCmd.Flags().StringVar(&purgeEmail, "email", "", "only purge tasks of this user")
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
