package orm

import (
	"database/sql"
	"embed"

	"github.com/autoclock/scheduler/pkg/errors"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/postgres/*.sql migrations/mysql/*.sql
var migrationsFS embed.FS

// RunMigrations 应用所有未执行的迁移
func RunMigrations(db *sql.DB, driver string, logger *zap.Logger) error {
	source, err := iofs.New(migrationsFS, "migrations/"+driver)
	if err != nil {
		return errors.Wrap(err, "failed to load migrations")
	}

	var target database.Driver
	switch driver {
	case "postgres":
		target, err = postgres.WithInstance(db, &postgres.Config{})
	case "mysql":
		target, err = mysql.WithInstance(db, &mysql.Config{})
	default:
		return errors.Wrapf(errors.ErrInvalidArgument, "migrations for driver %q", driver)
	}
	if err != nil {
		return errors.Wrap(err, "failed to create migration driver")
	}

	m, err := migrate.NewWithInstance("iofs", source, driver, target)
	if err != nil {
		return errors.Wrap(err, "failed to init migrations")
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "failed to apply migrations")
	}

	version, dirty, _ := m.Version()
	if dirty {
		logger.Warn("database migration is dirty", zap.Uint("version", version))
	} else {
		logger.Info("database migrated", zap.Uint("version", version))
	}
	return nil
}
