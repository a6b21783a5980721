// Package ormtest opens throwaway SQLite stores for repository tests.
package ormtest

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/autoclock/scheduler/internal/orm"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var seq atomic.Int64

// NewSQLite 每次调用得到独立的内存库，表结构由 AutoMigrate 生成
func NewSQLite(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:autoclock_%d?mode=memory&cache=shared&_foreign_keys=1", seq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(orm.Models()...))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
