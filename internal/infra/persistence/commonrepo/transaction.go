package commonrepo

import (
	"context"

	"github.com/autoclock/scheduler/pkg/errors"
	"github.com/google/wire"
	"gorm.io/gorm"
)

var Provider = wire.NewSet(NewTransaction)

// Transaction fn 内的仓储调用通过 ctx 共享同一个事务，fn 返回错误时整体回滚
type Transaction interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
}

func NewTransaction(db DB) Transaction {
	r := NewDefaultRepo(db)
	return &r
}

type dbContextKey struct{}

type DefaultRepo struct {
	db DB
}

func NewDefaultRepo(db DB) DefaultRepo {
	return DefaultRepo{db: db}
}

// Execute 在事务中执行 fn，fn 内通过 ctx 取到同一个事务
func (r *DefaultRepo) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.Db(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, dbContextKey{}, tx))
	})
}

func (r *DefaultRepo) dbFromContext(ctx context.Context) DB {
	if tx, ok := ctx.Value(dbContextKey{}).(*gorm.DB); ok {
		return tx
	}
	return r.db
}

func (r *DefaultRepo) Db(ctx context.Context) DB {
	return r.dbFromContext(ctx).WithContext(ctx)
}

// MustAffect 把未命中任何行的写操作转为 ErrNotFound
func MustAffect(tx *gorm.DB, format string, args ...any) error {
	if tx.Error != nil {
		return errors.WithStack(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return errors.Wrapf(errors.ErrNotFound, format, args...)
	}
	return nil
}

// IgnoreNotFound gorm 的未找到转为 nil，其余错误带栈返回
func IgnoreNotFound(err error) error {
	if err == nil || errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return errors.WithStack(err)
}
