package taskrepo

import (
	"context"
	"time"

	domain "github.com/autoclock/scheduler/internal/biz/task"
	"github.com/autoclock/scheduler/internal/infra/persistence/commonrepo"
	"github.com/autoclock/scheduler/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm/clause"
)

// queue 两个任务表共用的行级操作，P 为持久化对象
type queue[P any] struct {
	commonrepo.DefaultRepo
}

const keyCond = "user_id = ? AND run_type = ? AND run_date = ?"

func keyArgs(key domain.Key) []any {
	return []any{key.UserID, string(key.RunType), datatypes.Date(key.RunDate)}
}

func (q *queue[P]) insertIgnore(ctx context.Context, pos []*P) (int64, error) {
	if len(pos) == 0 {
		return 0, nil
	}
	tx := q.Db(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(pos)
	if tx.Error != nil {
		return 0, errors.WithStack(tx.Error)
	}
	return tx.RowsAffected, nil
}

func (q *queue[P]) nextPending(ctx context.Context) (*P, error) {
	var pos []*P
	err := q.Db(ctx).
		Where("active = ? AND applied = ?", true, string(domain.StatusPending)).
		Order("run_time ASC").
		Limit(1).
		Find(&pos).Error
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if len(pos) == 0 {
		return nil, nil
	}
	return pos[0], nil
}

func (q *queue[P]) get(ctx context.Context, key domain.Key) (*P, error) {
	po := new(P)
	if err := q.Db(ctx).Where(keyCond, keyArgs(key)...).First(po).Error; err != nil {
		return nil, commonrepo.IgnoreNotFound(err)
	}
	return po, nil
}

func (q *queue[P]) updateStatus(ctx context.Context, key domain.Key, from, to domain.Status) error {
	tx := q.Db(ctx).Model(new(P)).
		Where(keyCond, keyArgs(key)...).
		Where("applied = ?", string(from)).
		Update("applied", string(to))
	return commonrepo.MustAffect(tx, "task %s in status %s", key, from)
}

func (q *queue[P]) update(ctx context.Context, key domain.Key, patch *domain.Patch) error {
	tx := q.Db(ctx).Model(new(P)).
		Where(keyCond, keyArgs(key)...).
		Updates(patchToMap(patch))
	return commonrepo.MustAffect(tx, "task %s", key)
}

func (q *queue[P]) listByUser(ctx context.Context, userID uint64) ([]*P, error) {
	var pos []*P
	if err := q.Db(ctx).Where("user_id = ?", userID).Order("run_time ASC").Find(&pos).Error; err != nil {
		return nil, errors.WithStack(err)
	}
	return pos, nil
}

func (q *queue[P]) purgeBefore(ctx context.Context, userID uint64, before time.Time) (int64, error) {
	query := q.Db(ctx).Where("run_time < ?", before)
	if userID != 0 {
		query = query.Where("user_id = ?", userID)
	}
	tx := query.Delete(new(P))
	if tx.Error != nil {
		return 0, errors.WithStack(tx.Error)
	}
	return tx.RowsAffected, nil
}
