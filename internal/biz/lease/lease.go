package lease

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
)

// Lease 某一类循环的独占租约
type Lease struct {
	Name      string
	Holder    string
	ExpiresAt time.Time
	UpdatedAt time.Time
}

func (l Lease) Expired(now time.Time) bool {
	return !now.Before(l.ExpiresAt)
}

// Locker 单实例租约。Acquire 失败返回 ErrLeaseHeld，Renew 发现被接管返回 ErrLeaseLost。
// 外部删除或改写租约即为停止信号。
type Locker interface {
	Acquire(ctx context.Context) error
	Renew(ctx context.Context) error
	Release(ctx context.Context) error
	Name() string
	Holder() string
}

// Repo 数据库后端的租约存储
type Repo interface {
	Get(ctx context.Context, name string) (*Lease, error)
	// TryAcquire 行不存在则插入；否则仅当持有者相同或已过期时改写，返回是否拿到
	TryAcquire(ctx context.Context, name, holder string, ttl time.Duration, now time.Time) (bool, error)
	// Extend 仅当持有者仍为 holder 时延长，返回是否命中
	Extend(ctx context.Context, name, holder string, ttl time.Duration, now time.Time) (bool, error)
	Delete(ctx context.Context, name, holder string) error
}

// NewHolderID 进程身份 <instance_id>/<pid>/<uuid>
func NewHolderID(instanceID string) string {
	return fmt.Sprintf("%s/%d/%s", instanceID, os.Getpid(), uuid.NewString())
}
