package user

import "context"

type Repo interface {
	GetByID(ctx context.Context, id uint64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	// Upsert 按邮箱插入或更新，返回落库后的用户
	Upsert(ctx context.Context, u *User) (*User, error)
	// Delete 删除用户，外键级联删除其策略与任务
	Delete(ctx context.Context, id uint64) error
}
