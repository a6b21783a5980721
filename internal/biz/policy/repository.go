package policy

import "context"

type Repo interface {
	Get(ctx context.Context, userID uint64) (*UserPolicy, error)
	List(ctx context.Context) ([]*UserPolicy, error)
	// ListReady 只返回三项选择都非空的策略
	ListReady(ctx context.Context) ([]*UserPolicy, error)
	Save(ctx context.Context, p *UserPolicy) error
}
