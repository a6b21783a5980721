package commonrepo_test

import (
	"context"
	"testing"

	"github.com/autoclock/scheduler/internal/biz/policy"
	"github.com/autoclock/scheduler/internal/biz/user"
	"github.com/autoclock/scheduler/internal/infra/persistence/commonrepo"
	"github.com/autoclock/scheduler/internal/infra/persistence/policyrepo"
	"github.com/autoclock/scheduler/internal/infra/persistence/userrepo"
	"github.com/autoclock/scheduler/internal/orm/ormtest"
	"github.com/autoclock/scheduler/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute_Commit(t *testing.T) {
	db := ormtest.NewSQLite(t)
	tx := commonrepo.NewTransaction(db)
	users := userrepo.NewRepositoryImpl(db)
	policies := policyrepo.NewRepositoryImpl(db)
	ctx := context.Background()

	err := tx.Execute(ctx, func(ctx context.Context) error {
		u, err := users.Upsert(ctx, &user.User{Email: "a@example.com", Password: "secret"})
		if err != nil {
			return err
		}
		return policies.Save(ctx, &policy.UserPolicy{UserID: u.ID})
	})
	require.NoError(t, err)

	u, err := users.GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	p, err := policies.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.NotNil(t, p)
}

func TestExecute_RollbackOnError(t *testing.T) {
	db := ormtest.NewSQLite(t)
	tx := commonrepo.NewTransaction(db)
	users := userrepo.NewRepositoryImpl(db)
	ctx := context.Background()

	boom := errors.New("boom")
	err := tx.Execute(ctx, func(ctx context.Context) error {
		if _, err := users.Upsert(ctx, &user.User{Email: "a@example.com", Password: "secret"}); err != nil {
			return err
		}
		return boom
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))

	u, err := users.GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Nil(t, u)
}
