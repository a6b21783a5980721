package userrepo_test

import (
	"context"
	"testing"

	"github.com/autoclock/scheduler/internal/biz/user"
	"github.com/autoclock/scheduler/internal/infra/persistence/userrepo"
	"github.com/autoclock/scheduler/internal/orm/ormtest"
	"github.com/autoclock/scheduler/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsert(t *testing.T) {
	ctx := context.Background()
	repo := userrepo.NewRepositoryImpl(ormtest.NewSQLite(t))

	created, err := repo.Upsert(ctx, &user.User{Email: "a@example.com", Password: "p1", Memo: "first"})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	updated, err := repo.Upsert(ctx, &user.User{Email: "a@example.com", Password: "p2", Memo: "second"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "p2", updated.Password)
	assert.Equal(t, "second", updated.Memo)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestGetMissing(t *testing.T) {
	ctx := context.Background()
	repo := userrepo.NewRepositoryImpl(ormtest.NewSQLite(t))

	u, err := repo.GetByID(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, u)

	u, err = repo.GetByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	repo := userrepo.NewRepositoryImpl(ormtest.NewSQLite(t))

	u, err := repo.Upsert(ctx, &user.User{Email: "a@example.com", Password: "p"})
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, u.ID))

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	err = repo.Delete(ctx, u.ID)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}
