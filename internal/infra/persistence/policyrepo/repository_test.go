package policyrepo_test

import (
	"context"
	"testing"

	"github.com/autoclock/scheduler/internal/biz/policy"
	"github.com/autoclock/scheduler/internal/infra/persistence/policyrepo"
	"github.com/autoclock/scheduler/internal/orm/ormtest"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListReady(t *testing.T) {
	ctx := context.Background()
	repo := policyrepo.NewRepositoryImpl(ormtest.NewSQLite(t))

	require.NoError(t, repo.Save(ctx, &policy.UserPolicy{
		UserID:           1,
		ClockInTypeName:  lo.ToPtr("09:00 出勤"),
		ClockOutTypeName: lo.ToPtr("18:00 退勤"),
		ScheduleTypeName: lo.ToPtr("在宅勤務"),
	}))
	require.NoError(t, repo.Save(ctx, &policy.UserPolicy{
		UserID:           2,
		ClockInTypeName:  lo.ToPtr("09:00 出勤"),
		ClockOutTypeName: lo.ToPtr("18:00 退勤"),
	}))
	require.NoError(t, repo.Save(ctx, &policy.UserPolicy{
		UserID:           3,
		ClockInTypeName:  lo.ToPtr("09:00 出勤"),
		ClockOutTypeName: lo.ToPtr(""),
		ScheduleTypeName: lo.ToPtr("在宅勤務"),
	}))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	ready, err := repo.ListReady(ctx)
	require.NoError(t, err)
	require.Len(t, ready, 1)
	assert.Equal(t, uint64(1), ready[0].UserID)
	assert.True(t, ready[0].Ready())
}

func TestSaveOverwrites(t *testing.T) {
	ctx := context.Background()
	repo := policyrepo.NewRepositoryImpl(ormtest.NewSQLite(t))

	require.NoError(t, repo.Save(ctx, &policy.UserPolicy{UserID: 7, ClockInTypeName: lo.ToPtr("a")}))
	require.NoError(t, repo.Save(ctx, &policy.UserPolicy{UserID: 7, ScheduleTypeName: lo.ToPtr("b")}))

	got, err := repo.Get(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.ClockInTypeName)
	require.NotNil(t, got.ScheduleTypeName)
	assert.Equal(t, "b", *got.ScheduleTypeName)

	missing, err := repo.Get(ctx, 8)
	require.NoError(t, err)
	assert.Nil(t, missing)
}
