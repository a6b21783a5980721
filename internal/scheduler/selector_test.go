package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/autoclock/scheduler/internal/biz/catalog"
	"github.com/autoclock/scheduler/internal/biz/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestSelector(t *testing.T, f *fixture, now time.Time) *Selector {
	s := NewSelector(f.clocks, f.schedules, f.users, f.catalog, zaptest.NewLogger(t))
	s.now = func() time.Time { return now }
	return s
}

func seedClock(t *testing.T, f *fixture, userID uint64, rt catalog.RunType, runTime time.Time) task.Key {
	t.Helper()
	name := clockInType
	if rt == catalog.RunTypeClockOut {
		name = clockOutType
	}
	key := task.Key{UserID: userID, RunType: rt, RunDate: task.DateOf(runTime, time.UTC)}
	n, err := f.clocks.InsertIgnore(context.Background(), []*task.ClockTask{
		task.NewClockTask(key, f.workType(t, name).ID, runTime),
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
	return key
}

func seedSchedule(t *testing.T, f *fixture, userID uint64, runTime, applyDate time.Time) task.Key {
	t.Helper()
	key := task.Key{UserID: userID, RunType: catalog.RunTypeSchedule, RunDate: task.DateOf(runTime, time.UTC)}
	n, err := f.schedules.InsertIgnore(context.Background(), []*task.ScheduleTask{
		task.NewScheduleTask(key, f.scheduleType(t, teleworkType).ID, runTime, applyDate),
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
	return key
}

func TestNextDue_Empty(t *testing.T) {
	f := newFixture(t)
	next, err := newTestSelector(t, f, at(2, 9, 0)).NextDue(context.Background())
	require.NoError(t, err)
	assert.True(t, next.IsAbsent())
}

func TestNextDue_TieGoesToClock(t *testing.T) {
	f := newFixture(t)
	u := f.seedUser(t, "a@example.com", teleworkType)
	seedClock(t, f, u.ID, catalog.RunTypeClockIn, at(2, 9, 0))
	seedSchedule(t, f, u.ID, at(2, 9, 0), at(3, 0, 0))

	next, err := newTestSelector(t, f, at(2, 9, 1)).NextDue(context.Background())
	require.NoError(t, err)
	d, ok := next.Get()
	require.True(t, ok)
	assert.Equal(t, task.KindClockIn, d.Kind)
	assert.Equal(t, u.Email, d.User.Email)
	require.NotNil(t, d.WorkType)
	assert.Equal(t, clockInType, d.WorkType.TypeName)
	assert.Nil(t, d.ScheduleType)
}

func TestNextDue_EarlierScheduleWins(t *testing.T) {
	f := newFixture(t)
	u := f.seedUser(t, "a@example.com", teleworkType)
	seedClock(t, f, u.ID, catalog.RunTypeClockIn, at(2, 9, 3))
	seedSchedule(t, f, u.ID, at(2, 9, 2), at(3, 0, 0))

	next, err := newTestSelector(t, f, at(2, 9, 5)).NextDue(context.Background())
	require.NoError(t, err)
	d, ok := next.Get()
	require.True(t, ok)
	assert.Equal(t, task.KindApplyTelework, d.Kind)
	require.NotNil(t, d.ScheduleType)
	assert.Equal(t, teleworkType, d.ScheduleType.TypeName)
	assert.Equal(t, "2026-02-03", d.ApplyDate.Format(time.DateOnly))
}

func TestNextDue_NotYetDue(t *testing.T) {
	f := newFixture(t)
	u := f.seedUser(t, "a@example.com", teleworkType)
	seedClock(t, f, u.ID, catalog.RunTypeClockOut, at(2, 18, 0))

	s := newTestSelector(t, f, at(2, 17, 59))
	next, err := s.NextDue(context.Background())
	require.NoError(t, err)
	assert.True(t, next.IsAbsent())

	peek, err := s.Peek(context.Background())
	require.NoError(t, err)
	d, ok := peek.Get()
	require.True(t, ok)
	assert.Equal(t, task.KindClockOut, d.Kind)
}

func TestNextDue_SkipsInactiveAndClaimed(t *testing.T) {
	f := newFixture(t)
	u := f.seedUser(t, "a@example.com", teleworkType)
	ctx := context.Background()
	inactive := seedClock(t, f, u.ID, catalog.RunTypeClockIn, at(2, 9, 0))
	claimed := seedSchedule(t, f, u.ID, at(2, 9, 1), at(3, 0, 0))
	seedClock(t, f, u.ID, catalog.RunTypeClockOut, at(2, 18, 0))

	require.NoError(t, f.clocks.Update(ctx, inactive, task.NewPatch().WithActive(false)))
	require.NoError(t, f.schedules.UpdateStatus(ctx, claimed, task.StatusPending, task.StatusRunning))

	next, err := newTestSelector(t, f, at(2, 19, 0)).NextDue(ctx)
	require.NoError(t, err)
	d, ok := next.Get()
	require.True(t, ok)
	assert.Equal(t, task.KindClockOut, d.Kind)
}
