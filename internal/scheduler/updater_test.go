package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/autoclock/scheduler/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type countingBuilder struct {
	builds atomic.Int32
	err    error
}

func (b *countingBuilder) BuildTasks(context.Context) (BuildResult, error) {
	b.builds.Add(1)
	return BuildResult{ClockInserted: 1}, b.err
}

func newTestBuilderLoop(t *testing.T, locker *fakeLocker, builder TaskBuilder) *BuilderLoop {
	t.Helper()
	l, err := NewBuilderLoop(testConfig(), locker, builder, zaptest.NewLogger(t))
	require.NoError(t, err)
	l.offset = func() time.Duration { return 3 * time.Minute }
	l.now = func() time.Time { return at(2, 10, 0) }
	return l
}

func TestBuilderLoop_NextRun(t *testing.T) {
	l := newTestBuilderLoop(t, &fakeLocker{}, &countingBuilder{})
	assert.Equal(t, at(3, 0, 3), l.NextRun(at(2, 10, 0)))
	assert.Equal(t, at(3, 0, 3), l.NextRun(at(2, 23, 59)))
	assert.Equal(t, at(4, 0, 3), l.NextRun(at(3, 0, 0)))
}

func TestNewBuilderLoop_InvalidSchedule(t *testing.T) {
	cfg := testConfig()
	cfg.Scheduler.BuildSchedule = "every day"
	_, err := NewBuilderLoop(cfg, &fakeLocker{}, &countingBuilder{}, zaptest.NewLogger(t))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidArgument))
}

func TestBuilderLoop_BuildsOnStartAndWaitsInSlices(t *testing.T) {
	locker := &fakeLocker{}
	builder := &countingBuilder{}
	l := newTestBuilderLoop(t, locker, builder)

	ctx, cancel := context.WithCancel(context.Background())
	var sleeps []time.Duration
	l.sleep = func(ctx context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		if len(sleeps) == 3 {
			cancel()
		}
		return ctx.Err()
	}

	require.NoError(t, l.Run(ctx))
	assert.Equal(t, int32(1), builder.builds.Load())
	assert.Equal(t, []time.Duration{5 * time.Second, 5 * time.Second, 5 * time.Second}, sleeps)
	assert.Equal(t, 2, locker.renews)
	assert.Equal(t, 1, locker.releases)
}

func TestBuilderLoop_BuildsWhenDue(t *testing.T) {
	builder := &countingBuilder{err: errors.ErrStaleHolidayData}
	l := newTestBuilderLoop(t, &fakeLocker{}, builder)
	l.onStart = false

	ctx, cancel := context.WithCancel(context.Background())
	clock := at(2, 23, 59)
	l.now = func() time.Time { return clock }
	l.sleep = func(ctx context.Context, d time.Duration) error {
		clock = clock.Add(d)
		if builder.builds.Load() > 0 {
			cancel()
		}
		return ctx.Err()
	}

	require.NoError(t, l.Run(ctx))
	assert.Equal(t, int32(1), builder.builds.Load())
}

func TestBuilderLoop_LeaseLost(t *testing.T) {
	builder := &countingBuilder{}
	l := newTestBuilderLoop(t, &fakeLocker{renewErr: errors.ErrLeaseLost}, builder)
	l.onStart = false
	l.sleep = func(ctx context.Context, _ time.Duration) error { return ctx.Err() }

	require.NoError(t, l.Run(context.Background()))
	assert.Zero(t, builder.builds.Load())
}

func TestKeeperHold_RenewsEachSlice(t *testing.T) {
	locker := &fakeLocker{}
	var sleeps []time.Duration
	k := &keeper{
		locker: locker,
		slice:  5 * time.Second,
		sleep: func(_ context.Context, d time.Duration) error {
			sleeps = append(sleeps, d)
			return nil
		},
		logger: zaptest.NewLogger(t),
	}

	require.NoError(t, k.hold(context.Background(), 12*time.Second))
	assert.Equal(t, []time.Duration{5 * time.Second, 5 * time.Second, 2 * time.Second}, sleeps)
	assert.Equal(t, 3, locker.renews)

	sleeps = nil
	require.NoError(t, k.hold(context.Background(), -time.Second))
	assert.Equal(t, []time.Duration{0}, sleeps)
	assert.Equal(t, 4, locker.renews)
}
