package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/autoclock/scheduler/internal/biz/catalog"
	"github.com/autoclock/scheduler/internal/biz/policy"
	"github.com/autoclock/scheduler/internal/biz/task"
	"github.com/autoclock/scheduler/internal/biz/user"
	"github.com/autoclock/scheduler/internal/clocker"
	"github.com/autoclock/scheduler/internal/holiday"
	"github.com/autoclock/scheduler/internal/infra/persistence/catalogrepo"
	"github.com/autoclock/scheduler/internal/infra/persistence/policyrepo"
	"github.com/autoclock/scheduler/internal/infra/persistence/taskrepo"
	"github.com/autoclock/scheduler/internal/infra/persistence/userrepo"
	"github.com/autoclock/scheduler/internal/orm/ormtest"
	"github.com/autoclock/scheduler/pkg/config"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	clockInType  = "09:00 出勤"
	clockOutType = "18:00 退勤"
	teleworkType = "在宅勤務"
)

func testConfig() *config.Config {
	return &config.Config{
		Scheduler: config.SchedulerConfig{
			InstanceID:        "test",
			PollInterval:      5 * time.Second,
			IdleInterval:      30 * time.Second,
			HorizonDays:       14,
			Jitter:            5 * time.Minute,
			Timezone:          "UTC",
			BuildSchedule:     "0 0 * * *",
			BuildWindow:       10 * time.Minute,
			DefaultSubmitTime: "09:00:00",
		},
		Lease: config.LeaseConfig{
			Backend:           "db",
			TTL:               30 * time.Second,
			RunnerName:        "runner",
			BuilderName:       "builder",
			ReleaseOnShutdown: true,
		},
	}
}

// 2026-02-02 is a Monday.
func at(day, hour, minute int) time.Time {
	return time.Date(2026, time.February, day, hour, minute, 0, 0, time.UTC)
}

type fixture struct {
	db        *gorm.DB
	users     user.Repo
	catalog   catalog.Repo
	policies  policy.Repo
	clocks    task.ClockRepo
	schedules task.ScheduleRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := ormtest.NewSQLite(t)
	f := &fixture{
		db:        db,
		users:     userrepo.NewRepositoryImpl(db),
		catalog:   catalogrepo.NewRepositoryImpl(db),
		policies:  policyrepo.NewRepositoryImpl(db),
		clocks:    taskrepo.NewClockRepositoryImpl(db),
		schedules: taskrepo.NewScheduleRepositoryImpl(db),
	}

	ctx := context.Background()
	require.NoError(t, f.catalog.SaveWorkType(ctx, &catalog.WorkType{
		TypeName: clockInType,
		RunType:  catalog.RunTypeClockIn,
		RunTime:  catalog.MustParseTimeOfDay("09:00:00"),
		GPS:      "35.681,139.767",
	}))
	require.NoError(t, f.catalog.SaveWorkType(ctx, &catalog.WorkType{
		TypeName: clockOutType,
		RunType:  catalog.RunTypeClockOut,
		RunTime:  catalog.MustParseTimeOfDay("18:00:00"),
		GPS:      "35.681,139.767",
	}))
	clockIn := catalog.MustParseTimeOfDay("10:00:00")
	clockOut := catalog.MustParseTimeOfDay("19:00:00")
	require.NoError(t, f.catalog.SaveScheduleType(ctx, &catalog.WorkScheduleType{
		TypeName:  teleworkType,
		Workday:   true,
		Telework:  true,
		ClockType: catalog.ClockTypeCustom,
		ClockIn:   &clockIn,
		ClockOut:  &clockOut,
	}))
	return f
}

// seedUser 创建用户；schedule 为空时策略不完整
func (f *fixture) seedUser(t *testing.T, email, schedule string) *user.User {
	t.Helper()
	ctx := context.Background()
	u, err := f.users.Upsert(ctx, &user.User{Email: email, Password: "secret"})
	require.NoError(t, err)

	p := &policy.UserPolicy{
		UserID:           u.ID,
		ClockInTypeName:  lo.ToPtr(clockInType),
		ClockOutTypeName: lo.ToPtr(clockOutType),
	}
	if schedule != "" {
		p.ScheduleTypeName = lo.ToPtr(schedule)
	}
	require.NoError(t, f.policies.Save(ctx, p))
	return u
}

func (f *fixture) workType(t *testing.T, name string) *catalog.WorkType {
	t.Helper()
	wt, err := f.catalog.GetWorkTypeByName(context.Background(), name)
	require.NoError(t, err)
	require.NotNil(t, wt)
	return wt
}

func (f *fixture) scheduleType(t *testing.T, name string) *catalog.WorkScheduleType {
	t.Helper()
	st, err := f.catalog.GetScheduleTypeByName(context.Background(), name)
	require.NoError(t, err)
	require.NotNil(t, st)
	return st
}

// fakeOracle 周末与 holidays 中的日期为假日
type fakeOracle struct {
	mu       sync.Mutex
	holidays map[string]bool
	err      error
	calls    int
}

func (o *fakeOracle) IsHoliday(_ context.Context, date time.Time) (bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls++
	if o.err != nil {
		return false, o.err
	}
	if holiday.IsWeekend(date) {
		return true, nil
	}
	return o.holidays[date.Format(time.DateOnly)], nil
}

type fakeLocker struct {
	mu         sync.Mutex
	acquireErr error
	renewErr   error
	failAfter  int
	renews     int
	releases   int
}

func (l *fakeLocker) Acquire(context.Context) error { return l.acquireErr }

func (l *fakeLocker) Renew(context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.renews++
	if l.renews <= l.failAfter {
		return nil
	}
	return l.renewErr
}

func (l *fakeLocker) Release(context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.releases++
	return nil
}

func (l *fakeLocker) Name() string   { return "fake" }
func (l *fakeLocker) Holder() string { return "fake-holder" }

type sessionCall struct {
	cred   clocker.Credentials
	action clocker.Action
}

type fakeSession struct {
	mu    sync.Mutex
	err   error
	calls []sessionCall
}

func (s *fakeSession) Run(_ context.Context, cred clocker.Credentials, action clocker.Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, sessionCall{cred: cred, action: action})
	return s.err
}

func (s *fakeSession) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}
