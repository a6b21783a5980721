package scheduler

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/autoclock/scheduler/internal/biz/catalog"
	"github.com/autoclock/scheduler/internal/biz/policy"
	"github.com/autoclock/scheduler/internal/biz/task"
	"github.com/autoclock/scheduler/internal/holiday"
	"github.com/autoclock/scheduler/pkg/config"
	"github.com/autoclock/scheduler/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// BuildResult 本次实际插入的行数，已存在的行不计
type BuildResult struct {
	ClockInserted    int64 `json:"clock_inserted"`
	ScheduleInserted int64 `json:"schedule_inserted"`
}

// Builder 把用户策略展开为未来 horizon 天内的任务行
type Builder struct {
	policies  policy.Repo
	catalog   catalog.Repo
	clocks    task.ClockRepo
	schedules task.ScheduleRepo
	oracle    holiday.Oracle
	logger    *zap.Logger

	loc           *time.Location
	horizon       int
	defaultSubmit catalog.TimeOfDay
	now           func() time.Time
	jitter        func() time.Duration
}

func NewBuilder(
	cfg *config.Config,
	policies policy.Repo,
	catalogRepo catalog.Repo,
	clocks task.ClockRepo,
	schedules task.ScheduleRepo,
	oracle holiday.Oracle,
	logger *zap.Logger,
) (*Builder, error) {
	loc, err := cfg.Scheduler.Location()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "timezone %q", cfg.Scheduler.Timezone)
	}
	submit, err := catalog.ParseTimeOfDay(cfg.Scheduler.DefaultSubmitTime)
	if err != nil {
		return nil, err
	}
	return &Builder{
		policies:      policies,
		catalog:       catalogRepo,
		clocks:        clocks,
		schedules:     schedules,
		oracle:        oracle,
		logger:        logger,
		loc:           loc,
		horizon:       cfg.Scheduler.HorizonDays,
		defaultSubmit: submit,
		now:           time.Now,
		jitter:        UniformJitter(cfg.Scheduler.Jitter),
	}, nil
}

// UniformJitter 返回 [-max, +max] 内按整秒均匀分布的偏移
func UniformJitter(max time.Duration) func() time.Duration {
	secs := int64(max / time.Second)
	return func() time.Duration {
		if secs <= 0 {
			return 0
		}
		return time.Duration(rand.Int64N(2*secs+1)-secs) * time.Second
	}
}

// BuildTasks 节假日判断出错时整次生成中止，不写入任何行
func (b *Builder) BuildTasks(ctx context.Context) (BuildResult, error) {
	var result BuildResult

	policies, err := b.policies.ListReady(ctx)
	if err != nil {
		return result, errors.Wrap(err, "list policies")
	}
	if len(policies) == 0 {
		b.logger.Info("no ready policy, nothing to build")
		return result, nil
	}

	workTypes, err := b.catalog.ListWorkTypes(ctx, nil)
	if err != nil {
		return result, errors.Wrap(err, "list work types")
	}
	scheduleTypes, err := b.catalog.ListScheduleTypes(ctx)
	if err != nil {
		return result, errors.Wrap(err, "list schedule types")
	}
	workByName := lo.KeyBy(workTypes, func(w *catalog.WorkType) string { return w.TypeName })
	scheduleByName := lo.KeyBy(scheduleTypes, func(s *catalog.WorkScheduleType) string { return s.TypeName })

	now := b.now().In(b.loc)
	oracle := holiday.NewMemo(b.oracle)
	days, err := b.workdays(ctx, oracle, now)
	if err != nil {
		return result, err
	}

	var clocks []*task.ClockTask
	var schedules []*task.ScheduleTask
	for _, p := range policies {
		for _, name := range []string{*p.ClockInTypeName, *p.ClockOutTypeName} {
			wt, ok := workByName[name]
			if !ok || wt.RunType == catalog.RunTypeSchedule {
				b.logger.Warn("work type not in catalog",
					zap.Uint64("user_id", p.UserID),
					zap.String("type_name", name))
				continue
			}
			clocks = append(clocks, b.clockTasks(p.UserID, wt, days, now)...)
		}

		st, ok := scheduleByName[*p.ScheduleTypeName]
		if !ok {
			b.logger.Warn("schedule type not in catalog",
				zap.Uint64("user_id", p.UserID),
				zap.String("type_name", *p.ScheduleTypeName))
			continue
		}
		rows, err := b.scheduleTasks(ctx, oracle, p.UserID, st, days, now)
		if err != nil {
			return result, err
		}
		schedules = append(schedules, rows...)
	}

	clocks = lo.UniqBy(clocks, func(t *task.ClockTask) task.Key { return t.Key })
	schedules = lo.UniqBy(schedules, func(t *task.ScheduleTask) task.Key { return t.Key })

	if result.ClockInserted, err = b.clocks.InsertIgnore(ctx, clocks); err != nil {
		return result, errors.Wrap(err, "insert clock tasks")
	}
	if result.ScheduleInserted, err = b.schedules.InsertIgnore(ctx, schedules); err != nil {
		return result, errors.Wrap(err, "insert schedule tasks")
	}

	b.logger.Info("tasks built",
		zap.Int("policies", len(policies)),
		zap.Int("clock_candidates", len(clocks)),
		zap.Int("schedule_candidates", len(schedules)),
		zap.Int64("clock_inserted", result.ClockInserted),
		zap.Int64("schedule_inserted", result.ScheduleInserted))
	return result, nil
}

// workdays 从今天起 horizon 天中的非节假日
func (b *Builder) workdays(ctx context.Context, oracle holiday.Oracle, now time.Time) ([]time.Time, error) {
	today := task.DateOf(now, b.loc)
	days := make([]time.Time, 0, b.horizon)
	for n := 0; n < b.horizon; n++ {
		date := today.AddDate(0, 0, n)
		off, err := oracle.IsHoliday(ctx, date)
		if err != nil {
			return nil, errors.Wrapf(err, "holiday check %s", date.Format(time.DateOnly))
		}
		if !off {
			days = append(days, date)
		}
	}
	return days, nil
}

// schedule 基准时刻加抖动，只保留晚于 now 的时间点；
// 抖动可能跨过零点，任务仍归属生成它的工作日
func (b *Builder) schedule(date time.Time, base catalog.TimeOfDay, now time.Time) (time.Time, bool) {
	at := base.On(date, b.loc).Add(b.jitter())
	return at, at.After(now)
}

func (b *Builder) clockTasks(userID uint64, wt *catalog.WorkType, days []time.Time, now time.Time) []*task.ClockTask {
	var out []*task.ClockTask
	for _, date := range days {
		at, ok := b.schedule(date, wt.RunTime, now)
		if !ok {
			continue
		}
		key := task.Key{UserID: userID, RunType: wt.RunType, RunDate: date}
		out = append(out, task.NewClockTask(key, wt.ID, at))
	}
	return out
}

// scheduleTasks 排班申请在 ClockIn 时刻提交，未配置时用默认提交时刻
func (b *Builder) scheduleTasks(
	ctx context.Context,
	oracle holiday.Oracle,
	userID uint64,
	st *catalog.WorkScheduleType,
	days []time.Time,
	now time.Time,
) ([]*task.ScheduleTask, error) {
	base := b.defaultSubmit
	if st.ClockIn != nil {
		base = *st.ClockIn
	}

	var out []*task.ScheduleTask
	for _, date := range days {
		at, ok := b.schedule(date, base, now)
		if !ok {
			continue
		}
		applyDate, err := holiday.NextWorkday(ctx, oracle, date)
		if err != nil {
			return nil, errors.Wrapf(err, "next workday after %s", date.Format(time.DateOnly))
		}
		key := task.Key{UserID: userID, RunType: catalog.RunTypeSchedule, RunDate: date}
		out = append(out, task.NewScheduleTask(key, st.ID, at, applyDate))
	}
	return out, nil
}
