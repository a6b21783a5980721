package clocker

import (
	"context"
	"strings"
	"time"

	"github.com/autoclock/scheduler/internal/biz/catalog"
	"github.com/autoclock/scheduler/internal/browser"
	"github.com/autoclock/scheduler/pkg/config"
	"github.com/autoclock/scheduler/pkg/errors"
	"github.com/chromedp/chromedp/kb"
	"github.com/davecgh/go-spew/spew"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Runner 每次调用打开一个全新的浏览器会话，登录门户并执行一个动作
type Runner struct {
	launcher      browser.Launcher
	baseURL       string
	settle        time.Duration
	actionTimeout time.Duration
	revealTimeout time.Duration
	timeout       time.Duration
	sleep         func(ctx context.Context, d time.Duration) error
	logger        *zap.Logger
}

func NewRunner(cfg *config.Config, launcher browser.Launcher, logger *zap.Logger) *Runner {
	return &Runner{
		launcher:      launcher,
		baseURL:       strings.TrimRight(cfg.Portal.BaseURL, "/"),
		settle:        cfg.Portal.SettleDelay,
		actionTimeout: cfg.Portal.ActionTimeout,
		revealTimeout: cfg.Portal.RevealTimeout,
		timeout:       cfg.Portal.SessionTimeout,
		sleep:         sleepCtx,
		logger:        logger,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Run 浏览器会话无论成功与否都会关闭，整个会话不超过 timeout
func (r *Runner) Run(ctx context.Context, cred Credentials, action Action) (err error) {
	log := r.logger.With(zap.String("user", cred.Email), zap.Stringer("kind", action.Kind()))
	if ce := log.Check(zapcore.DebugLevel, "session plan"); ce != nil {
		ce.Write(zap.String("action", spew.Sdump(action)))
	}
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	drv, err := r.launcher.Launch(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := drv.Close(); cerr != nil {
			log.Error("failed to close browser", zap.Error(cerr))
		}
	}()

	s := &session{Runner: r, ctx: ctx, drv: drv}
	if err := s.open(action); err != nil {
		return errors.Wrap(err, "open portal")
	}
	if err := s.login(cred); err != nil {
		return errors.Wrap(err, "login")
	}

	log.Info("session started")
	switch a := action.(type) {
	case ClockIn:
		err = s.clock(selClockIn)
	case ClockOut:
		err = s.clock(selClockOut)
	case ApplyTelework:
		err = s.applyTelework(a)
	default:
		err = errors.Wrapf(errors.ErrInvalidArgument, "unknown action %T", action)
	}
	if err != nil {
		return errors.Wrapf(err, "%s", action.Kind())
	}
	log.Info("session finished")
	return nil
}

type session struct {
	*Runner
	ctx context.Context
	drv browser.Driver
}

func (s *session) pause() error {
	return s.sleep(s.ctx, s.settle)
}

// settled 前后各等待一次，给门户页面留出渲染时间
func (s *session) settled(fn func() error) error {
	if err := s.pause(); err != nil {
		return err
	}
	if err := fn(); err != nil {
		return err
	}
	return s.pause()
}

func (s *session) open(action Action) error {
	if err := s.drv.Navigate(s.baseURL + myPagePath); err != nil {
		return err
	}
	if err := s.drv.GrantGeolocation(s.baseURL + myPagePath); err != nil {
		return err
	}
	switch a := action.(type) {
	case ClockIn:
		return s.drv.SetGeolocation(a.Lat, a.Lon, geoAccuracy)
	case ClockOut:
		return s.drv.SetGeolocation(a.Lat, a.Lon, geoAccuracy)
	}
	return nil
}

func (s *session) login(cred Credentials) error {
	steps := []func() error{
		func() error { return s.drv.Click(selLoginButton) },
		func() error { return s.drv.SendKeys(selEmail, cred.Email) },
		func() error { return s.drv.Click(selSubmit) },
		func() error { return s.drv.SendKeys(selPassword, cred.Password) },
		func() error { return s.drv.Click(selSubmit) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func (s *session) clock(button browser.Selector) error {
	return s.settled(func() error {
		if err := s.drv.WaitEnabled(button, s.actionTimeout); err != nil {
			return err
		}
		return s.drv.Click(button)
	})
}

func (s *session) applyTelework(a ApplyTelework) error {
	return s.settled(func() error {
		if err := s.drv.Navigate(s.baseURL + requestPath + a.Date.Format(time.DateOnly)); err != nil {
			return err
		}
		if a.Schedule.Telework {
			if err := s.drv.WaitVisible(selTeleworkToggle, s.revealTimeout); err != nil {
				return err
			}
			if err := s.drv.SendKeys(selTeleworkToggle, "1"); err != nil {
				return err
			}
		}
		if err := s.settled(func() error { return s.selectSchedule(a.Schedule) }); err != nil {
			return err
		}
		if err := s.drv.SendKeys(selComment, a.Schedule.Message()); err != nil {
			return err
		}
		return s.settled(func() error { return s.drv.Click(selCommit) })
	})
}

// selectSchedule 非自定义且门户有同名考勤方式模板时直接选中；否则先选通常勤務展开休息时间，
// 再切回自定义并逐项填写时刻
func (s *session) selectSchedule(schedule catalog.WorkScheduleType) error {
	if err := s.drv.WaitVisible(selScheduleSelect, s.revealTimeout); err != nil {
		return err
	}
	options, err := s.drv.SelectOptions(selScheduleSelect)
	if err != nil {
		return err
	}
	template := string(schedule.ClockType)
	if schedule.ClockType != catalog.ClockTypeCustom && lo.Contains(options, template) {
		return s.drv.SelectByText(selScheduleSelect, template)
	}

	if err := s.drv.SelectByText(selScheduleSelect, normalScheduleOption); err != nil {
		return err
	}
	if err := s.drv.SelectByValue(selScheduleSelect, ""); err != nil {
		return err
	}

	fields := []struct {
		sel   browser.Selector
		value *catalog.TimeOfDay
	}{
		{selStartTime, schedule.ClockIn},
		{selEndTime, schedule.ClockOut},
		{selBreakStart, schedule.BreakIn},
		{selBreakEnd, schedule.BreakOut},
	}
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		if err := s.drv.SendKeys(f.sel, strings.Repeat(kb.Backspace, clearKeys)+f.value.String()); err != nil {
			return err
		}
	}
	return nil
}
