package browser

import (
	"context"
	"time"

	"github.com/autoclock/scheduler/pkg/config"
	"github.com/autoclock/scheduler/pkg/errors"
	cdpbrowser "github.com/chromedp/cdproto/browser"
	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// ChromeLauncher starts headless Chrome locally, or attaches to a remote
// DevTools endpoint when portal.remote_url is set.
type ChromeLauncher struct {
	remoteURL      string
	userAgent      string
	elementTimeout time.Duration
	logger         *zap.Logger
}

var _ Launcher = (*ChromeLauncher)(nil)

func NewChromeLauncher(cfg *config.Config, logger *zap.Logger) *ChromeLauncher {
	return &ChromeLauncher{
		remoteURL:      cfg.Portal.RemoteURL,
		userAgent:      cfg.Portal.UserAgent,
		elementTimeout: cfg.Portal.ElementTimeout,
		logger:         logger,
	}
}

func (l *ChromeLauncher) Launch(ctx context.Context) (Driver, error) {
	var allocCtx context.Context
	var allocCancel context.CancelFunc
	if l.remoteURL != "" {
		allocCtx, allocCancel = chromedp.NewRemoteAllocator(ctx, l.remoteURL)
	} else {
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-notifications", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.NoSandbox,
			chromedp.WindowSize(414, 896),
			chromedp.UserAgent(l.userAgent),
		)
		allocCtx, allocCancel = chromedp.NewExecAllocator(ctx, opts...)
	}

	tabCtx, tabCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(l.logger.Sugar().Debugf),
		chromedp.WithErrorf(l.logger.Sugar().Warnf),
	)
	d := &chromeDriver{
		ctx:            tabCtx,
		elementTimeout: l.elementTimeout,
		cancel: func() {
			tabCancel()
			allocCancel()
		},
	}

	// the first Run starts the browser
	if err := chromedp.Run(tabCtx, emulation.SetUserAgentOverride(l.userAgent)); err != nil {
		d.cancel()
		return nil, errors.Wrap(err, "launch browser")
	}
	return d, nil
}

type chromeDriver struct {
	ctx            context.Context
	cancel         context.CancelFunc
	elementTimeout time.Duration
}

func queryOpts(sel Selector) []chromedp.QueryOption {
	if sel.IsXPath() {
		return []chromedp.QueryOption{chromedp.BySearch}
	}
	return []chromedp.QueryOption{chromedp.ByQuery}
}

// run executes actions against sel with a bounded wait; an expired wait is
// reported as notFound wrapped around the driver error.
func (d *chromeDriver) run(timeout time.Duration, notFound error, sel Selector, actions ...chromedp.Action) error {
	ctx, cancel := context.WithTimeout(d.ctx, timeout)
	defer cancel()
	err := chromedp.Run(ctx, actions...)
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) && d.ctx.Err() == nil {
		return errors.Mark(errors.Wrapf(err, "%s", sel), notFound)
	}
	return errors.Wrapf(err, "%s", sel)
}

func (d *chromeDriver) Navigate(url string) error {
	return errors.Wrapf(chromedp.Run(d.ctx, chromedp.Navigate(url)), "navigate %s", url)
}

func (d *chromeDriver) Click(sel Selector) error {
	return d.run(d.elementTimeout, errors.ErrElementNotFound, sel,
		chromedp.Click(sel.String(), queryOpts(sel)...))
}

func (d *chromeDriver) SendKeys(sel Selector, keys string) error {
	return d.run(d.elementTimeout, errors.ErrElementNotFound, sel,
		chromedp.SendKeys(sel.String(), keys, queryOpts(sel)...))
}

func (d *chromeDriver) WaitEnabled(sel Selector, timeout time.Duration) error {
	return d.run(timeout, errors.ErrWaitTimeout, sel,
		chromedp.WaitEnabled(sel.String(), queryOpts(sel)...))
}

func (d *chromeDriver) WaitVisible(sel Selector, timeout time.Duration) error {
	return d.run(timeout, errors.ErrWaitTimeout, sel,
		chromedp.WaitVisible(sel.String(), queryOpts(sel)...))
}

func (d *chromeDriver) SelectOptions(sel Selector) ([]string, error) {
	var res struct {
		Found bool     `json:"found"`
		Texts []string `json:"texts"`
	}
	js := `(() => { const el = ` + sel.locateJS() + `;
		if (!el) { return { found: false, texts: [] }; }
		return { found: true, texts: Array.from(el.options).map(o => o.text.trim()) }; })()`
	if err := d.run(d.elementTimeout, errors.ErrElementNotFound, sel, chromedp.Evaluate(js, &res)); err != nil {
		return nil, err
	}
	if !res.Found {
		return nil, errors.Wrapf(errors.ErrElementNotFound, "%s", sel)
	}
	return res.Texts, nil
}

func (d *chromeDriver) SelectByText(sel Selector, text string) error {
	return d.selectWhere(sel, `o.text.trim() === `+quote(text))
}

func (d *chromeDriver) SelectByValue(sel Selector, value string) error {
	return d.selectWhere(sel, `o.value === `+quote(value))
}

// selectWhere picks the first option matching pred and fires the change event
// the portal listens to.
func (d *chromeDriver) selectWhere(sel Selector, pred string) error {
	var found bool
	js := `(() => { const el = ` + sel.locateJS() + `;
		if (!el) { return false; }
		const o = Array.from(el.options).find(o => ` + pred + `);
		if (!o) { return false; }
		el.value = o.value;
		el.dispatchEvent(new Event('input', { bubbles: true }));
		el.dispatchEvent(new Event('change', { bubbles: true }));
		return true; })()`
	if err := d.run(d.elementTimeout, errors.ErrElementNotFound, sel, chromedp.Evaluate(js, &found)); err != nil {
		return err
	}
	if !found {
		return errors.Wrapf(errors.ErrElementNotFound, "%s option where %s", sel, pred)
	}
	return nil
}

func (d *chromeDriver) GrantGeolocation(origin string) error {
	return chromedp.Run(d.ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		c := chromedp.FromContext(ctx)
		err := cdpbrowser.GrantPermissions([]cdpbrowser.PermissionType{cdpbrowser.PermissionTypeGeolocation}).
			WithOrigin(origin).
			Do(cdp.WithExecutor(ctx, c.Browser))
		return errors.Wrap(err, "grant geolocation")
	}))
}

func (d *chromeDriver) SetGeolocation(lat, lon, accuracy float64) error {
	err := chromedp.Run(d.ctx, emulation.SetGeolocationOverride().
		WithLatitude(lat).
		WithLongitude(lon).
		WithAccuracy(accuracy))
	return errors.Wrap(err, "override geolocation")
}

func (d *chromeDriver) Close() error {
	d.cancel()
	return nil
}
