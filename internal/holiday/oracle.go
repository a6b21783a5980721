// Package holiday answers whether a calendar date is a non-working day, using
// the Cabinet Office public holiday list plus weekends.
package holiday

import (
	"context"
	"encoding/csv"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/autoclock/scheduler/pkg/config"
	"github.com/autoclock/scheduler/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// DateLayout is the layout of the date column, e.g. "2024/1/8".
const DateLayout = "2006/1/2"

type Oracle interface {
	IsHoliday(ctx context.Context, date time.Time) (bool, error)
}

// CabinetOfficeOracle fetches the holiday CSV on every call; there is no cache.
type CabinetOfficeOracle struct {
	client *http.Client
	url    string
	column string
	logger *zap.Logger
}

var _ Oracle = (*CabinetOfficeOracle)(nil)

func NewCabinetOfficeOracle(cfg *config.Config, logger *zap.Logger) *CabinetOfficeOracle {
	return &CabinetOfficeOracle{
		client: &http.Client{Timeout: cfg.Holiday.Timeout},
		url:    cfg.Holiday.URL,
		column: cfg.Holiday.Column,
		logger: logger,
	}
}

// IsHoliday reports Saturdays and Sundays without touching the network.
func (o *CabinetOfficeOracle) IsHoliday(ctx context.Context, date time.Time) (bool, error) {
	if IsWeekend(date) {
		return true, nil
	}

	holidays, latest, err := o.fetch(ctx)
	if err != nil {
		return false, err
	}

	day := civil(date)
	if !latest.After(day) {
		return false, errors.Wrapf(errors.ErrStaleHolidayData,
			"latest holiday %s does not cover %s", latest.Format(time.DateOnly), day.Format(time.DateOnly))
	}
	_, ok := holidays[day]
	return ok, nil
}

func (o *CabinetOfficeOracle) fetch(ctx context.Context) (map[time.Time]struct{}, time.Time, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.url, nil)
	if err != nil {
		return nil, time.Time{}, errors.Wrap(err, "build holiday request")
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return nil, time.Time{}, errors.Wrap(err, "fetch holiday list")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, time.Time{}, errors.Newf("fetch holiday list: unexpected status %d", resp.StatusCode)
	}

	holidays, latest, err := Parse(resp.Body, o.column)
	if err != nil {
		return nil, time.Time{}, err
	}
	o.logger.Debug("holiday list fetched",
		zap.Int("count", len(holidays)),
		zap.String("latest", latest.Format(time.DateOnly)))
	return holidays, latest, nil
}

// Parse decodes a Shift_JIS CSV and collects the dates of the named column.
// Dates are keyed at UTC midnight.
func Parse(r io.Reader, column string) (map[time.Time]struct{}, time.Time, error) {
	reader := csv.NewReader(transform.NewReader(r, japanese.ShiftJIS.NewDecoder()))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, time.Time{}, errors.Wrap(err, "read holiday header")
	}
	idx := -1
	for i, name := range header {
		if strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")) == column {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, time.Time{}, errors.Wrapf(errors.ErrHolidayFormatChanged, "column %q not in header %v", column, header)
	}

	holidays := make(map[time.Time]struct{})
	var latest time.Time
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, time.Time{}, errors.Wrap(err, "read holiday row")
		}
		if idx >= len(record) || strings.TrimSpace(record[idx]) == "" {
			continue
		}
		d, err := time.Parse(DateLayout, strings.TrimSpace(record[idx]))
		if err != nil {
			return nil, time.Time{}, errors.Wrapf(errors.ErrHolidayFormatChanged, "date %q", record[idx])
		}
		holidays[d] = struct{}{}
		if d.After(latest) {
			latest = d
		}
	}
	return holidays, latest, nil
}

func IsWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// civil drops the clock and location, keeping the calendar date as seen in
// date's own location.
func civil(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
