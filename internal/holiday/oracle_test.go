package holiday

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/autoclock/scheduler/pkg/config"
	"github.com/autoclock/scheduler/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/text/encoding/japanese"
)

const column = "国民の祝日・休日月日"

const sampleCSV = "国民の祝日・休日月日,国民の祝日・休日名称\r\n" +
	"2026/1/1,元日\r\n" +
	"2026/1/12,成人の日\r\n" +
	"2026/2/11,建国記念の日\r\n"

func sjis(t *testing.T, s string) []byte {
	t.Helper()
	out, err := japanese.ShiftJIS.NewEncoder().String(s)
	require.NoError(t, err)
	return []byte(out)
}

func newServer(t *testing.T, status int, body []byte) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "text/csv; charset=Shift_JIS")
		w.WriteHeader(status)
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func newOracle(t *testing.T, url string) *CabinetOfficeOracle {
	cfg := &config.Config{Holiday: config.HolidayConfig{URL: url, Column: column, Timeout: 5 * time.Second}}
	return NewCabinetOfficeOracle(cfg, zaptest.NewLogger(t))
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestIsHoliday(t *testing.T) {
	srv, hits := newServer(t, http.StatusOK, sjis(t, sampleCSV))
	oracle := newOracle(t, srv.URL)
	ctx := context.Background()

	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{"new year", day(2026, 1, 1), true},
		{"coming of age day", day(2026, 1, 12), true},
		{"plain tuesday", day(2026, 1, 13), false},
		{"plain friday", day(2026, 1, 9), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := oracle.IsHoliday(ctx, tt.date)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	// no cache: every weekday query fetches
	assert.EqualValues(t, len(tests), hits.Load())
}

func TestIsHoliday_WeekendSkipsFetch(t *testing.T) {
	srv, hits := newServer(t, http.StatusOK, sjis(t, sampleCSV))
	oracle := newOracle(t, srv.URL)

	for _, d := range []time.Time{day(2026, 1, 10), day(2026, 1, 11), day(2030, 6, 1)} {
		got, err := oracle.IsHoliday(context.Background(), d)
		require.NoError(t, err)
		assert.True(t, got)
	}
	assert.Zero(t, hits.Load())
}

func TestIsHoliday_LocalDateIsUsed(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, sjis(t, sampleCSV))
	oracle := newOracle(t, srv.URL)
	tokyo := time.FixedZone("JST", 9*3600)

	// 2026-01-12 08:00 JST is still 2026-01-11 in UTC, the holiday must be judged in JST
	got, err := oracle.IsHoliday(context.Background(), time.Date(2026, 1, 12, 8, 0, 0, 0, tokyo))
	require.NoError(t, err)
	assert.True(t, got)
}

func TestIsHoliday_Stale(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, sjis(t, sampleCSV))
	oracle := newOracle(t, srv.URL)

	for _, d := range []time.Time{day(2026, 2, 11), day(2026, 3, 2)} {
		_, err := oracle.IsHoliday(context.Background(), d)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrStaleHolidayData), "%+v", err)
	}
}

func TestIsHoliday_FormatChanged(t *testing.T) {
	body := sjis(t, "date,name\r\n2026/1/1,元日\r\n")
	srv, _ := newServer(t, http.StatusOK, body)
	oracle := newOracle(t, srv.URL)

	_, err := oracle.IsHoliday(context.Background(), day(2026, 1, 13))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrHolidayFormatChanged))
}

func TestIsHoliday_BadStatus(t *testing.T) {
	srv, _ := newServer(t, http.StatusServiceUnavailable, nil)
	oracle := newOracle(t, srv.URL)

	_, err := oracle.IsHoliday(context.Background(), day(2026, 1, 13))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestNextWorkday(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, sjis(t, sampleCSV))
	oracle := newOracle(t, srv.URL)
	ctx := context.Background()

	// Friday -> Saturday, Sunday, holiday Monday -> Tuesday
	got, err := NextWorkday(ctx, oracle, time.Date(2026, 1, 9, 9, 3, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, day(2026, 1, 13), got)

	// strictly after even when the input date is itself a workday
	got, err = NextWorkday(ctx, oracle, day(2026, 1, 13))
	require.NoError(t, err)
	assert.Equal(t, day(2026, 1, 14), got)
}

type countingOracle struct {
	calls int
}

func (c *countingOracle) IsHoliday(_ context.Context, date time.Time) (bool, error) {
	c.calls++
	return IsWeekend(date), nil
}

func TestMemo(t *testing.T) {
	inner := &countingOracle{}
	memo := NewMemo(inner)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := memo.IsHoliday(ctx, time.Date(2026, 1, 10, i, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.True(t, got)
	}
	assert.Equal(t, 1, inner.calls)
}
