package holiday

import (
	"context"
	"sync"
	"time"

	"github.com/autoclock/scheduler/pkg/errors"
)

// maxWorkdayScan bounds NextWorkday; no real calendar has a longer break.
const maxWorkdayScan = 31

// NextWorkday returns the first date strictly after t's date that is not a holiday.
// The result keeps t's location and is at midnight.
func NextWorkday(ctx context.Context, oracle Oracle, t time.Time) (time.Time, error) {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	for i := 0; i < maxWorkdayScan; i++ {
		day = day.AddDate(0, 0, 1)
		holiday, err := oracle.IsHoliday(ctx, day)
		if err != nil {
			return time.Time{}, err
		}
		if !holiday {
			return day, nil
		}
	}
	return time.Time{}, errors.Newf("no workday within %d days after %s", maxWorkdayScan, day.Format(time.DateOnly))
}

// Memo caches answers of an underlying oracle. Create one per build so that a
// single build sees a consistent calendar while the oracle itself stays uncached.
type Memo struct {
	oracle Oracle
	mu     sync.Mutex
	seen   map[time.Time]bool
}

var _ Oracle = (*Memo)(nil)

func NewMemo(oracle Oracle) *Memo {
	return &Memo{oracle: oracle, seen: make(map[time.Time]bool)}
}

func (m *Memo) IsHoliday(ctx context.Context, date time.Time) (bool, error) {
	key := civil(date)

	m.mu.Lock()
	v, ok := m.seen[key]
	m.mu.Unlock()
	if ok {
		return v, nil
	}

	v, err := m.oracle.IsHoliday(ctx, date)
	if err != nil {
		return false, err
	}
	m.mu.Lock()
	m.seen[key] = v
	m.mu.Unlock()
	return v, nil
}
