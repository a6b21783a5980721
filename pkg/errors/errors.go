// Package errors re-exports github.com/cockroachdb/errors so that every error
// created inside the scheduler carries a stack trace, and declares the
// sentinels shared across packages.
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

var (
	New           = crdb.New
	Newf          = crdb.Newf
	Errorf        = crdb.Errorf
	Wrap          = crdb.Wrap
	Wrapf         = crdb.Wrapf
	WithStack     = crdb.WithStack
	WithHint      = crdb.WithHint
	WithHintf     = crdb.WithHintf
	WithDetail    = crdb.WithDetail
	WithDetailf   = crdb.WithDetailf
	Mark          = crdb.Mark
	Is            = crdb.Is
	IsAny         = crdb.IsAny
	As            = crdb.As
	Unwrap        = crdb.Unwrap
	UnwrapAll     = crdb.UnwrapAll
	CombineErrors = crdb.CombineErrors
	GetAllHints   = crdb.GetAllHints
)

// Sentinel errors. Test with errors.Is; wrap with Mark or Wrap to keep them
// matchable.
var (
	// ErrNotFound a store row addressed by key does not exist, or a conditional
	// update matched nothing.
	ErrNotFound = crdb.New("not found")

	// ErrInvalidArgument a configuration or input value is malformed.
	ErrInvalidArgument = crdb.New("invalid argument")

	// ErrStaleHolidayData the holiday source does not cover the queried date.
	ErrStaleHolidayData = crdb.New("holiday data is stale")

	// ErrHolidayFormatChanged the holiday source no longer has the expected column.
	ErrHolidayFormatChanged = crdb.New("holiday data format changed")

	// ErrLeaseHeld another live holder owns the lease.
	ErrLeaseHeld = crdb.New("lease held by another instance")

	// ErrLeaseLost the lease was taken over or removed while held.
	ErrLeaseLost = crdb.New("lease lost")

	// ErrElementNotFound an expected portal element is absent.
	ErrElementNotFound = crdb.New("element not found")

	// ErrWaitTimeout a bounded wait on the portal expired.
	ErrWaitTimeout = crdb.New("wait timed out")
)
