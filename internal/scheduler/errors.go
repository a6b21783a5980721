package scheduler

import "github.com/autoclock/scheduler/pkg/errors"

// ErrMissingReference a task row points at a user or catalog row that no
// longer exists.
var ErrMissingReference = errors.New("task references a missing row")
