// Package cascade carries the shared pieces of the multi-collection write
// sequences: stage-tagged failures and the per-orchestrator in-flight guard.
//
// The remote store has no multi-statement transactions. A cascade that fails
// partway is aborted, already-completed steps are left as-is, and the caller
// gets a StageError naming the step that failed alongside whatever ids the
// completed steps produced.
package cascade

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// ErrBusy rejects a second overlapping call on the same orchestrator,
// guarding against duplicate form submissions.
var ErrBusy = errors.New("operation already in flight")

// StageError reports which logical stage of a cascade failed.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Fail wraps err with the failed stage name.
func Fail(stage string, err error) *StageError {
	return &StageError{Stage: stage, Err: err}
}

// Guard serializes cascades: a second call while one is in flight is
// rejected, never queued or interleaved.
type Guard struct {
	busy atomic.Bool
}

func (g *Guard) Acquire() error {
	if !g.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	return nil
}

func (g *Guard) Release() {
	g.busy.Store(false)
}
