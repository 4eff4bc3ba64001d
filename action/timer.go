package action

import (
	"time"

	"github.com/flowsched/flowsched/value"
)

// TimerOp selects one of the timer queue's four operations.
type TimerOp int

const (
	// TimerSet creates a timer if none exists for this token, or updates
	// only its data (preserving the existing deadline) if one does. Once
	// Data is absent on a Set, later Sets cannot replace it — a latching
	// off switch.
	TimerSet TimerOp = iota
	// TimerReset unconditionally replaces both deadline and data (debounce
	// semantics).
	TimerReset
	// TimerRepeat behaves like TimerSet but the scheduler re-arms the timer
	// at now+Interval after every firing.
	TimerRepeat
	// TimerClear removes any pending timer for this token.
	TimerClear
)

// TimerSpec is the payload of a Timer output.
type TimerSpec struct {
	Op TimerOp

	// Deadline is a duration from now, used by Set and Reset.
	Deadline time.Duration
	// Interval is the re-arm period, used by Repeat.
	Interval time.Duration

	Data value.Option[value.Value]
}
