// Package timer implements the countdown engine for timed recording runs
//
// the engine is a pure state machine: the host drives Tick and the visibility
// transitions, and correctness never depends on tick cadence because remaining
// time is always recomputed from the absolute target end and the current wall
// clock, not by decrementing a counter per tick
package timer

import (
	"time"

	"gutlog/internal/platform/clock"
	"gutlog/internal/platform/logger"
)

const (
	// DefaultDurationSeconds is the canonical run length for a fresh timer
	DefaultDurationSeconds = 300

	// RestartStaleThreshold is the snapshot age beyond which a process
	// restart treats a prior run as abandoned
	RestartStaleThreshold = 30 * time.Second
)

// State is the externally visible timer state
// Active and Completed are never simultaneously true
type State struct {
	Active           bool
	RemainingSeconds int
	StartedAt        *time.Time
	EndedAt          *time.Time
	HasAddedTime     bool
	Completed        bool
	ShowResultPrompt bool
}

// Engine is a single countdown run owned by one caller
// it is not safe for concurrent use, the owner serializes access
type Engine struct {
	clk clock.Clock
	log logger.Logger

	defaultSeconds int

	state     State
	targetEnd time.Time // zero unless a run is in flight
	hidden    bool      // host backgrounded, schedule suspended
}

// Option tweaks engine construction
type Option func(*Engine)

// WithDefaultSeconds overrides the initial run length
func WithDefaultSeconds(sec int) Option {
	return func(e *Engine) {
		if sec > 0 {
			e.defaultSeconds = sec
		}
	}
}

// New constructs an idle engine with default duration
func New(clk clock.Clock, log logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		clk:            clk,
		log:            log,
		defaultSeconds: DefaultDurationSeconds,
	}
	for _, o := range opts {
		o(e)
	}
	e.state = State{RemainingSeconds: e.defaultSeconds}
	return e
}

// State returns a copy of the current state
func (e *Engine) State() State { return e.state }

// Start begins or resumes the countdown
// no-op while running or after completion (reset first)
func (e *Engine) Start() {
	if e.state.Active || e.state.Completed {
		return
	}
	now := e.clk.Now()
	// StartedAt is captured once per run, pause/resume keeps the original
	if e.state.StartedAt == nil {
		e.state.StartedAt = clock.Ptr(now)
	}
	e.targetEnd = now.Add(time.Duration(e.state.RemainingSeconds) * time.Second)
	e.state.Active = true
	e.hidden = false
}

// Pause freezes the countdown at its currently computed remaining time
func (e *Engine) Pause() {
	if !e.state.Active {
		return
	}
	e.state.RemainingSeconds = e.remainingAt(e.clk.Now())
	e.state.Active = false
	e.targetEnd = time.Time{}
	e.hidden = false
}

// Tick recomputes remaining time from the wall clock and fires the
// completion transition at zero
func (e *Engine) Tick() {
	if !e.state.Active || e.hidden {
		return
	}
	now := e.clk.Now()
	rem := e.remainingAt(now)
	if rem <= 0 {
		e.complete(now)
		return
	}
	e.state.RemainingSeconds = rem
}

// AddTime extends the run once, further calls are no-ops
func (e *Engine) AddTime(seconds int) {
	if seconds <= 0 || e.state.HasAddedTime || e.state.Completed {
		return
	}
	e.state.HasAddedTime = true
	e.state.RemainingSeconds += seconds
	if e.state.Active {
		e.targetEnd = e.targetEnd.Add(time.Duration(seconds) * time.Second)
	}
}

// Reset restores the engine to a fresh idle run from any state
func (e *Engine) Reset() {
	e.state = State{RemainingSeconds: e.defaultSeconds}
	e.targetEnd = time.Time{}
	e.hidden = false
}

// NextTickIn suggests the host's next re-evaluation delay
// advisory only, a late or missed tick cannot skew the countdown
func (e *Engine) NextTickIn() time.Duration {
	if !e.state.Active || e.hidden {
		return 0
	}
	if e.state.RemainingSeconds <= 10 {
		return 250 * time.Millisecond
	}
	return time.Second
}

// remainingAt is the single remaining-time computation: ceil of the gap to
// the target end, clamped at zero
func (e *Engine) remainingAt(now time.Time) int {
	d := e.targetEnd.Sub(now)
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}

func (e *Engine) complete(now time.Time) {
	e.state.EndedAt = clock.Ptr(now)
	e.state.RemainingSeconds = 0
	e.state.Active = false
	e.state.Completed = true
	e.state.ShowResultPrompt = true
	e.targetEnd = time.Time{}
	e.hidden = false
}
