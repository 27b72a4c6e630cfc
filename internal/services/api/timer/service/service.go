// Package service owns one countdown engine per user and drives it from HTTP
//
// the browser's single event loop becomes a per-user mutex here: handlers run
// concurrently, operations on one user's engine do not
package service

import (
	"context"
	"sync"
	"time"

	"gutlog/internal/core/civil"
	"gutlog/internal/core/timer"
	"gutlog/internal/modkit/repokit"
	"gutlog/internal/platform/clock"
	perr "gutlog/internal/platform/errors"
	"gutlog/internal/platform/logger"
	recordsdom "gutlog/internal/services/api/records/domain"
	"gutlog/internal/services/api/timer/domain"
)

// Service defines the service contract for the timer
type Service interface{ domain.ServicePort }

// Svc implements the Service interface
type Svc struct {
	kv      repokit.KeyValue
	clk     clock.Clock
	log     logger.Logger
	records recordsdom.CreatorPort

	mu      sync.Mutex
	engines map[string]*userTimer
}

// userTimer serializes all operations on one user's engine
type userTimer struct {
	mu       sync.Mutex
	eng      *timer.Engine
	restored bool
}

// New constructs the timer service
func New(kv repokit.KeyValue, clk clock.Clock, records recordsdom.CreatorPort, log logger.Logger) *Svc {
	if kv == nil {
		panic("timer.Service requires a non nil KeyValue store")
	}
	if clk == nil {
		clk = clock.System{}
	}
	return &Svc{
		kv:      kv,
		clk:     clk,
		log:     log,
		records: records,
		engines: make(map[string]*userTimer),
	}
}

// engineFor returns the user's engine, creating and restoring it on first
// touch (process-restart reconciliation happens here). The restored flag is
// checked under the per-user lock so restoration happens before any other
// operation can touch the engine, and only once
func (s *Svc) engineFor(ctx context.Context, userID string) (*userTimer, error) {
	s.mu.Lock()
	ut, ok := s.engines[userID]
	if !ok {
		ut = &userTimer{eng: timer.New(s.clk, s.log)}
		s.engines[userID] = ut
	}
	s.mu.Unlock()

	ut.mu.Lock()
	defer ut.mu.Unlock()
	if !ut.restored {
		if err := ut.eng.Restore(ctx, newKVSnapshots(s.kv, userID)); err != nil {
			return nil, err
		}
		ut.restored = true
	}
	return ut, nil
}

func (s *Svc) withEngine(ctx context.Context, userID string, fn func(*timer.Engine) error) (domain.Status, error) {
	if userID == "" {
		return domain.Status{}, perr.Unauthorizedf("not authenticated")
	}
	ut, err := s.engineFor(ctx, userID)
	if err != nil {
		return domain.Status{}, err
	}
	ut.mu.Lock()
	defer ut.mu.Unlock()
	if err := fn(ut.eng); err != nil {
		return domain.Status{}, err
	}
	return toStatus(ut.eng.State()), nil
}

// Status refreshes the countdown against the wall clock and reports it
func (s *Svc) Status(ctx context.Context, userID string) (domain.Status, error) {
	return s.withEngine(ctx, userID, func(e *timer.Engine) error {
		e.Tick()
		return nil
	})
}

// Start begins or resumes the user's run
func (s *Svc) Start(ctx context.Context, userID string) (domain.Status, error) {
	return s.withEngine(ctx, userID, func(e *timer.Engine) error {
		e.Start()
		return nil
	})
}

// Pause freezes the user's run
func (s *Svc) Pause(ctx context.Context, userID string) (domain.Status, error) {
	return s.withEngine(ctx, userID, func(e *timer.Engine) error {
		e.Pause()
		return nil
	})
}

// AddTime extends the run once
func (s *Svc) AddTime(ctx context.Context, userID string, seconds int) (domain.Status, error) {
	if seconds <= 0 {
		return domain.Status{}, perr.WithField(perr.Validationf("seconds must be positive"), "seconds")
	}
	return s.withEngine(ctx, userID, func(e *timer.Engine) error {
		e.AddTime(seconds)
		return nil
	})
}

// Reset abandons the run and clears any persisted snapshot
func (s *Svc) Reset(ctx context.Context, userID string) (domain.Status, error) {
	return s.withEngine(ctx, userID, func(e *timer.Engine) error {
		e.Reset()
		return newKVSnapshots(s.kv, userID).Clear(ctx)
	})
}

// Visibility applies the host visibility signal: hidden snapshots the run,
// visible reconciles it against the wall clock
func (s *Svc) Visibility(ctx context.Context, userID string, hidden bool) (domain.Status, error) {
	return s.withEngine(ctx, userID, func(e *timer.Engine) error {
		store := newKVSnapshots(s.kv, userID)
		if hidden {
			return e.Hide(ctx, store)
		}
		return e.Show(ctx, store)
	})
}

// Complete confirms a finished run and files the bowel record through the
// records module, then resets the engine for the next run
func (s *Svc) Complete(ctx context.Context, userID string, in domain.CompleteInput) (recordsdom.CreateResult, error) {
	if userID == "" {
		return recordsdom.CreateResult{}, perr.Unauthorizedf("not authenticated")
	}
	if s.records == nil {
		return recordsdom.CreateResult{}, perr.Unavailablef("records port not wired")
	}
	ut, err := s.engineFor(ctx, userID)
	if err != nil {
		return recordsdom.CreateResult{}, err
	}
	ut.mu.Lock()
	defer ut.mu.Unlock()

	st := ut.eng.State()
	if !st.Completed || st.StartedAt == nil || st.EndedAt == nil {
		return recordsdom.CreateResult{}, perr.Conflictf("no completed timer run to record")
	}

	out, err := s.records.Create(ctx, userID, recordsdom.CreateInput{
		Date:            civil.DateOf(*st.StartedAt, civil.KST).String(),
		Time:            civil.TimeOfDayOf(*st.StartedAt, civil.KST).String(),
		DurationMinutes: runMinutes(st),
		Success:         in.Success,
		Amount:          in.Amount,
		Memo:            in.Memo,
	})
	if err != nil {
		// keep the prompt up so the user can retry or dismiss
		return recordsdom.CreateResult{}, err
	}

	ut.eng.Reset()
	if err := newKVSnapshots(s.kv, userID).Clear(ctx); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("snapshot clear after completion failed")
	}
	return out, nil
}

// runMinutes rounds the run span up to whole minutes, at least one
func runMinutes(st timer.State) int {
	span := st.EndedAt.Sub(*st.StartedAt)
	mins := int((span + time.Minute - 1) / time.Minute)
	if mins < 1 {
		mins = 1
	}
	return mins
}

func toStatus(st timer.State) domain.Status {
	return domain.Status{
		Active:           st.Active,
		RemainingSeconds: st.RemainingSeconds,
		StartedAt:        st.StartedAt,
		EndedAt:          st.EndedAt,
		HasAddedTime:     st.HasAddedTime,
		Completed:        st.Completed,
		ShowResultPrompt: st.ShowResultPrompt,
	}
}
