package timer

import (
	"context"
	"time"
)

// Snapshot is the durable image of a run taken when the host goes hidden
// or the process may die, enough to reconcile against the wall clock later
type Snapshot struct {
	RemainingSeconds int        `json:"remaining_seconds"`
	TargetEnd        time.Time  `json:"target_end"`
	StartedAt        *time.Time `json:"started_at,omitempty"`
	HasAddedTime     bool       `json:"has_added_time"`
	Completed        bool       `json:"completed"`
	ShowResultPrompt bool       `json:"show_result_prompt"`
	TakenAt          time.Time  `json:"taken_at"`
}

// SnapshotStore persists at most one snapshot per engine owner
// Load reports ok=false when no snapshot exists
type SnapshotStore interface {
	Load(ctx context.Context) (Snapshot, bool, error)
	Save(ctx context.Context, s Snapshot) error
	Clear(ctx context.Context) error
}

// Hide handles the host-hidden signal: while running, suspend the schedule
// and persist a snapshot so a later Show or Restore can reconcile
func (e *Engine) Hide(ctx context.Context, store SnapshotStore) error {
	if !e.state.Active || e.hidden {
		return nil
	}
	e.hidden = true
	return store.Save(ctx, e.snapshot())
}

// Show handles the host-visible signal: consume the snapshot at most once
// (delete-after-read guards rapid visibility toggles), then reconcile the
// run against the wall clock exactly like a tick. The live engine keeps its
// own targetEnd across Hide, which may have moved via AddTime while hidden,
// so snapshot adoption belongs to Restore only
func (e *Engine) Show(ctx context.Context, store SnapshotStore) error {
	_, ok, err := store.Load(ctx)
	if err != nil {
		return err
	}
	if ok {
		if err := store.Clear(ctx); err != nil {
			return err
		}
	}
	if !e.state.Active {
		return nil
	}
	e.hidden = false
	e.reconcile()
	return nil
}

// Restore handles process restart: adopt a prior running snapshot unless it
// is stale, in which case it is discarded with a log line and the engine
// stays fresh
func (e *Engine) Restore(ctx context.Context, store SnapshotStore) error {
	snap, ok, err := store.Load(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if err := store.Clear(ctx); err != nil {
		return err
	}

	now := e.clk.Now()
	if age := now.Sub(snap.TakenAt); age > RestartStaleThreshold {
		e.log.Warn().
			Dur("age", age).
			Dur("threshold", RestartStaleThreshold).
			Msg("stale timer snapshot discarded")
		e.Reset()
		return nil
	}

	if snap.Completed {
		e.state = State{
			RemainingSeconds: 0,
			StartedAt:        snap.StartedAt,
			HasAddedTime:     snap.HasAddedTime,
			Completed:        true,
			ShowResultPrompt: snap.ShowResultPrompt,
		}
		return nil
	}

	e.state = State{
		Active:           true,
		RemainingSeconds: snap.RemainingSeconds,
		StartedAt:        snap.StartedAt,
		HasAddedTime:     snap.HasAddedTime,
	}
	e.targetEnd = snap.TargetEnd
	e.hidden = false
	e.reconcile()
	return nil
}

// reconcile recomputes remaining time and drives the completion transition,
// the shared tail of Show and Restore
func (e *Engine) reconcile() {
	now := e.clk.Now()
	rem := e.remainingAt(now)
	if rem <= 0 {
		e.complete(now)
		return
	}
	e.state.RemainingSeconds = rem
}

func (e *Engine) snapshot() Snapshot {
	return Snapshot{
		RemainingSeconds: e.state.RemainingSeconds,
		TargetEnd:        e.targetEnd,
		StartedAt:        e.state.StartedAt,
		HasAddedTime:     e.state.HasAddedTime,
		Completed:        e.state.Completed,
		ShowResultPrompt: e.state.ShowResultPrompt,
		TakenAt:          e.clk.Now(),
	}
}
