package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"gutlog/internal/core/timer"
	"gutlog/internal/platform/clock"
	perr "gutlog/internal/platform/errors"
	"gutlog/internal/platform/logger"
	recordsdom "gutlog/internal/services/api/records/domain"
	"gutlog/internal/services/api/timer/domain"
)

var t0 = time.Date(2024, time.March, 10, 3, 0, 0, 0, time.UTC) // 12:00 KST

type fakeKV struct {
	mu      sync.Mutex
	data    map[string]string
	lastTTL time.Duration
	getErr  error
}

func newFakeKV() *fakeKV { return &fakeKV{data: map[string]string{}} }

func (f *fakeKV) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return "", false, f.getErr
	}
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *fakeKV) Set(_ context.Context, key, value string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	f.lastTTL = ttl
	return nil
}

func (f *fakeKV) fail(err error) {
	f.mu.Lock()
	f.getErr = err
	f.mu.Unlock()
}

func (f *fakeKV) Remove(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	return nil
}

func (f *fakeKV) Close() error { return nil }

type fakeCreator struct {
	lastUser string
	lastIn   recordsdom.CreateInput
	calls    int
	err      error
}

func (f *fakeCreator) Create(_ context.Context, userID string, in recordsdom.CreateInput) (recordsdom.CreateResult, error) {
	f.calls++
	f.lastUser = userID
	f.lastIn = in
	if f.err != nil {
		return recordsdom.CreateResult{}, f.err
	}
	return recordsdom.CreateResult{Record: recordsdom.Record{ID: "rec-1", UserID: userID}}, nil
}

func newTestSvc() (*Svc, *fakeKV, *fakeCreator, *clock.Fake) {
	kv := newFakeKV()
	rc := &fakeCreator{}
	fc := clock.NewFake(t0)
	return New(kv, fc, rc, *logger.Get()), kv, rc, fc
}

func TestStartAndStatus(t *testing.T) {
	s, _, _, fc := newTestSvc()
	ctx := context.Background()

	st, err := s.Start(ctx, "user-1")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !st.Active || st.RemainingSeconds != timer.DefaultDurationSeconds {
		t.Fatalf("after start: %+v", st)
	}

	fc.Advance(30 * time.Second)
	st, err = s.Status(ctx, "user-1")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.RemainingSeconds != timer.DefaultDurationSeconds-30 {
		t.Fatalf("remaining: %d", st.RemainingSeconds)
	}

	// engines are per user
	st2, err := s.Status(ctx, "user-2")
	if err != nil {
		t.Fatalf("Status other: %v", err)
	}
	if st2.Active {
		t.Fatal("user-2 must have an idle engine")
	}
}

func TestVisibilityReconciliation(t *testing.T) {
	s, kv, _, fc := newTestSvc()
	ctx := context.Background()

	if _, err := s.Start(ctx, "user-1"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := s.Visibility(ctx, "user-1", true); err != nil {
		t.Fatalf("hide: %v", err)
	}
	if _, ok := kv.data[snapshotKeyPrefix+"user-1"]; !ok {
		t.Fatal("hide must persist a snapshot")
	}
	if kv.lastTTL != timer.RestartStaleThreshold {
		t.Fatalf("snapshot ttl: %v want %v", kv.lastTTL, timer.RestartStaleThreshold)
	}

	// short gap resumes
	fc.Advance(10 * time.Second)
	st, err := s.Visibility(ctx, "user-1", false)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !st.Active || st.RemainingSeconds != timer.DefaultDurationSeconds-10 {
		t.Fatalf("after short gap: %+v", st)
	}

	// long gap completes
	if _, err := s.Visibility(ctx, "user-1", true); err != nil {
		t.Fatalf("hide again: %v", err)
	}
	fc.Advance(time.Duration(timer.DefaultDurationSeconds) * time.Second)
	st, err = s.Visibility(ctx, "user-1", false)
	if err != nil {
		t.Fatalf("show again: %v", err)
	}
	if !st.Completed || !st.ShowResultPrompt {
		t.Fatalf("after long gap: %+v", st)
	}
}

func TestRestartRestoresRecentRun(t *testing.T) {
	s1, kv, _, fc := newTestSvc()
	ctx := context.Background()

	if _, err := s1.Start(ctx, "user-1"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := s1.Visibility(ctx, "user-1", true); err != nil {
		t.Fatalf("hide: %v", err)
	}

	// new process, same KV and wall clock, inside the stale threshold
	fc.Advance(20 * time.Second)
	s2 := New(kv, fc, &fakeCreator{}, *logger.Get())
	st, err := s2.Status(ctx, "user-1")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if !st.Active || st.RemainingSeconds != timer.DefaultDurationSeconds-20 {
		t.Fatalf("restored state: %+v", st)
	}
}

func TestRestartDiscardsStaleRun(t *testing.T) {
	s1, kv, _, fc := newTestSvc()
	ctx := context.Background()

	if _, err := s1.Start(ctx, "user-1"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := s1.Visibility(ctx, "user-1", true); err != nil {
		t.Fatalf("hide: %v", err)
	}

	fc.Advance(timer.RestartStaleThreshold + time.Second)
	s2 := New(kv, fc, &fakeCreator{}, *logger.Get())
	st, err := s2.Status(ctx, "user-1")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.Active || st.Completed || st.RemainingSeconds != timer.DefaultDurationSeconds {
		t.Fatalf("expected fresh engine: %+v", st)
	}
}

func TestAddTimeWhileHiddenSurvivesVisibility(t *testing.T) {
	s, _, _, fc := newTestSvc()
	ctx := context.Background()

	if _, err := s.Start(ctx, "user-1"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := s.Visibility(ctx, "user-1", true); err != nil {
		t.Fatalf("hide: %v", err)
	}
	if _, err := s.AddTime(ctx, "user-1", 180); err != nil {
		t.Fatalf("AddTime: %v", err)
	}

	fc.Advance(10 * time.Second)
	st, err := s.Visibility(ctx, "user-1", false)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if want := timer.DefaultDurationSeconds + 180 - 10; st.RemainingSeconds != want {
		t.Fatalf("remaining: %d want %d", st.RemainingSeconds, want)
	}
	if !st.HasAddedTime {
		t.Fatal("extension latch must survive the visibility round trip")
	}
}

func TestRestoreRunsOnlyOnFirstTouch(t *testing.T) {
	s1, kv, _, fc := newTestSvc()
	ctx := context.Background()

	if _, err := s1.Start(ctx, "user-1"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := s1.Visibility(ctx, "user-1", true); err != nil {
		t.Fatalf("hide: %v", err)
	}
	key := snapshotKeyPrefix + "user-1"
	raw := kv.data[key]

	fc.Advance(10 * time.Second)
	s2 := New(kv, fc, &fakeCreator{}, *logger.Get())
	st, err := s2.Status(ctx, "user-1")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.RemainingSeconds != timer.DefaultDurationSeconds-10 {
		t.Fatalf("restored remaining: %d", st.RemainingSeconds)
	}

	// a snapshot reappearing later must not be re-adopted by the live engine
	kv.data[key] = raw
	fc.Advance(10 * time.Second)
	st, err = s2.Status(ctx, "user-1")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.RemainingSeconds != timer.DefaultDurationSeconds-20 {
		t.Fatalf("remaining after reappeared snapshot: %d", st.RemainingSeconds)
	}
	if _, ok := kv.data[key]; !ok {
		t.Fatal("status must not consume snapshots")
	}
}

func TestRestoreRetriesAfterStorageError(t *testing.T) {
	s1, kv, _, fc := newTestSvc()
	ctx := context.Background()

	if _, err := s1.Start(ctx, "user-1"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := s1.Visibility(ctx, "user-1", true); err != nil {
		t.Fatalf("hide: %v", err)
	}

	fc.Advance(10 * time.Second)
	s2 := New(kv, fc, &fakeCreator{}, *logger.Get())
	kv.fail(perr.Unavailablef("kv down"))
	if _, err := s2.Status(ctx, "user-1"); err == nil {
		t.Fatal("expected status to surface the storage error")
	}

	// once storage recovers the pending snapshot is still honored
	kv.fail(nil)
	st, err := s2.Status(ctx, "user-1")
	if err != nil {
		t.Fatalf("Status after recovery: %v", err)
	}
	if !st.Active || st.RemainingSeconds != timer.DefaultDurationSeconds-10 {
		t.Fatalf("restored state: %+v", st)
	}
}

func TestCompleteFilesRecordAndResets(t *testing.T) {
	s, kv, rc, fc := newTestSvc()
	ctx := context.Background()

	if _, err := s.Start(ctx, "user-1"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	fc.Advance(400 * time.Second)
	st, _ := s.Status(ctx, "user-1")
	if !st.Completed {
		t.Fatalf("run should be completed: %+v", st)
	}

	out, err := s.Complete(ctx, "user-1", domain.CompleteInput{Success: true, Amount: strp("normal")})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out.Record.ID != "rec-1" {
		t.Fatalf("result: %+v", out)
	}
	if rc.calls != 1 || rc.lastUser != "user-1" {
		t.Fatalf("creator calls: %d user %q", rc.calls, rc.lastUser)
	}

	// run started 12:00 KST, completed at 400s, duration rounds up to 7min
	if rc.lastIn.Date != "2024-03-10" || rc.lastIn.Time != "12:00" {
		t.Fatalf("civil handoff: %s %s", rc.lastIn.Date, rc.lastIn.Time)
	}
	if rc.lastIn.DurationMinutes != 7 {
		t.Fatalf("duration: %d", rc.lastIn.DurationMinutes)
	}
	if !rc.lastIn.Success || rc.lastIn.Amount == nil || *rc.lastIn.Amount != "normal" {
		t.Fatalf("payload: %+v", rc.lastIn)
	}

	// engine resets for the next run and the snapshot is gone
	st, _ = s.Status(ctx, "user-1")
	if st.Completed || st.Active || st.RemainingSeconds != timer.DefaultDurationSeconds {
		t.Fatalf("after complete: %+v", st)
	}
	if _, ok := kv.data[snapshotKeyPrefix+"user-1"]; ok {
		t.Fatal("snapshot must be cleared after completion")
	}
}

func TestCompleteRequiresFinishedRun(t *testing.T) {
	s, _, rc, _ := newTestSvc()
	ctx := context.Background()

	if _, err := s.Complete(ctx, "user-1", domain.CompleteInput{Success: true}); !perr.IsCode(err, perr.ErrorCodeConflict) {
		t.Fatalf("idle complete: %v", err)
	}

	if _, err := s.Start(ctx, "user-1"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := s.Complete(ctx, "user-1", domain.CompleteInput{Success: true}); !perr.IsCode(err, perr.ErrorCodeConflict) {
		t.Fatalf("running complete: %v", err)
	}
	if rc.calls != 0 {
		t.Fatalf("creator must not be called: %d", rc.calls)
	}
}

func TestCompleteKeepsPromptOnStorageFailure(t *testing.T) {
	s, _, rc, fc := newTestSvc()
	ctx := context.Background()

	_, _ = s.Start(ctx, "user-1")
	fc.Advance(400 * time.Second)
	_, _ = s.Status(ctx, "user-1")

	rc.err = perr.DBf("insert failed")
	if _, err := s.Complete(ctx, "user-1", domain.CompleteInput{Success: true}); err == nil {
		t.Fatal("expected storage error")
	}

	st, _ := s.Status(ctx, "user-1")
	if !st.Completed || !st.ShowResultPrompt {
		t.Fatalf("prompt must survive a failed save: %+v", st)
	}

	// and the retry can succeed
	rc.err = nil
	if _, err := s.Complete(ctx, "user-1", domain.CompleteInput{Success: true}); err != nil {
		t.Fatalf("retry: %v", err)
	}
}

func TestAddTimeValidation(t *testing.T) {
	s, _, _, _ := newTestSvc()
	if _, err := s.AddTime(context.Background(), "user-1", 0); !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("zero seconds: %v", err)
	}
	if _, err := s.Start(context.Background(), ""); !perr.IsCode(err, perr.ErrorCodeUnauthorized) {
		t.Fatalf("missing user: %v", err)
	}
}

func strp(s string) *string { return &s }
