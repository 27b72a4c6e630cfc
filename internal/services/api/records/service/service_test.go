package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"gutlog/internal/modkit/repokit"
	perr "gutlog/internal/platform/errors"
	"gutlog/internal/platform/logger"
	"gutlog/internal/services/api/records/domain"
	"gutlog/internal/services/api/records/repo"
)

func dup() error { return &pgconn.PgError{Code: "23505", ConstraintName: "bowel_records_user_id_record_date_day_index_key"} }

type fakeRepo struct {
	mu sync.Mutex

	rows     map[string]repo.Row
	inserted []repo.Row

	// insertErrs are consumed one per Insert call before success
	insertErrs []error

	// insertGate, when set, blocks Insert until released
	insertGate chan struct{}

	counts             []repo.DayCountRow
	lastFrom, lastTo   string
	maxByUserDate      map[string]int
	maxDayIndexQueries int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		rows:          map[string]repo.Row{},
		maxByUserDate: map[string]int{},
	}
}

func (f *fakeRepo) Insert(_ context.Context, row repo.Row) error {
	if f.insertGate != nil {
		<-f.insertGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.insertErrs) > 0 {
		err := f.insertErrs[0]
		f.insertErrs = f.insertErrs[1:]
		return err
	}
	f.rows[row.ID] = row
	f.inserted = append(f.inserted, row)
	f.maxByUserDate[row.UserID+"|"+row.RecordDate] = row.DayIndex
	return nil
}

func (f *fakeRepo) MaxDayIndex(_ context.Context, userID, recordDate string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.maxDayIndexQueries++
	return f.maxByUserDate[userID+"|"+recordDate], nil
}

func (f *fakeRepo) ListByDate(_ context.Context, userID, recordDate string) ([]repo.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []repo.Row
	for _, r := range f.rows {
		if r.UserID == userID && r.RecordDate == recordDate {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetByID(_ context.Context, userID, id string) (repo.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok || r.UserID != userID {
		return repo.Row{}, perr.NotFoundf("record %s not found", id)
	}
	return r, nil
}

func (f *fakeRepo) Update(_ context.Context, row repo.Row) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	old, ok := f.rows[row.ID]
	if !ok || old.UserID != row.UserID {
		return perr.NotFoundf("record %s not found", row.ID)
	}
	f.rows[row.ID] = row
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok || r.UserID != userID {
		return perr.NotFoundf("record %s not found", id)
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeRepo) DayCounts(_ context.Context, _, from, to string) ([]repo.DayCountRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastFrom, f.lastTo = from, to
	return f.counts, nil
}

type fakeBinder struct{ r *fakeRepo }

func (b fakeBinder) Bind(repokit.Queryer) repo.Repo { return b.r }

type fakeTx struct{ repokit.Queryer }

func (fakeTx) Tx(_ context.Context, fn func(repokit.Queryer) error) error { return fn(nil) }

func newSvc(f *fakeRepo) *Svc {
	return New(fakeTx{}, fakeBinder{r: f}, *logger.Get())
}

func strp(s string) *string { return &s }
func boolp(b bool) *bool    { return &b }

func TestCreateHappyPath(t *testing.T) {
	f := newFakeRepo()
	s := newSvc(f)

	out, err := s.Create(context.Background(), "user-1", domain.CreateInput{
		Date:            "2024-03-10",
		Time:            "07:30",
		DurationMinutes: 10,
		Success:         true,
		Amount:          strp(domain.AmountNormal),
		Memo:            strp("fine"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	rec := out.Record
	if rec.ID == "" {
		t.Fatal("id not assigned")
	}
	if rec.DayIndex != 1 {
		t.Fatalf("day index: %d", rec.DayIndex)
	}
	if rec.RecordDate != "2024-03-10" || out.DateMismatch {
		t.Fatalf("record date: %s mismatch=%v", rec.RecordDate, out.DateMismatch)
	}
	wantStart := time.Date(2024, time.March, 9, 22, 30, 0, 0, time.UTC)
	if !rec.StartedAt.Equal(wantStart) {
		t.Fatalf("started at: %v", rec.StartedAt)
	}
	if got := rec.EndedAt.Sub(rec.StartedAt); got != 10*time.Minute {
		t.Fatalf("duration span: %v", got)
	}

	// second record on the same day gets the next ordinal
	out2, err := s.Create(context.Background(), "user-1", domain.CreateInput{
		Date: "2024-03-10", Time: "12:00", DurationMinutes: 5, Success: false,
	})
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if out2.Record.DayIndex != 2 {
		t.Fatalf("second day index: %d", out2.Record.DayIndex)
	}
}

func TestCreateForcesAmountNullOnFailure(t *testing.T) {
	f := newFakeRepo()
	s := newSvc(f)

	out, err := s.Create(context.Background(), "user-1", domain.CreateInput{
		Date:            "2024-03-10",
		Time:            "07:30",
		DurationMinutes: 10,
		Success:         false,
		Amount:          strp(domain.AmountMany),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if out.Record.Amount != nil {
		t.Fatalf("amount must be null on unsuccessful records, got %q", *out.Record.Amount)
	}
}

func TestCreateRetriesOnDuplicateDayIndex(t *testing.T) {
	f := newFakeRepo()
	f.insertErrs = []error{dup()}
	s := newSvc(f)

	out, err := s.Create(context.Background(), "user-1", domain.CreateInput{
		Date: "2024-03-10", Time: "07:30", DurationMinutes: 10, Success: true,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if out.Record.DayIndex != 1 {
		t.Fatalf("day index: %d", out.Record.DayIndex)
	}
	if f.maxDayIndexQueries != 2 {
		t.Fatalf("allocation must rerun per attempt, queries: %d", f.maxDayIndexQueries)
	}
}

func TestCreateRetriesExhausted(t *testing.T) {
	f := newFakeRepo()
	f.insertErrs = []error{dup(), dup(), dup()}
	s := newSvc(f)

	_, err := s.Create(context.Background(), "user-1", domain.CreateInput{
		Date: "2024-03-10", Time: "07:30", DurationMinutes: 10, Success: true,
	})
	if !perr.IsCode(err, perr.ErrorCodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if len(f.inserted) != 0 {
		t.Fatal("no record may be left behind")
	}
}

func TestCreateValidation(t *testing.T) {
	s := newSvc(newFakeRepo())
	ctx := context.Background()

	cases := []domain.CreateInput{
		{Date: "2024-02-30", Time: "07:30", DurationMinutes: 10},
		{Date: "2024-03-10", Time: "25:00", DurationMinutes: 10},
		{Date: "2024-03-10", Time: "07:30", DurationMinutes: 0},
		{Date: "2024-03-10", Time: "07:30", DurationMinutes: 10, Success: true, Amount: strp("lots")},
	}
	for _, in := range cases {
		if _, err := s.Create(ctx, "user-1", in); !perr.IsCode(err, perr.ErrorCodeValidation) {
			t.Fatalf("%+v: expected validation error, got %v", in, err)
		}
	}

	if _, err := s.Create(ctx, "", domain.CreateInput{Date: "2024-03-10", Time: "07:30", DurationMinutes: 10}); !perr.IsCode(err, perr.ErrorCodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestCreateDoubleSubmitGuard(t *testing.T) {
	f := newFakeRepo()
	f.insertGate = make(chan struct{})
	s := newSvc(f)
	ctx := context.Background()

	in := domain.CreateInput{Date: "2024-03-10", Time: "07:30", DurationMinutes: 10, Success: true}

	var wg sync.WaitGroup
	wg.Add(1)
	firstErr := make(chan error, 1)
	go func() {
		defer wg.Done()
		_, err := s.Create(ctx, "user-1", in)
		firstErr <- err
	}()

	// wait for the first submission to reach the gated insert
	for {
		s.mu.Lock()
		busy := s.submitting["user-1"]
		s.mu.Unlock()
		if busy {
			break
		}
		time.Sleep(time.Millisecond)
	}

	// second submission for the same user is rejected while the first runs
	if _, err := s.Create(ctx, "user-1", in); !perr.IsCode(err, perr.ErrorCodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	// a different user is unaffected, release both
	close(f.insertGate)
	if _, err := s.Create(ctx, "user-2", in); err != nil {
		t.Fatalf("other user: %v", err)
	}

	wg.Wait()
	if err := <-firstErr; err != nil {
		t.Fatalf("first submission: %v", err)
	}

	// guard clears when the submission finishes
	if _, err := s.Create(ctx, "user-1", in); err != nil {
		t.Fatalf("resubmit after finish: %v", err)
	}
}

func TestUpdateNullsAmountWhenSuccessCleared(t *testing.T) {
	f := newFakeRepo()
	s := newSvc(f)
	ctx := context.Background()

	out, err := s.Create(ctx, "user-1", domain.CreateInput{
		Date: "2024-03-10", Time: "07:30", DurationMinutes: 10,
		Success: true, Amount: strp(domain.AmountNormal),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := s.Update(ctx, "user-1", out.Record.ID, domain.UpdateInput{Success: boolp(false)})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Success {
		t.Fatal("success not cleared")
	}
	if got.Amount != nil {
		t.Fatalf("amount must be nulled with success, got %q", *got.Amount)
	}
}

func TestUpdateFields(t *testing.T) {
	f := newFakeRepo()
	s := newSvc(f)
	ctx := context.Background()

	out, _ := s.Create(ctx, "user-1", domain.CreateInput{
		Date: "2024-03-10", Time: "07:30", DurationMinutes: 10, Success: true,
	})
	id := out.Record.ID

	got, err := s.Update(ctx, "user-1", id, domain.UpdateInput{
		Memo:       strp("updated"),
		Amount:     strp(domain.AmountLittle),
		RecordDate: strp("2024-03-11"),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Memo == nil || *got.Memo != "updated" {
		t.Fatalf("memo: %v", got.Memo)
	}
	if got.Amount == nil || *got.Amount != domain.AmountLittle {
		t.Fatalf("amount: %v", got.Amount)
	}
	if got.RecordDate != "2024-03-11" {
		t.Fatalf("record date: %s", got.RecordDate)
	}

	if _, err := s.Update(ctx, "user-1", id, domain.UpdateInput{RecordDate: strp("2024-13-01")}); !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("bad date: %v", err)
	}
	if _, err := s.Update(ctx, "user-2", id, domain.UpdateInput{Memo: strp("x")}); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("foreign user must see not found, got %v", err)
	}
}

func TestDeleteAndGet(t *testing.T) {
	f := newFakeRepo()
	s := newSvc(f)
	ctx := context.Background()

	out, _ := s.Create(ctx, "user-1", domain.CreateInput{
		Date: "2024-03-10", Time: "07:30", DurationMinutes: 10, Success: true,
	})
	id := out.Record.ID

	if _, err := s.GetByID(ctx, "user-1", id); err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if _, err := s.GetByID(ctx, "user-2", id); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("foreign get: %v", err)
	}

	if err := s.Delete(ctx, "user-2", id); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("foreign delete: %v", err)
	}
	if err := s.Delete(ctx, "user-1", id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.GetByID(ctx, "user-1", id); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("get after delete: %v", err)
	}
}

func TestMonthSummaryRange(t *testing.T) {
	f := newFakeRepo()
	f.counts = []repo.DayCountRow{{RecordDate: "2024-02-03", Count: 2, SuccessCount: 1}}
	s := newSvc(f)
	ctx := context.Background()

	out, err := s.MonthSummary(ctx, "user-1", "2024-02")
	if err != nil {
		t.Fatalf("MonthSummary: %v", err)
	}
	if f.lastFrom != "2024-02-01" || f.lastTo != "2024-03-01" {
		t.Fatalf("range: %s .. %s", f.lastFrom, f.lastTo)
	}
	if len(out) != 1 || out[0].Date != "2024-02-03" || out[0].Count != 2 || out[0].SuccessCount != 1 {
		t.Fatalf("summary: %+v", out)
	}

	if _, err := s.MonthSummary(ctx, "user-1", "2024-2"); !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("bad month: %v", err)
	}
}
