// Package service contains the record workflows, including the day-index
// allocator and the civil-date resolution on the write path
package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"gutlog/internal/core/civil"
	"gutlog/internal/modkit/repokit"
	perr "gutlog/internal/platform/errors"
	"gutlog/internal/platform/logger"
	"gutlog/internal/services/api/records/domain"
	"gutlog/internal/services/api/records/repo"
)

// dayIndexAttempts bounds the allocator's retry loop on duplicate day_index
const dayIndexAttempts = 3

// Service defines the service contract for records
type Service interface{ domain.ServicePort }

// Svc implements the Service interface
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner
	log    logger.Logger

	// per-user Idle|Submitting guard against double-fired submissions,
	// scoped here rather than a module-level flag
	mu         sync.Mutex
	submitting map[string]bool
}

// New creates a new records service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], log logger.Logger) *Svc {
	if db == nil {
		panic("records.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("records.Service requires a non nil Repo binder")
	}
	return &Svc{
		Repo:       binder.Bind(db),
		binder:     binder,
		db:         db,
		log:        log,
		submitting: make(map[string]bool),
	}
}

func (s *Svc) beginSubmit(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting[userID] {
		return false
	}
	s.submitting[userID] = true
	return true
}

func (s *Svc) endSubmit(userID string) {
	s.mu.Lock()
	delete(s.submitting, userID)
	s.mu.Unlock()
}

// Create resolves the civil input, allocates a day index, and inserts the
// record in one transaction; duplicate day indexes from concurrent writers
// are absorbed by re-running the allocation against the unique constraint
func (s *Svc) Create(ctx context.Context, userID string, in domain.CreateInput) (domain.CreateResult, error) {
	if userID == "" {
		return domain.CreateResult{}, perr.Unauthorizedf("not authenticated")
	}
	if in.Amount != nil && !domain.ValidAmount(*in.Amount) {
		return domain.CreateResult{}, perr.WithField(perr.Validationf("amount must be one of many, normal, little, abnormal"), "amount")
	}

	res, err := civil.Resolve(in.Date, in.Time, in.DurationMinutes)
	if err != nil {
		return domain.CreateResult{}, err
	}

	if !s.beginSubmit(userID) {
		return domain.CreateResult{}, perr.Conflictf("a record submission is already in progress")
	}
	defer s.endSubmit(userID)

	if res.DateMismatch {
		// persist under the derived date anyway, the caller only gets a warning
		s.log.Warn().
			Str("user_id", userID).
			Str("input_date", in.Date).
			Str("record_date", res.RecordDate.String()).
			Msg("record date mismatch, filing under derived date")
	}

	amount := in.Amount
	if !in.Success {
		amount = nil
	}

	row := repo.Row{
		ID:              uuid.NewString(),
		UserID:          userID,
		StartedAt:       res.Start,
		EndedAt:         res.End,
		DurationMinutes: in.DurationMinutes,
		Success:         in.Success,
		Amount:          amount,
		Memo:            in.Memo,
		RecordDate:      res.RecordDate.String(),
	}

	var lastErr error
	for attempt := 0; attempt < dayIndexAttempts; attempt++ {
		lastErr = s.db.Tx(ctx, func(q repokit.Queryer) error {
			r := s.binder.Bind(q)
			maxIdx, err := r.MaxDayIndex(ctx, userID, row.RecordDate)
			if err != nil {
				return err
			}
			row.DayIndex = maxIdx + 1
			return r.Insert(ctx, row)
		})
		if lastErr == nil {
			return domain.CreateResult{
				Record:       toDomain(row),
				DateMismatch: res.DateMismatch,
			}, nil
		}
		if !perr.IsDuplicateKey(lastErr) {
			return domain.CreateResult{}, lastErr
		}
	}
	return domain.CreateResult{}, perr.Wrap(lastErr, perr.ErrorCodeConflict, "day index contention, retries exhausted")
}

// ListByDate returns the user's records for one civil date, day order
func (s *Svc) ListByDate(ctx context.Context, userID, date string) ([]domain.Record, error) {
	if userID == "" {
		return nil, perr.Unauthorizedf("not authenticated")
	}
	d, err := civil.ParseDate(date)
	if err != nil {
		return nil, err
	}
	rows, err := s.Repo.ListByDate(ctx, userID, d.String())
	if err != nil {
		return nil, err
	}
	out := make([]domain.Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, toDomain(r))
	}
	return out, nil
}

// GetByID returns one record, ownership enforced by the query itself
func (s *Svc) GetByID(ctx context.Context, userID, id string) (domain.Record, error) {
	if userID == "" {
		return domain.Record{}, perr.Unauthorizedf("not authenticated")
	}
	row, err := s.Repo.GetByID(ctx, userID, id)
	if err != nil {
		return domain.Record{}, err
	}
	return toDomain(row), nil
}

// Update applies the limited edit patch: memo, amount, success, record_date
func (s *Svc) Update(ctx context.Context, userID, id string, in domain.UpdateInput) (domain.Record, error) {
	if userID == "" {
		return domain.Record{}, perr.Unauthorizedf("not authenticated")
	}
	row, err := s.Repo.GetByID(ctx, userID, id)
	if err != nil {
		return domain.Record{}, err
	}

	if in.Memo != nil {
		row.Memo = in.Memo
	}
	if in.Success != nil {
		row.Success = *in.Success
	}
	if in.Amount != nil {
		if !domain.ValidAmount(*in.Amount) {
			return domain.Record{}, perr.WithField(perr.Validationf("amount must be one of many, normal, little, abnormal"), "amount")
		}
		row.Amount = in.Amount
	}
	if in.RecordDate != nil {
		d, err := civil.ParseDate(*in.RecordDate)
		if err != nil {
			return domain.Record{}, err
		}
		row.RecordDate = d.String()
	}
	// amount is only meaningful on successful records
	if !row.Success {
		row.Amount = nil
	}

	if err := s.Repo.Update(ctx, row); err != nil {
		return domain.Record{}, err
	}
	return toDomain(row), nil
}

// Delete removes one record by id, ownership enforced
func (s *Svc) Delete(ctx context.Context, userID, id string) error {
	if userID == "" {
		return perr.Unauthorizedf("not authenticated")
	}
	return s.Repo.Delete(ctx, userID, id)
}

// MonthSummary returns per-day counts for a YYYY-MM month, calendar feed
func (s *Svc) MonthSummary(ctx context.Context, userID, month string) ([]domain.DaySummary, error) {
	if userID == "" {
		return nil, perr.Unauthorizedf("not authenticated")
	}
	first, err := time.Parse("2006-01", month)
	if err != nil {
		return nil, perr.Validationf("invalid month %q, want YYYY-MM", month)
	}
	from := first.Format("2006-01-02")
	to := first.AddDate(0, 1, 0).Format("2006-01-02")

	rows, err := s.Repo.DayCounts(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]domain.DaySummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.DaySummary{
			Date:         r.RecordDate,
			Count:        r.Count,
			SuccessCount: r.SuccessCount,
		})
	}
	return out, nil
}

func toDomain(r repo.Row) domain.Record {
	return domain.Record{
		ID:              r.ID,
		UserID:          r.UserID,
		StartedAt:       r.StartedAt,
		EndedAt:         r.EndedAt,
		DurationMinutes: r.DurationMinutes,
		Success:         r.Success,
		Amount:          r.Amount,
		Memo:            r.Memo,
		RecordDate:      r.RecordDate,
		DayIndex:        r.DayIndex,
	}
}
