// Package repo provides postgres access for bowel records
package repo

import (
	"context"
	"time"

	"gutlog/internal/modkit/repokit"
	perr "gutlog/internal/platform/errors"
)

// Row is a bowel_records row
type Row struct {
	ID              string
	UserID          string
	StartedAt       time.Time
	EndedAt         time.Time
	DurationMinutes int
	Success         bool
	Amount          *string
	Memo            *string
	RecordDate      string
	DayIndex        int
}

// Repo defines the repository contract for records
// the unique (user_id, record_date, day_index) constraint backs the
// day-index allocator, Insert surfaces duplicate-key for the retry loop
type Repo interface {
	Insert(ctx context.Context, row Row) error
	MaxDayIndex(ctx context.Context, userID, recordDate string) (int, error)
	ListByDate(ctx context.Context, userID, recordDate string) ([]Row, error)
	GetByID(ctx context.Context, userID, id string) (Row, error)
	Update(ctx context.Context, row Row) error
	Delete(ctx context.Context, userID, id string) error
	DayCounts(ctx context.Context, userID, fromDate, toDate string) ([]DayCountRow, error)
}

// DayCountRow is one day's aggregate counts
type DayCountRow struct {
	RecordDate   string
	Count        int
	SuccessCount int
}

type (
	// PG implements the Repo interface using Postgres
	PG struct{}

	queries struct{ q repokit.Queryer }
)

// NewPG creates a new Postgres repository binder
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind binds a Postgres queryer to the Repo implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

const rowColumns = `
id::text, user_id::text, started_at, ended_at, duration_minutes,
success, amount, memo, record_date::text, day_index
`

func scanRow(r repokit.Row) (Row, error) {
	var out Row
	err := r.Scan(
		&out.ID,
		&out.UserID,
		&out.StartedAt,
		&out.EndedAt,
		&out.DurationMinutes,
		&out.Success,
		&out.Amount,
		&out.Memo,
		&out.RecordDate,
		&out.DayIndex,
	)
	return out, err
}

func (r *queries) Insert(ctx context.Context, row Row) error {
	const sql = `
insert into bowel_records
(id, user_id, started_at, ended_at, duration_minutes, success, amount, memo, record_date, day_index)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`
	_, err := r.q.Exec(ctx, sql,
		row.ID,
		row.UserID,
		row.StartedAt,
		row.EndedAt,
		row.DurationMinutes,
		row.Success,
		row.Amount,
		row.Memo,
		row.RecordDate,
		row.DayIndex,
	)
	if err != nil {
		if perr.IsDuplicateKey(err) {
			// keep the raw duplicate visible so the allocator can retry
			return err
		}
		return perr.FromPostgres(err, "insert bowel record")
	}
	return nil
}

func (r *queries) MaxDayIndex(ctx context.Context, userID, recordDate string) (int, error) {
	const sql = `
select coalesce(max(day_index), 0)
from bowel_records
where user_id = $1 and record_date = $2
`
	var n int
	if err := r.q.QueryRow(ctx, sql, userID, recordDate).Scan(&n); err != nil {
		return 0, perr.FromPostgres(err, "max day index")
	}
	return n, nil
}

func (r *queries) ListByDate(ctx context.Context, userID, recordDate string) ([]Row, error) {
	const sql = `
select ` + rowColumns + `
from bowel_records
where user_id = $1 and record_date = $2
order by day_index asc
`
	rows, err := r.q.Query(ctx, sql, userID, recordDate)
	if err != nil {
		return nil, perr.FromPostgres(err, "list records by date")
	}
	defer rows.Close()
	var out []Row
	for rows.Next() {
		rr, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rr)
	}
	return out, rows.Err()
}

func (r *queries) GetByID(ctx context.Context, userID, id string) (Row, error) {
	const sql = `
select ` + rowColumns + `
from bowel_records
where user_id = $1 and id = $2
`
	row, err := scanRow(r.q.QueryRow(ctx, sql, userID, id))
	if err != nil {
		if perr.IsNoRows(err) {
			return Row{}, perr.NotFoundf("record %s not found", id)
		}
		return Row{}, perr.FromPostgres(err, "get record")
	}
	return row, nil
}

func (r *queries) Update(ctx context.Context, row Row) error {
	const sql = `
update bowel_records
set memo = $3, amount = $4, success = $5, record_date = $6
where user_id = $1 and id = $2
`
	tag, err := r.q.Exec(ctx, sql,
		row.UserID,
		row.ID,
		row.Memo,
		row.Amount,
		row.Success,
		row.RecordDate,
	)
	if err != nil {
		return perr.FromPostgres(err, "update record")
	}
	if tag.RowsAffected() == 0 {
		return perr.NotFoundf("record %s not found", row.ID)
	}
	return nil
}

func (r *queries) Delete(ctx context.Context, userID, id string) error {
	const sql = `delete from bowel_records where user_id = $1 and id = $2`
	tag, err := r.q.Exec(ctx, sql, userID, id)
	if err != nil {
		return perr.FromPostgres(err, "delete record")
	}
	if tag.RowsAffected() == 0 {
		return perr.NotFoundf("record %s not found", id)
	}
	return nil
}

func (r *queries) DayCounts(ctx context.Context, userID, fromDate, toDate string) ([]DayCountRow, error) {
	const sql = `
select record_date::text, count(*)::int, count(*) filter (where success)::int
from bowel_records
where user_id = $1 and record_date >= $2 and record_date < $3
group by record_date
order by record_date asc
`
	rows, err := r.q.Query(ctx, sql, userID, fromDate, toDate)
	if err != nil {
		return nil, perr.FromPostgres(err, "day counts")
	}
	defer rows.Close()
	var out []DayCountRow
	for rows.Next() {
		var rr DayCountRow
		if err := rows.Scan(&rr.RecordDate, &rr.Count, &rr.SuccessCount); err != nil {
			return nil, err
		}
		out = append(out, rr)
	}
	return out, rows.Err()
}
