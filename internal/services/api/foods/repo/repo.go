// Package repo provides postgres access for foods
package repo

import (
	"context"

	"gutlog/internal/modkit/repokit"
	perr "gutlog/internal/platform/errors"
)

// Row is a foods row
type Row struct {
	ID          string
	Name        string
	Category    string
	Description string
}

// Repo defines the repository contract for foods
type Repo interface {
	List(ctx context.Context, category string, limit, offset int) ([]Row, error)
	Count(ctx context.Context, category string) (int, error)
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

func (r *queries) List(ctx context.Context, category string, limit, offset int) ([]Row, error) {
	const sql = `
select id::text, name, category, coalesce(description, '')
from foods
where ($1 = '' or category = $1)
order by name asc
limit $2 offset $3
`
	rows, err := r.q.Query(ctx, sql, category, limit, offset)
	if err != nil {
		return nil, perr.FromPostgres(err, "list foods")
	}
	defer rows.Close()
	var out []Row
	for rows.Next() {
		var rr Row
		if err := rows.Scan(&rr.ID, &rr.Name, &rr.Category, &rr.Description); err != nil {
			return nil, err
		}
		out = append(out, rr)
	}
	return out, rows.Err()
}

func (r *queries) Count(ctx context.Context, category string) (int, error) {
	const sql = `select count(*)::int from foods where ($1 = '' or category = $1)`
	var n int
	if err := r.q.QueryRow(ctx, sql, category).Scan(&n); err != nil {
		return 0, perr.FromPostgres(err, "count foods")
	}
	return n, nil
}
