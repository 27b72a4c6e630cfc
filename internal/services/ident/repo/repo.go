// Package repo provides postgres access for ident token lookups
package repo

import (
	"context"

	"gutlog/internal/modkit/repokit"
	perr "gutlog/internal/platform/errors"
	"gutlog/internal/services/ident/domain"
)

type (
	// PG implements the domain.Repo interface using Postgres
	PG struct{}

	queries struct{ q repokit.Queryer }
)

// NewPG creates a new Postgres repository binder
func NewPG() repokit.Binder[domain.Repo] { return PG{} }

// Bind binds a Postgres queryer to the Repo implementation
func (PG) Bind(q repokit.Queryer) domain.Repo { return &queries{q: q} }

func (r *queries) UserIDForToken(ctx context.Context, tokenHash string) (string, bool, error) {
	const sql = `
select user_id::text
from api_tokens
where token_hash = $1
and revoked_at is null
`
	var userID string
	err := r.q.QueryRow(ctx, sql, tokenHash).Scan(&userID)
	if err != nil {
		if perr.IsNoRows(err) {
			return "", false, nil
		}
		return "", false, perr.FromPostgres(err, "ident token lookup")
	}
	return userID, true, nil
}
