// Package service provides the ident verifier implementation
package service

import (
	"context"

	"gutlog/internal/modkit/repokit"
	perr "gutlog/internal/platform/errors"
	"gutlog/internal/services/ident/domain"
)

// Service defines the service contract for ident
type Service interface{ domain.VerifierPort }

// Svc implements the Service interface
type Svc struct {
	Repo   domain.Repo
	binder repokit.Binder[domain.Repo]
	db     repokit.TxRunner
}

// New constructs the ident service
func New(db repokit.TxRunner, binder repokit.Binder[domain.Repo]) *Svc {
	if db == nil {
		panic("ident.Service requires a non-nil TxRunner")
	}
	if binder == nil {
		panic("ident.Service requires a non-nil Repo binder")
	}
	return &Svc{Repo: binder.Bind(db), binder: binder, db: db}
}

// Verify resolves an opaque bearer token to its owning user
func (s *Svc) Verify(ctx context.Context, token string) (domain.Identity, error) {
	if token == "" {
		return domain.Identity{}, perr.Unauthorizedf("missing bearer token")
	}
	userID, ok, err := s.Repo.UserIDForToken(ctx, domain.HashToken(token))
	if err != nil {
		return domain.Identity{}, err
	}
	if !ok {
		return domain.Identity{}, perr.Unauthorizedf("invalid bearer token")
	}
	return domain.Identity{UserID: userID}, nil
}
