// Package service contains foods listing workflows
package service

import (
	"context"

	"gutlog/internal/modkit/repokit"
	"gutlog/internal/services/api/foods/domain"
	"gutlog/internal/services/api/foods/repo"
)

const defaultPageSize = 20

// Service defines the service contract for foods
type Service interface{ domain.ServicePort }

// Svc implements the Service interface
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner
}

// New creates a new foods service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo]) *Svc {
	if db == nil {
		panic("foods.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("foods.Service requires a non nil Repo binder")
	}
	return &Svc{Repo: binder.Bind(db), binder: binder, db: db}
}

// List returns one page of foods plus the total for the filter
func (s *Svc) List(ctx context.Context, in domain.ListInput) ([]domain.Food, int, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	size := in.PageSize
	if size < 1 || size > 100 {
		size = defaultPageSize
	}

	total, err := s.Repo.Count(ctx, in.Category)
	if err != nil {
		return nil, 0, err
	}
	rows, err := s.Repo.List(ctx, in.Category, size, (page-1)*size)
	if err != nil {
		return nil, 0, err
	}

	out := make([]domain.Food, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.Food{
			ID:          r.ID,
			Name:        r.Name,
			Category:    r.Category,
			Description: r.Description,
		})
	}
	return out, total, nil
}
