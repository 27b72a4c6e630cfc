// Package http provides http transport for foods
package http

import (
	stdhttp "net/http"
	"strconv"

	"gutlog/internal/modkit/httpkit"
	perr "gutlog/internal/platform/errors"
	"gutlog/internal/services/api/foods/domain"
	svc "gutlog/internal/services/api/foods/service"
)

// Register mounts foods endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/", h.list)
}

type handlers struct{ svc svc.Service }

func (h *handlers) list(r *stdhttp.Request) (any, error) {
	q := r.URL.Query()

	in := domain.ListInput{Category: q.Get("category")}
	if in.Category != "" && in.Category != domain.CategoryHelpful && in.Category != domain.CategoryHarmful {
		return nil, perr.WithField(perr.Validationf("category must be helpful or harmful"), "category")
	}

	var err error
	if in.Page, err = intParam(q.Get("page")); err != nil {
		return nil, perr.WithField(err, "page")
	}
	if in.PageSize, err = intParam(q.Get("page_size")); err != nil {
		return nil, perr.WithField(err, "page_size")
	}

	items, total, err := h.svc.List(r.Context(), in)
	if err != nil {
		return nil, err
	}
	page := in.Page
	if page < 1 {
		page = 1
	}
	return httpkit.List(items, total, page, len(items)), nil
}

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, perr.Validationf("expected a non-negative integer, got %q", s)
	}
	return n, nil
}
