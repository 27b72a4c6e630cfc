// Package http provides http transport for records
package http

import (
	stdhttp "net/http"

	"gutlog/internal/modkit/httpkit"
	perr "gutlog/internal/platform/errors"
	"gutlog/internal/services/api/records/domain"
	svc "gutlog/internal/services/api/records/service"
)

// Register mounts records endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.PostJSON[domain.CreateInput](r, "/", h.create)
	httpkit.Get(r, "/", h.listByDate)
	httpkit.Get(r, "/summary/{month}", h.monthSummary)
	httpkit.Get(r, "/{id}", h.get)
	httpkit.PatchJSON[domain.UpdateInput](r, "/{id}", h.update)
	httpkit.Delete(r, "/{id}", h.remove)
}

type handlers struct{ svc svc.Service }

func (h *handlers) create(r *stdhttp.Request, in domain.CreateInput) (any, error) {
	uid, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}
	out, err := h.svc.Create(r.Context(), uid, in)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(out), nil
}

func (h *handlers) listByDate(r *stdhttp.Request) (any, error) {
	uid, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}
	date := r.URL.Query().Get("date")
	if date == "" {
		return nil, perr.WithField(perr.Validationf("date query parameter is required"), "date")
	}
	return h.svc.ListByDate(r.Context(), uid, date)
}

func (h *handlers) monthSummary(r *stdhttp.Request) (any, error) {
	uid, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}
	return h.svc.MonthSummary(r.Context(), uid, httpkit.Param(r, "month"))
}

func (h *handlers) get(r *stdhttp.Request) (any, error) {
	uid, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}
	return h.svc.GetByID(r.Context(), uid, httpkit.Param(r, "id"))
}

func (h *handlers) update(r *stdhttp.Request, in domain.UpdateInput) (any, error) {
	uid, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Update(r.Context(), uid, httpkit.Param(r, "id"), in)
}

func (h *handlers) remove(r *stdhttp.Request) (any, error) {
	uid, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}
	if err := h.svc.Delete(r.Context(), uid, httpkit.Param(r, "id")); err != nil {
		return nil, err
	}
	return httpkit.NoContent(), nil
}
