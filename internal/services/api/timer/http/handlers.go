// Package http provides http transport for the timer
package http

import (
	stdhttp "net/http"

	"gutlog/internal/modkit/httpkit"
	"gutlog/internal/services/api/timer/domain"
	svc "gutlog/internal/services/api/timer/service"
)

// Register mounts timer endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/", h.status)
	httpkit.Post(r, "/start", h.start)
	httpkit.Post(r, "/pause", h.pause)
	httpkit.PostJSON[domain.AddTimeInput](r, "/add-time", h.addTime)
	httpkit.Post(r, "/reset", h.reset)
	httpkit.PostJSON[domain.VisibilityInput](r, "/visibility", h.visibility)
	httpkit.PostJSON[domain.CompleteInput](r, "/complete", h.complete)
}

type handlers struct{ svc svc.Service }

func (h *handlers) status(r *stdhttp.Request) (any, error) {
	uid, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Status(r.Context(), uid)
}

func (h *handlers) start(r *stdhttp.Request) (any, error) {
	uid, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Start(r.Context(), uid)
}

func (h *handlers) pause(r *stdhttp.Request) (any, error) {
	uid, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Pause(r.Context(), uid)
}

func (h *handlers) addTime(r *stdhttp.Request, in domain.AddTimeInput) (any, error) {
	uid, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}
	return h.svc.AddTime(r.Context(), uid, in.Seconds)
}

func (h *handlers) reset(r *stdhttp.Request) (any, error) {
	uid, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Reset(r.Context(), uid)
}

func (h *handlers) visibility(r *stdhttp.Request, in domain.VisibilityInput) (any, error) {
	uid, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Visibility(r.Context(), uid, in.Hidden)
}

func (h *handlers) complete(r *stdhttp.Request, in domain.CompleteInput) (any, error) {
	uid, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}
	out, err := h.svc.Complete(r.Context(), uid, in)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(out), nil
}
