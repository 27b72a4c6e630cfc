// Package module wires the timer into the API using modkit
package module

import (
	"net/http"

	modkit "gutlog/internal/modkit"
	"gutlog/internal/modkit/httpkit"
	"gutlog/internal/platform/clock"
	"gutlog/internal/platform/logger"
	str "gutlog/internal/platform/strings"
	recordsdom "gutlog/internal/services/api/records/domain"
	timerhttp "gutlog/internal/services/api/timer/http"
	timersvc "gutlog/internal/services/api/timer/service"
)

// Ports are the cross-module dependencies the timer module consumes
type Ports struct {
	// Records files the bowel record when a completed run is confirmed
	Records recordsdom.CreatorPort
}

// Module implements the modkit.Module interface
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws   []func(http.Handler) http.Handler
	ports any

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc timersvc.Service
}

// New constructs a timer module with the provided dependencies and options
// pass the records CreatorPort via modkit.WithPorts(Ports{...})
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("timer"), modkit.WithPrefix("/timer")}, opts...)...)

	var records recordsdom.CreatorPort
	if p, ok := b.Ports.(Ports); ok {
		records = p.Records
	}

	svc := timersvc.New(deps.KV, clock.System{}, records, *logger.Named("timer"))

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		ports:     b.Ports,
		subrouter: b.Subrouter,
		svc:       svc,
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		timerhttp.Register(r, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }
