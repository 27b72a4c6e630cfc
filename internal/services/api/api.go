// Package api provides the HTTP API for the application
package api

import (
	"net/http"

	"gutlog/internal/platform/config"
	"gutlog/internal/platform/logger"
	phttp "gutlog/internal/platform/net/http"
	"gutlog/internal/platform/store"

	"gutlog/internal/modkit"
	"gutlog/internal/modkit/httpkit"
	"gutlog/internal/modkit/module"

	foodsmod "gutlog/internal/services/api/foods/module"
	metamod "gutlog/internal/services/api/meta/module"
	recordsdom "gutlog/internal/services/api/records/domain"
	recordsmod "gutlog/internal/services/api/records/module"
	timermod "gutlog/internal/services/api/timer/module"

	identrepo "gutlog/internal/services/ident/repo"
	identsvc "gutlog/internal/services/ident/service"
)

// Options are the API options
type Options struct {
	Config config.Conf
	Store  *store.Store
	Logger *logger.Logger
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.Store.PG,
		KV:  opt.Store.KV,
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}

	// bearer tokens resolve through ident before any protected handler runs
	ident := identsvc.New(deps.PG, identrepo.NewPG())
	authPort := httpkit.NewPortFunc(func(req *http.Request, token string) (string, error) {
		id, err := ident.Verify(req.Context(), token)
		if err != nil {
			return "", err
		}
		return id.UserID, nil
	})

	// construct records first and extract its creator port for the timer handoff
	records := recordsmod.New(deps)
	creator := module.MustPortsOf[recordsdom.CreatorPort](records)

	timer := timermod.New(deps, modkit.WithPorts(timermod.Ports{Records: creator}))

	public := []module.Module{
		metamod.New(deps),
		foodsmod.New(deps),
	}
	protected := []module.Module{
		records,
		timer,
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		for _, m := range public {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
		}

		httpkit.Protected(api, authPort, func(sec httpkit.Router) {
			for _, m := range protected {
				module.Register(m.Name(), m.Ports())
				m.MountRoutes(sec)
			}
		})
	})
}
