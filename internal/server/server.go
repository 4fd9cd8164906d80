// Package server assembles all HTTP handlers and starts the server.
package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/lodestar-hq/lodestar/internal/filter"
	"github.com/lodestar-hq/lodestar/internal/handler"
	"github.com/lodestar-hq/lodestar/internal/search"
	"github.com/lodestar-hq/lodestar/internal/store"
	"github.com/lodestar-hq/lodestar/internal/suggest"
)

// Config holds server configuration.
type Config struct {
	Addr  string
	Store *store.Store
	Log   zerolog.Logger
}

// Router builds the full route tree over the given store. Split out from
// Run so tests can mount it directly.
func Router(st *store.Store, log zerolog.Logger) http.Handler {
	exec := search.NewExecutor(st, log)
	engine := suggest.NewEngine(st)
	filters := filter.NewService(st)

	sh := handler.NewSearchHandler(exec, log)
	gh := handler.NewSuggestHandler(engine, log)
	fh := handler.NewFilterHandler(filters, log)
	th := handler.NewTypeaheadHandler(exec, engine, log)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler { return handler.Recovery(log, next) })
	r.Use(func(next http.Handler) http.Handler { return handler.Logging(log, next) })

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Post("/v1/search", sh.Search)
	r.Post("/v1/search/quick", sh.QuickSearch)
	r.Get("/v1/suggest", gh.Suggest)

	r.Post("/v1/filters", fh.Save)
	r.Get("/v1/filters", fh.List)
	r.Patch("/v1/filters/{id}", fh.Update)
	r.Delete("/v1/filters/{id}", fh.Delete)

	r.Get("/v1/typeahead", th.ServeHTTP)

	return r
}

// Run starts the HTTP server with all routes registered and shuts it down
// when ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: Router(cfg.Store, cfg.Log),
	}

	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	cfg.Log.Info().Str("addr", cfg.Addr).Msg("starting server")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
