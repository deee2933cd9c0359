package main

import (
	"encoding/json"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"fuseparty/internal/config"
	"fuseparty/internal/dict"
	"fuseparty/internal/game"
	localMiddleware "fuseparty/internal/middleware"
	"fuseparty/internal/store"
	"fuseparty/internal/transport"
)

// buildServer wires the dictionary, registry, and websocket hub and
// returns the HTTP handler plus the registry for shutdown. Split from
// main so tests can stand up the whole stack.
func buildServer(cfg *config.ServerConfig) (http.Handler, *store.Registry, error) {
	dictionary, err := dict.Load(dict.Mode(cfg.Dictionary.Mode), cfg.Dictionary.Path)
	if err != nil {
		return nil, nil, err
	}

	gen, err := store.NewCodeGenerator(cfg.Room.CodeAlphabet, cfg.Room.CodeLength, rand.Float64)
	if err != nil {
		return nil, nil, err
	}

	hub := transport.NewHub()
	registry := store.NewRegistry(gen, dictionary, hub, store.Options{
		Timings: game.Timings{
			Countdown:   time.Duration(cfg.Game.CountdownMs) * time.Millisecond,
			InitialBomb: time.Duration(cfg.Game.InitialBombSeconds) * time.Second,
			EndGrace:    time.Duration(cfg.Game.EndGraceMs) * time.Millisecond,
			DecayFactor: cfg.Game.BombDecayFactor,
		},
		DefaultRules: game.DefaultRules(),
		QueueSize:    cfg.Room.CommandQueueSize,
		IdleTimeout:  cfg.Room.IdleTimeout,
	})
	hub.Bind(registry)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(localMiddleware.RequestSizeLimiter(cfg.Server.MaxRequestSize))
	r.Use(localMiddleware.SecurityHeaders())

	rateLimiter := localMiddleware.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateLimitBurst)
	r.Use(rateLimiter.Middleware())

	r.Get("/ws", func(w http.ResponseWriter, req *http.Request) {
		transport.ServeWS(hub, w, req)
	})

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Readiness fails while file mode is configured but the fallback
	// list is installed: the process is up but not playable.
	r.Get("/readyz", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		status := http.StatusOK
		if cfg.Dictionary.Mode == "file" && dictionary.UsingFallback() {
			status = http.StatusServiceUnavailable
		}
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{
			"ready":         status == http.StatusOK,
			"usingFallback": dictionary.UsingFallback(),
			"dictionary":    dictionary.Stats(),
			"rooms":         registry.RoomCount(),
		})
	})

	return r, registry, nil
}
