package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/centraunit/ioc"
)

type appConfig struct {
	Addr            string
	Greeting        string
	ShutdownTimeout time.Duration
}

// visitStore counts greetings per name.
type visitStore struct {
	mu     sync.Mutex
	visits map[string]int
}

func (s *visitStore) visit(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visits[name]++
	return s.visits[name]
}

// register adds the demo components:
//
//	config -> store -> router -> server
//	config ----------------------^
//
// plus a prototype "request-id" built per request.
func register(c *ioc.Container, logger *slog.Logger) error {
	steps := []func() error{
		func() error {
			return c.AddSingleton("config", func() (any, error) {
				timeout, err := time.ParseDuration(c.GetPropertyOr("shutdown.timeout", "5s"))
				if err != nil {
					return nil, fmt.Errorf("shutdown.timeout: %w", err)
				}
				return &appConfig{
					Addr:            c.GetPropertyOr("http.addr", ":8080"),
					Greeting:        c.GetPropertyOr("greeting", "Hello"),
					ShutdownTimeout: timeout,
				}, nil
			})
		},
		func() error {
			return c.AddSingleton("store", func() (any, error) {
				return &visitStore{visits: make(map[string]int)}, nil
			})
		},
		func() error {
			return c.AddPrototype("request-id", func() (any, error) {
				return uuid.NewString(), nil
			})
		},
		func() error {
			return c.AddSingleton("router", func() (any, error) {
				return newRouter(c), nil
			})
		},
		func() error {
			return c.AddSingleton("server", func() (any, error) {
				cfg := ioc.MustGet[*appConfig](c, "config")
				return &http.Server{
					Addr:              cfg.Addr,
					Handler:           ioc.MustGet[http.Handler](c, "router"),
					ReadHeaderTimeout: 5 * time.Second,
				}, nil
			})
		},
		func() error { return c.AddSingletonDependency("store", "config") },
		func() error { return c.AddSingletonDependency("router", "store") },
		func() error { return c.AddSingletonDependency("server", "router") },
		func() error { return c.AddSingletonDependency("server", "config") },
		func() error {
			return c.AddInitializer(func() error {
				logger.Info("components ready", "order", c.InitOrder())
				return nil
			})
		},
		func() error {
			return c.AddDestructor(func() error {
				srv := ioc.MustGet[*http.Server](c, "server")
				cfg := ioc.MustGet[*appConfig](c, "config")
				ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
				defer cancel()
				return srv.Shutdown(ctx)
			})
		},
	}

	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func newRouter(c *ioc.Container) http.Handler {
	cfg := ioc.MustGet[*appConfig](c, "config")
	store := ioc.MustGet[*visitStore](c, "store")

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if id, err := ioc.Get[string](c, "request-id"); err == nil {
				w.Header().Set("X-Request-ID", id)
			}
			next.ServeHTTP(w, req)
		})
	})

	r.Get("/hello/{name}", func(w http.ResponseWriter, req *http.Request) {
		name := chi.URLParam(req, "name")
		writeJSON(w, http.StatusOK, map[string]any{
			"message": fmt.Sprintf("%s, %s!", cfg.Greeting, name),
			"visits":  store.visit(name),
		})
	})

	r.Get("/debug/container", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"state":      c.State().String(),
			"init_order": c.InitOrder(),
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
