package server

import (
	"io/fs"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/hyprflux/hyprflux/internal/auth"
	"github.com/hyprflux/hyprflux/internal/database"
	"github.com/hyprflux/hyprflux/internal/generate"
	"github.com/hyprflux/hyprflux/internal/handlers"
	"github.com/hyprflux/hyprflux/internal/history"
	mw "github.com/hyprflux/hyprflux/internal/middleware"
	"github.com/hyprflux/hyprflux/internal/scheduler"
	"github.com/hyprflux/hyprflux/internal/secrets"
	ws "github.com/hyprflux/hyprflux/internal/websocket"
)

type Server struct {
	Router    *chi.Mux
	DB        *database.DB
	Auth      *auth.Service
	Secrets   *secrets.Manager
	Store     *history.Store
	Scheduler *scheduler.Scheduler
	WSHub     *ws.Hub
}

type Config struct {
	DB           *database.DB
	Auth         *auth.Service
	Secrets      *secrets.Manager
	Store        *history.Store
	Scheduler    *scheduler.Scheduler
	Orchestrator *generate.Orchestrator
	FrontendFS   fs.FS
	Port         int
}

func New(cfg Config) (*Server, error) {
	authHandler, err := handlers.NewAuthHandler(cfg.DB, cfg.Auth)
	if err != nil {
		return nil, err
	}

	s := &Server{
		Router:    chi.NewRouter(),
		DB:        cfg.DB,
		Auth:      cfg.Auth,
		Secrets:   cfg.Secrets,
		Store:     cfg.Store,
		Scheduler: cfg.Scheduler,
		WSHub:     ws.NewHub(cfg.Auth, authHandler.Locked, cfg.Port),
	}

	s.setupMiddleware()
	s.setupRoutes(cfg, authHandler)
	s.setupFrontend(cfg.FrontendFS)

	return s, nil
}

func (s *Server) setupMiddleware() {
	s.Router.Use(chiMiddleware.RealIP)
	s.Router.Use(mw.RequestID)
	s.Router.Use(mw.SecurityHeaders)
	s.Router.Use(mw.Logger)
	s.Router.Use(mw.CORS)
	s.Router.Use(chiMiddleware.Recoverer)
}

func (s *Server) setupRoutes(cfg Config, authHandler *handlers.AuthHandler) {
	broadcast := handlers.Broadcaster(s.WSHub.Broadcast)

	catalogHandler := handlers.NewCatalogHandler(s.DB)
	generateHandler := handlers.NewGenerateHandler(s.DB, cfg.Orchestrator, s.Secrets, broadcast)
	historyHandler := handlers.NewHistoryHandler(s.Store, broadcast)
	settingsHandler := handlers.NewSettingsHandler(s.DB, s.Secrets, s.Scheduler)
	systemHandler := handlers.NewSystemHandler(s.Store)

	s.Router.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Route("/auth", func(r chi.Router) {
			r.With(mw.RateLimit(handlers.LoginRateLimit, handlers.LoginRateWindow)).
				Post("/login", authHandler.Login)
			r.Get("/status", authHandler.Status)
		})

		r.Get("/system/health", systemHandler.Health)

		// WebSocket (lock handled internally)
		r.Get("/ws", s.WSHub.HandleWS)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(mw.AccessLock(s.Auth, authHandler.Locked))

			r.Post("/auth/logout", authHandler.Logout)

			r.Route("/catalog", func(r chi.Router) {
				r.Get("/families", catalogHandler.Families)
				r.Get("/models/{modelID}", catalogHandler.Model)
			})

			r.Route("/generate", func(r chi.Router) {
				r.Post("/", generateHandler.Generate)
				r.Get("/status", generateHandler.Status)
			})

			r.Route("/history", func(r chi.Router) {
				r.Get("/", historyHandler.List)
				r.Delete("/", historyHandler.Clear)
				r.Get("/export", historyHandler.Export)
				r.Post("/import", historyHandler.Import)
				r.Get("/{id}/file", historyHandler.File)
				r.Delete("/{id}", historyHandler.Delete)
			})

			r.Route("/settings", func(r chi.Router) {
				r.Get("/api-key", settingsHandler.GetAPIKey)
				r.Put("/api-key", settingsHandler.UpdateAPIKey)
				r.Get("/form-values/{modelID}", settingsHandler.GetFormValues)
				r.Put("/form-values/{modelID}", settingsHandler.UpdateFormValues)
				r.Get("/retention", settingsHandler.GetRetention)
				r.Put("/retention", settingsHandler.UpdateRetention)
				r.Put("/access-lock", authHandler.SetAccessLock)
			})
		})
	})
}

func (s *Server) setupFrontend(frontendFS fs.FS) {
	if frontendFS == nil {
		return
	}
	fileServer := http.FileServer(http.FS(frontendFS))

	s.Router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}

		path := r.URL.Path
		if path == "/" {
			path = "/index.html"
		}

		f, err := frontendFS.Open(strings.TrimPrefix(path, "/"))
		if err == nil {
			f.Close()
			fileServer.ServeHTTP(w, r)
			return
		}

		// SPA fallback: unknown paths get index.html
		r.URL.Path = "/"
		fileServer.ServeHTTP(w, r)
	})
}
