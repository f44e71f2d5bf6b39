package main

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hyprflux/hyprflux/internal/auth"
	"github.com/hyprflux/hyprflux/internal/config"
	"github.com/hyprflux/hyprflux/internal/database"
	"github.com/hyprflux/hyprflux/internal/generate"
	"github.com/hyprflux/hyprflux/internal/handlers"
	"github.com/hyprflux/hyprflux/internal/history"
	"github.com/hyprflux/hyprflux/internal/logger"
	"github.com/hyprflux/hyprflux/internal/platform"
	"github.com/hyprflux/hyprflux/internal/scheduler"
	"github.com/hyprflux/hyprflux/internal/secrets"
	"github.com/hyprflux/hyprflux/internal/server"
	"github.com/hyprflux/hyprflux/web"
)

var version = "dev"

func main() {
	if len(os.Args) == 2 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Println("hyprflux " + version)
		os.Exit(0)
	}

	logger.Banner()
	handlers.AppVersion = version

	cfg := config.Load()

	db, err := database.New(cfg.DataDir)
	if err != nil {
		logger.Fatal("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Resolve JWT secret: env var > database > generate and persist
	jwtSecret := cfg.JWTSecret
	if jwtSecret == "" {
		stored, _ := db.GetSetting("jwt_secret")
		if stored != "" {
			jwtSecret = stored
		} else {
			jwtSecret, err = secrets.GenerateKey()
			if err != nil {
				logger.Fatal("Failed to generate JWT secret: %v", err)
			}
			if err := db.SetSetting("jwt_secret", jwtSecret); err != nil {
				logger.Error("Failed to persist JWT secret: %v", err)
			}
			logger.Success("Generated and persisted JWT secret")
		}
	}
	authService := auth.NewService(jwtSecret)

	// Encryption key resolves the same way, kept separate from the JWT
	// secret so rotating one never breaks the other.
	encKey := cfg.EncryptionKey
	if encKey == "" {
		stored, _ := db.GetSetting("encryption_key")
		if stored != "" {
			encKey = stored
		} else {
			encKey, err = secrets.GenerateKey()
			if err != nil {
				logger.Fatal("Failed to generate encryption key: %v", err)
			}
			if err := db.SetSetting("encryption_key", encKey); err != nil {
				logger.Fatal("Failed to persist encryption key: %v", err)
			}
			logger.Success("Generated and persisted encryption key")
		}
	}
	secretsMgr := secrets.NewManager(encKey)

	store := history.New(db)

	client := generate.NewClient(cfg.Endpoint)
	orchestrator := generate.NewOrchestrator(client, store)

	sched := scheduler.New(db, store)

	frontendFS, err := fs.Sub(web.FrontendFS, "static")
	if err != nil {
		logger.Fatal("Failed to load frontend assets: %v", err)
	}

	srv, err := server.New(server.Config{
		DB:           db,
		Auth:         authService,
		Secrets:      secretsMgr,
		Store:        store,
		Scheduler:    sched,
		Orchestrator: orchestrator,
		FrontendFS:   frontendFS,
		Port:         cfg.Port,
	})
	if err != nil {
		logger.Fatal("Failed to initialize server: %v", err)
	}

	go srv.WSHub.Run()

	sched.SetBroadcast(srv.WSHub.Broadcast)
	sched.Start()
	defer sched.Stop()
	sched.LoadRetention()

	addr := fmt.Sprintf("%s:%d", cfg.BindAddress, cfg.Port)
	if cfg.BindAddress != "127.0.0.1" && cfg.BindAddress != "localhost" {
		logger.Warn("Binding to %s — accessible from the network. Use HYPRFLUX_BIND=127.0.0.1 for localhost-only.", cfg.BindAddress)
	}
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      srv.Router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // generation responses can take minutes; WebSocket needs it too
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		url := fmt.Sprintf("http://localhost:%d", cfg.Port)
		logger.Listen(addr, url, cfg.Port)
		if os.Getenv("HYPRFLUX_NO_OPEN") != "1" {
			platform.OpenBrowser(url)
		}
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server error: %v", err)
		}
	}()

	<-done
	logger.Shutdown("Shutting down server...")

	srv.WSHub.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Fatal("Server shutdown failed: %v", err)
	}

	logger.Bye()
}
