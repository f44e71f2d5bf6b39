package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          int
	BindAddress   string
	DataDir       string
	LogLevel      string
	Endpoint      string // image generation API endpoint; empty selects the built-in default
	JWTSecret     string
	EncryptionKey string
	DevMode       bool
}

func Load() *Config {
	// A .env next to the binary is a convenience for development; missing
	// files are fine.
	godotenv.Load()

	cfg := &Config{
		Port:        41818,
		BindAddress: "127.0.0.1",
		DataDir:     resolveDataDir(),
		LogLevel:    "info",
		JWTSecret:   getEnv("HYPRFLUX_JWT_SECRET", ""),
		DevMode:     getEnv("HYPRFLUX_DEV", "false") == "true",
	}

	if p := getEnv("HYPRFLUX_PORT", ""); p != "" {
		if port, err := strconv.Atoi(p); err == nil {
			cfg.Port = port
		}
	}
	if b := getEnv("HYPRFLUX_BIND", ""); b != "" {
		cfg.BindAddress = b
	}
	if d := getEnv("HYPRFLUX_DATA_DIR", ""); d != "" {
		cfg.DataDir = d
	}
	if l := getEnv("HYPRFLUX_LOG_LEVEL", ""); l != "" {
		cfg.LogLevel = l
	}
	if e := getEnv("HYPRFLUX_ENDPOINT", ""); e != "" {
		cfg.Endpoint = e
	}
	if ek := getEnv("HYPRFLUX_ENCRYPTION_KEY", ""); ek != "" {
		cfg.EncryptionKey = ek
	}

	return cfg
}

func resolveDataDir() string {
	// Resolve data dir relative to the executable, not the CWD
	exe, err := os.Executable()
	if err != nil {
		return "./data"
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "./data"
	}
	return filepath.Join(filepath.Dir(exe), "data")
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
