package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures everything folio needs to reach the catalog backend.
type Config struct {
	BaseURL        string
	RequestTimeout time.Duration
	SearchDebounce time.Duration
	LogFile        string
	SessionDir     string
}

const (
	defaultConfigPath = "~/.config/folio/config.toml"
	defaultBaseURL    = "http://127.0.0.1:3000"
	defaultLogFile    = "~/.local/state/folio/folio.log"
	defaultSessionDir = "~/.config/folio"
	defaultTimeout    = 10 * time.Second
	defaultDebounce   = 500 * time.Millisecond
)

// fileConfig mirrors the on-disk TOML shape.
type fileConfig struct {
	BaseURL               string `toml:"base_url"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
	SearchDebounceMS      int    `toml:"search_debounce_ms"`
	LogFile               string `toml:"log_file"`
	SessionDir            string `toml:"session_dir"`
}

// envConfig carries environment overrides, applied on top of the file.
type envConfig struct {
	BaseURL          string `envconfig:"BASE_URL"`
	RequestTimeout   int    `envconfig:"REQUEST_TIMEOUT_SECONDS"`
	SearchDebounceMS int    `envconfig:"SEARCH_DEBOUNCE_MS"`
	LogFile          string `envconfig:"LOG_FILE"`
	SessionDir       string `envconfig:"SESSION_DIR"`
}

// Load reads the config file, falling back to defaults when it is
// missing, then applies FOLIO_* environment overrides. A .env file in
// the working directory is honored when present.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		BaseURL:        defaultBaseURL,
		RequestTimeout: defaultTimeout,
		SearchDebounce: defaultDebounce,
		LogFile:        defaultLogFile,
		SessionDir:     defaultSessionDir,
	}

	raw, err := readFile(path)
	if err != nil {
		return Config{}, err
	}
	if raw != nil {
		if v := strings.TrimSpace(raw.BaseURL); v != "" {
			cfg.BaseURL = v
		}
		if raw.RequestTimeoutSeconds > 0 {
			cfg.RequestTimeout = time.Duration(raw.RequestTimeoutSeconds) * time.Second
		}
		if raw.SearchDebounceMS > 0 {
			cfg.SearchDebounce = time.Duration(raw.SearchDebounceMS) * time.Millisecond
		}
		if v := strings.TrimSpace(raw.LogFile); v != "" {
			cfg.LogFile = v
		}
		if v := strings.TrimSpace(raw.SessionDir); v != "" {
			cfg.SessionDir = v
		}
	}

	var env envConfig
	if err := envconfig.Process("folio", &env); err != nil {
		return Config{}, fmt.Errorf("read env overrides: %w", err)
	}
	if v := strings.TrimSpace(env.BaseURL); v != "" {
		cfg.BaseURL = v
	}
	if env.RequestTimeout > 0 {
		cfg.RequestTimeout = time.Duration(env.RequestTimeout) * time.Second
	}
	if env.SearchDebounceMS > 0 {
		cfg.SearchDebounce = time.Duration(env.SearchDebounceMS) * time.Millisecond
	}
	if v := strings.TrimSpace(env.LogFile); v != "" {
		cfg.LogFile = v
	}
	if v := strings.TrimSpace(env.SessionDir); v != "" {
		cfg.SessionDir = v
	}

	cfg.LogFile = mustExpand(cfg.LogFile)
	cfg.SessionDir = mustExpand(cfg.SessionDir)

	return cfg, nil
}

// readFile returns nil when the config file does not exist.
func readFile(path string) (*fileConfig, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var raw fileConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &raw, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
