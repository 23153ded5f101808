package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures everything movieflix needs to reach the catalog and persist
// local state.
type Config struct {
	APIKey         string
	APIBaseURL     string
	ImageBaseURL   string
	DataDir        string
	StoreBackend   string
	HistoryLimit   int
	RefreshMinutes int
	LogFile        string
}

const (
	defaultConfigPath     = "~/.config/movieflix/config.toml"
	defaultAPIBaseURL     = "https://api.themoviedb.org/3"
	defaultImageBaseURL   = "https://image.tmdb.org/t/p/w500"
	defaultDataDir        = "~/.local/share/movieflix"
	defaultStoreBackend   = "file"
	defaultHistoryLimit   = 20
	defaultRefreshMinutes = 30

	// APIKeyEnv overrides api_key from the config file.
	APIKeyEnv = "TMDB_API_KEY"
)

// ErrMissingAPIKey is returned by RequireAPIKey when neither the config file
// nor the environment supplies a key.
var ErrMissingAPIKey = errors.New("tmdb api key is not configured (set api_key or " + APIKeyEnv + ")")

// Load locates and parses the movieflix config, falling back to defaults when
// missing. A .env file in the working directory is loaded first so that
// TMDB_API_KEY can live there.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	var raw struct {
		APIKey         string `toml:"api_key"`
		APIBaseURL     string `toml:"api_base_url"`
		ImageBaseURL   string `toml:"image_base_url"`
		DataDir        string `toml:"data_dir"`
		StoreBackend   string `toml:"store_backend"`
		HistoryLimit   int    `toml:"history_limit"`
		RefreshMinutes int    `toml:"refresh_minutes"`
		LogFile        string `toml:"log_file"`
	}

	file, err := os.Open(resolved)
	switch {
	case err == nil:
		defer file.Close()
		bytes, err := io.ReadAll(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(bytes, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("open config: %w", err)
	}

	cfg := Config{
		APIKey:         strings.TrimSpace(raw.APIKey),
		APIBaseURL:     orDefault(raw.APIBaseURL, defaultAPIBaseURL),
		ImageBaseURL:   orDefault(raw.ImageBaseURL, defaultImageBaseURL),
		DataDir:        mustExpand(orDefault(raw.DataDir, defaultDataDir)),
		StoreBackend:   strings.ToLower(orDefault(raw.StoreBackend, defaultStoreBackend)),
		HistoryLimit:   raw.HistoryLimit,
		RefreshMinutes: raw.RefreshMinutes,
	}
	if env := strings.TrimSpace(os.Getenv(APIKeyEnv)); env != "" {
		cfg.APIKey = env
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = defaultHistoryLimit
	}
	if cfg.RefreshMinutes <= 0 {
		cfg.RefreshMinutes = defaultRefreshMinutes
	}
	if logFile := strings.TrimSpace(raw.LogFile); logFile != "" {
		cfg.LogFile = mustExpand(logFile)
	} else {
		cfg.LogFile = filepath.Join(cfg.DataDir, "movieflix.log")
	}

	return cfg, nil
}

// RequireAPIKey reports ErrMissingAPIKey when no key is configured.
func (c Config) RequireAPIKey() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// StorePath returns the on-disk location of the key-value store for the
// configured backend.
func (c Config) StorePath() string {
	dir := c.DataDir
	if strings.TrimSpace(dir) == "" {
		dir = mustExpand(defaultDataDir)
	}
	if c.StoreBackend == "sqlite" {
		return filepath.Join(dir, "library.db")
	}
	return filepath.Join(dir, "library.json")
}

func orDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
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
