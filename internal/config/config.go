package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const appName = "budgetview"

// APIURLEnv overrides api.base_url when set.
const APIURLEnv = "BUDGETVIEW_API_URL"

// Config holds all budgetview configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	API        APIConfig        `toml:"api"`
	Chart      ChartConfig      `toml:"chart"`
	Server     ServerConfig     `toml:"server"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	OutputDir string `toml:"output_dir,omitempty"`
	LogLevel  string `toml:"log_level"`
}

// APIConfig points the panel at a budget server.
type APIConfig struct {
	BaseURL    string `toml:"base_url"`
	TimeoutSec int    `toml:"timeout_sec"`
}

// ChartConfig sizes the surfaces handed to both chart backends.
type ChartConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// ServerConfig holds settings for `budgetview serve`.
type ServerConfig struct {
	Addr     string `toml:"addr"`
	DBPath   string `toml:"db_path,omitempty"`
	ReadOnly bool   `toml:"read_only"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			LogLevel: "info",
		},
		API: APIConfig{
			BaseURL:    "http://localhost:4000",
			TimeoutSec: 10,
		},
		Chart: ChartConfig{
			Width:  400,
			Height: 400,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:4000",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appName)
}

// DataDir returns the XDG-compliant data directory holding the budget
// database and rendered charts.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", appName)
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// LogPath returns the file the TUI logs to.
func LogPath() string {
	return filepath.Join(ConfigDir(), appName+".log")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return toml.NewEncoder(f).Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// APIBaseURL returns the budget server URL from env var or config, in that order.
func APIBaseURL(cfg Config) string {
	if u := strings.TrimSpace(os.Getenv(APIURLEnv)); u != "" {
		return u
	}
	return cfg.API.BaseURL
}

// APITimeout returns the fetch timeout, zero meaning the client default.
func APITimeout(cfg Config) time.Duration {
	if cfg.API.TimeoutSec <= 0 {
		return 0
	}
	return time.Duration(cfg.API.TimeoutSec) * time.Second
}

// OutputDir returns where rendered charts are written.
func OutputDir(cfg Config) string {
	if cfg.General.OutputDir != "" {
		return cfg.General.OutputDir
	}
	return filepath.Join(DataDir(), "charts")
}

// DBPath returns the budget database used by `serve` and `budget`.
func DBPath(cfg Config) string {
	if cfg.Server.DBPath != "" {
		return cfg.Server.DBPath
	}
	return filepath.Join(DataDir(), "budget.db")
}

// ChartSize returns the configured surface size, falling back to 400x400.
func ChartSize(cfg Config) (int, int) {
	w, h := cfg.Chart.Width, cfg.Chart.Height
	if w <= 0 {
		w = 400
	}
	if h <= 0 {
		h = 400
	}
	return w, h
}
