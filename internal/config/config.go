package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/treykane/pass-tui/internal/logging"
)

const (
	appName        = "pass-tui"
	configFileName = "config.yaml"
	logFileName    = "pass-tui.log"

	// EnvStoreDir is the variable pass itself reads for the store location.
	EnvStoreDir         = "PASSWORD_STORE_DIR"
	defaultStoreDirName = ".password-store"
)

var ErrNotConfigured = errors.New("pass-tui is not configured")

var log = logging.New("config")

// Config stores user-defined pass-tui settings. Keys overrides key bindings
// by action name, e.g. "entry.edit": "E".
type Config struct {
	StoreDir string            `yaml:"store_dir,omitempty"`
	Ignore   []string          `yaml:"ignore"`
	Preview  PreviewConfig     `yaml:"preview"`
	Watch    bool              `yaml:"watch"`
	Log      LogConfig         `yaml:"log"`
	Keys     map[string]string `yaml:"keys,omitempty"`
}

// PreviewConfig controls when secrets are revealed.
type PreviewConfig struct {
	// OnSelect reveals the hovered entry on every selection change.
	OnSelect bool `yaml:"on_select"`
}

type LogConfig struct {
	Level string `yaml:"level,omitempty"`
	File  string `yaml:"file,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Ignore:  []string{".git"},
		Preview: PreviewConfig{OnSelect: true},
		Watch:   true,
	}
}

// ConfigPath returns the configuration file path under the XDG config home.
func ConfigPath() string {
	return filepath.Join(xdg.ConfigHome, appName, configFileName)
}

// DefaultLogPath returns the log file used while the TUI owns the terminal.
func DefaultLogPath() string {
	return filepath.Join(xdg.StateHome, appName, logFileName)
}

// Exists reports whether a config file exists at path.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat config path: %w", err)
}

// Load reads the configuration at path on top of Default.
//
// A missing file yields ErrNotConfigured together with the defaults, so
// callers that treat the file as optional can ignore that error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, ErrNotConfigured
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if strings.TrimSpace(cfg.StoreDir) != "" {
		storeDir, err := NormalizeStoreDir(cfg.StoreDir)
		if err != nil {
			return Config{}, fmt.Errorf("invalid store_dir: %w", err)
		}
		cfg.StoreDir = storeDir
	}
	if cfg.Log.File != "" {
		logFile, err := NormalizeStoreDir(cfg.Log.File)
		if err != nil {
			return Config{}, fmt.Errorf("invalid log.file: %w", err)
		}
		cfg.Log.File = logFile
	}

	log.Debug("loaded config", "path", path, "store_dir", cfg.StoreDir, "ignore", len(cfg.Ignore))
	return cfg, nil
}

// Save writes configuration to path.
func Save(path string, cfg Config) error {
	if strings.TrimSpace(cfg.StoreDir) != "" {
		storeDir, err := NormalizeStoreDir(cfg.StoreDir)
		if err != nil {
			return fmt.Errorf("invalid store_dir: %w", err)
		}
		cfg.StoreDir = storeDir
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	log.Info("saved config", "path", path)
	return nil
}

// ResolveStoreDir picks the store root: the explicit flag value first, then
// PASSWORD_STORE_DIR, then store_dir from cfg, then ~/.password-store.
func ResolveStoreDir(flagValue string, cfg Config) (string, error) {
	for _, candidate := range []string{flagValue, os.Getenv(EnvStoreDir), cfg.StoreDir} {
		if strings.TrimSpace(candidate) != "" {
			return NormalizeStoreDir(candidate)
		}
	}
	return DefaultStoreDir()
}

// DefaultStoreDir returns ~/.password-store.
func DefaultStoreDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, defaultStoreDirName), nil
}

// NormalizeStoreDir expands and normalizes a path from user input.
func NormalizeStoreDir(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", errors.New("path is required")
	}

	expanded, err := expandHome(trimmed)
	if err != nil {
		return "", err
	}

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", err
	}

	return filepath.Clean(abs), nil
}

func expandHome(path string) (string, error) {
	if path == "~" {
		return os.UserHomeDir()
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
	}
	return path, nil
}
