// Package config loads bookeditor settings from defaults, an optional YAML
// file and BOOKEDITOR_ environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/yanlinsun/bookeditor/internal/book"
	"github.com/yanlinsun/bookeditor/internal/metadata"
	"github.com/yanlinsun/bookeditor/internal/reader"
)

// Config is the resolved configuration.
type Config struct {
	DefaultTitle    string            `mapstructure:"default_title" yaml:"default_title"`
	IgnoreThreshold int               `mapstructure:"ignore_threshold" yaml:"ignore_threshold"`
	MaxIndent       int               `mapstructure:"max_indent" yaml:"max_indent"`
	SiteAliases     map[string]string `mapstructure:"site_aliases" yaml:"site_aliases"`
	LogLevel        string            `mapstructure:"log_level" yaml:"log_level"`
	StateDir        string            `mapstructure:"state_dir" yaml:"state_dir"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	aliases := make(map[string]string, len(metadata.DefaultSiteAliases))
	for k, v := range metadata.DefaultSiteAliases {
		aliases[k] = v
	}
	return &Config{
		IgnoreThreshold: book.DefaultIgnoreThreshold,
		MaxIndent:       2,
		SiteAliases:     aliases,
		LogLevel:        "info",
		StateDir:        defaultStateDir(),
	}
}

func defaultStateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "bookeditor")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "bookeditor")
	}
	return filepath.Join(home, ".local", "state", "bookeditor")
}

// Manager handles loading and hot-reloading configuration.
type Manager struct {
	v *viper.Viper

	mu        sync.RWMutex
	config    *Config
	callbacks []func(*Config)
}

// NewManager creates a config manager and loads the initial config. An empty
// cfgFile searches the working directory and the user config directory for
// config.yaml; a missing file is not an error.
func NewManager(cfgFile string) (*Manager, error) {
	cm := &Manager{v: viper.New()}
	if err := cm.initViper(cfgFile); err != nil {
		return nil, err
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg
	return cm, nil
}

func (cm *Manager) initViper(cfgFile string) error {
	v := cm.v
	defaults := DefaultConfig()
	v.SetDefault("default_title", defaults.DefaultTitle)
	v.SetDefault("ignore_threshold", defaults.IgnoreThreshold)
	v.SetDefault("max_indent", defaults.MaxIndent)
	v.SetDefault("site_aliases", defaults.SiteAliases)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("state_dir", defaults.StateDir)

	v.SetEnvPrefix("BOOKEDITOR")
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "bookeditor"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

func (cm *Manager) load() (*Config, error) {
	var cfg Config
	if err := cm.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// ConfigFile returns the file the config was read from, if any.
func (cm *Manager) ConfigFile() string {
	return cm.v.ConfigFileUsed()
}

// Get returns the current configuration.
func (cm *Manager) Get() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// OnChange registers a callback for config changes.
func (cm *Manager) OnChange(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, fn)
}

// WatchConfig reloads the config whenever its file changes and runs the
// OnChange callbacks. It reports false when no config file was read, as
// there is nothing to watch.
func (cm *Manager) WatchConfig() bool {
	if cm.v.ConfigFileUsed() == "" {
		return false
	}
	cm.v.OnConfigChange(func(fsnotify.Event) {
		cfg, err := cm.load()
		if err != nil {
			return
		}

		cm.mu.Lock()
		cm.config = cfg
		callbacks := make([]func(*Config), len(cm.callbacks))
		copy(callbacks, cm.callbacks)
		cm.mu.Unlock()

		for _, fn := range callbacks {
			fn(cfg)
		}
	})
	cm.v.WatchConfig()
	return true
}

// ReaderOptions converts the config into parsing options.
func (c *Config) ReaderOptions(logger *slog.Logger) reader.Options {
	return reader.Options{
		DefaultTitle:    c.DefaultTitle,
		IgnoreThreshold: c.IgnoreThreshold,
		MaxIndent:       c.MaxIndent,
		SiteAliases:     c.SiteAliases,
		Logger:          logger,
	}
}

// Level maps LogLevel to a slog level, defaulting to info.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WriteDefault writes the default configuration to path.
func WriteDefault(path string) error {
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# bookeditor configuration
# Every key can be overridden by an environment variable, e.g. BOOKEDITOR_IGNORE_THRESHOLD=120

`)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(path, append(header, data...), 0o644)
}
