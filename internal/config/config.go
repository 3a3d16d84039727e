// Package config loads promptdock settings from a YAML config file, the
// environment and built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds all runtime settings.
type Config struct {
	// LibraryDir is the managed prompt directory.
	LibraryDir string `mapstructure:"library_dir"`
	// MetadataFile backs the key-value namespace for favorites and legacy
	// records.
	MetadataFile string `mapstructure:"metadata_file"`
	// WorkspaceRoots are project directories whose doc/ trees are shown.
	WorkspaceRoots []string `mapstructure:"workspace_roots"`
	// Locale selects the collation used to order tree labels.
	Locale string `mapstructure:"locale"`
	// GeneratorURL is the base URL of the prompt-generation service.
	GeneratorURL string `mapstructure:"generator_url"`
}

// Manager handles loading and hot-reloading configuration.
type Manager struct {
	mu        sync.RWMutex
	config    *Config
	callbacks []func(*Config)
}

// NewManager creates a config manager and loads initial config. cfgFile may
// be empty, in which case the default search path is used and a missing file
// means defaults plus environment only.
func NewManager(cfgFile string) (*Manager, error) {
	m := &Manager{}

	if err := m.initViper(cfgFile); err != nil {
		return nil, err
	}

	cfg, err := m.load()
	if err != nil {
		return nil, err
	}
	m.config = cfg
	m.watch()
	return m, nil
}

func (m *Manager) initViper(cfgFile string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to resolve home directory: %w", err)
	}
	base := filepath.Join(home, ".promptdock")

	viper.SetDefault("library_dir", filepath.Join(base, "prompts"))
	viper.SetDefault("metadata_file", filepath.Join(base, "metadata.json"))
	viper.SetDefault("workspace_roots", []string{})
	viper.SetDefault("locale", "en")
	viper.SetDefault("generator_url", "http://localhost:8811")

	viper.SetEnvPrefix("PROMPTDOCK")
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(base)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				return fmt.Errorf("failed to read config: %w", err)
			}
		}
	}
	return nil
}

func (m *Manager) load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// PROMPTDOCK_DIR overrides the whole library location, matching the
	// environment-only workflow.
	if dir := os.Getenv("PROMPTDOCK_DIR"); dir != "" {
		cfg.LibraryDir = filepath.Join(dir, "prompts")
		cfg.MetadataFile = filepath.Join(dir, "metadata.json")
	}
	return &cfg, nil
}

// Get returns the current config snapshot.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// OnChange registers a callback fired after each successful reload.
func (m *Manager) OnChange(fn func(*Config)) {
	m.mu.Lock()
	m.callbacks = append(m.callbacks, fn)
	m.mu.Unlock()
}

func (m *Manager) watch() {
	viper.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := m.load()
		if err != nil {
			return
		}

		m.mu.Lock()
		m.config = cfg
		callbacks := make([]func(*Config), len(m.callbacks))
		copy(callbacks, m.callbacks)
		m.mu.Unlock()

		for _, fn := range callbacks {
			fn(cfg)
		}
	})
	viper.WatchConfig()
}
