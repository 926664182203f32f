package trends

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// ConfigCache holds the per-category fetch configurations. Every category
// starts from its compiled-in default; a YAML file named after the category
// slug (e.g. breaking-news.yml) overrides it.
type ConfigCache struct {
	categoriesDir string
	cache         map[Category]*Config
	mu            sync.RWMutex
}

func NewConfigCache(categoriesDir string) *ConfigCache {
	return &ConfigCache{
		categoriesDir: categoriesDir,
		cache:         make(map[Category]*Config),
	}
}

// Run populates the cache with defaults and applies any override files.
func (cc *ConfigCache) Run() error {
	cc.mu.Lock()
	for _, category := range Categories {
		cc.cache[category] = defaultConfig(category)
	}
	cc.mu.Unlock()

	if _, err := os.Stat(cc.categoriesDir); os.IsNotExist(err) {
		slog.Debug("No categories directory, using defaults", "dir", cc.categoriesDir)
		return nil
	}

	for _, category := range Categories {
		file := filepath.Join(cc.categoriesDir, category.Slug()+".yml")
		if _, err := os.Stat(file); os.IsNotExist(err) {
			continue
		}

		config, err := cc.loadFile(category, file)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		cc.mu.Lock()
		cc.cache[category] = config
		cc.mu.Unlock()

		slog.Debug("Category configuration loaded", "category", category,
			"enabled", config.Enabled, "refresh_interval", config.RefreshInterval)
	}

	return nil
}

// loadFile reads one override file. Unmarshalling over the default config
// keeps defaults for keys the file omits.
func (cc *ConfigCache) loadFile(category Category, path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	config := defaultConfig(category)
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(config.Keywords) == 0 {
		config.Keywords = category.Keywords()
	}
	if config.MaxItems == 0 {
		config.MaxItems = defaultMaxItems
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// GetConfig always returns a usable config; unknown categories get the
// trending defaults.
func (cc *ConfigCache) GetConfig(category Category) *Config {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	if config, ok := cc.cache[category]; ok {
		return config
	}
	return defaultConfig(category)
}

func (cc *ConfigCache) GetConfigs() map[Category]*Config {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	configsCopy := make(map[Category]*Config, len(cc.cache))
	for k, v := range cc.cache {
		configsCopy[k] = v
	}
	return configsCopy
}

func (cc *ConfigCache) GetEnabledConfigs() map[Category]*Config {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	enabled := make(map[Category]*Config)
	for k, v := range cc.cache {
		if v.Enabled {
			enabled[k] = v
		}
	}
	return enabled
}

func (cc *ConfigCache) GetConfigCount() int {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return len(cc.cache)
}
