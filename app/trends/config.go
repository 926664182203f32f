package trends

import (
	"fmt"
	"time"
)

// Config is the per-category fetch configuration. Defaults are compiled in
// for every category; YAML files in the categories directory override them.
type Config struct {
	Category        Category `yaml:"-"`
	Enabled         bool     `yaml:"enabled"`
	RefreshInterval int      `yaml:"refresh_interval"` // seconds
	MaxItems        int      `yaml:"max_items"`
	Keywords        []string `yaml:"keywords"`
}

// Breaking news refreshes faster than everything else by default.
const (
	defaultRefreshInterval      = 3600
	breakingNewsRefreshInterval = 1800
	defaultMaxItems             = 10
)

func defaultConfig(category Category) *Config {
	config := &Config{
		Category:        category,
		Enabled:         true,
		RefreshInterval: defaultRefreshInterval,
		MaxItems:        defaultMaxItems,
		Keywords:        category.Keywords(),
	}
	if category == CategoryBreakingNews {
		config.RefreshInterval = breakingNewsRefreshInterval
	}
	return config
}

// GetRefreshInterval returns the refresh cadence as a duration.
func (c *Config) GetRefreshInterval() time.Duration {
	if c.RefreshInterval <= 0 {
		return defaultRefreshInterval * time.Second
	}
	return time.Duration(c.RefreshInterval) * time.Second
}

func (c *Config) validate() error {
	if c.RefreshInterval < 0 {
		return fmt.Errorf("refresh interval must be non-negative")
	}
	if c.MaxItems < 0 {
		return fmt.Errorf("max items must be non-negative")
	}
	return nil
}
