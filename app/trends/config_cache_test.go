package trends

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfigCache_Run_DefaultsOnly(t *testing.T) {
	cache := NewConfigCache(filepath.Join(t.TempDir(), "missing"))
	if err := cache.Run(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cache.GetConfigCount() != len(Categories) {
		t.Errorf("Expected %d configs, got %d", len(Categories), cache.GetConfigCount())
	}

	breaking := cache.GetConfig(CategoryBreakingNews)
	if breaking.RefreshInterval != 1800 {
		t.Errorf("Expected breaking news refresh 1800s, got %d", breaking.RefreshInterval)
	}

	trending := cache.GetConfig(CategoryTrending)
	if trending.RefreshInterval != 3600 {
		t.Errorf("Expected default refresh 3600s, got %d", trending.RefreshInterval)
	}
	if !trending.Enabled {
		t.Error("Expected categories enabled by default")
	}
	if trending.MaxItems != 10 {
		t.Errorf("Expected default max items 10, got %d", trending.MaxItems)
	}
}

func TestConfigCache_Run_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	override := "enabled: false\nrefresh_interval: 7200\nkeywords:\n  - custom keyword\n"
	if err := os.WriteFile(filepath.Join(dir, "funding-investments.yml"), []byte(override), 0644); err != nil {
		t.Fatalf("Failed to write override file: %v", err)
	}

	cache := NewConfigCache(dir)
	if err := cache.Run(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	funding := cache.GetConfig(CategoryFunding)
	if funding.Enabled {
		t.Error("Expected funding category disabled by override")
	}
	if funding.RefreshInterval != 7200 {
		t.Errorf("Expected overridden refresh 7200s, got %d", funding.RefreshInterval)
	}
	if len(funding.Keywords) != 1 || funding.Keywords[0] != "custom keyword" {
		t.Errorf("Expected overridden keywords, got %v", funding.Keywords)
	}
	// Keys the file omits keep their defaults.
	if funding.MaxItems != 10 {
		t.Errorf("Expected default max items preserved, got %d", funding.MaxItems)
	}

	// Other categories keep their defaults entirely.
	if !cache.GetConfig(CategoryTrending).Enabled {
		t.Error("Expected untouched category to stay enabled")
	}
}

func TestConfigCache_Run_InvalidYAMLFails(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "breaking-news.yml"), []byte("enabled: [not a bool"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	cache := NewConfigCache(dir)
	if err := cache.Run(); err == nil {
		t.Error("Expected error for invalid YAML")
	}
}

func TestConfigCache_GetEnabledConfigs(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "security-hacking.yml"), []byte("enabled: false\n"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	cache := NewConfigCache(dir)
	if err := cache.Run(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	enabled := cache.GetEnabledConfigs()
	if len(enabled) != len(Categories)-1 {
		t.Errorf("Expected %d enabled configs, got %d", len(Categories)-1, len(enabled))
	}
	if _, ok := enabled[CategorySecurity]; ok {
		t.Error("Expected disabled category excluded from enabled set")
	}
}

func TestConfigCache_GetConfig_UnknownCategory(t *testing.T) {
	cache := NewConfigCache("")

	config := cache.GetConfig(Category("Made Up"))
	if config == nil {
		t.Fatal("Expected a usable config for unknown category")
	}
	if config.GetRefreshInterval() != 3600*time.Second {
		t.Errorf("Expected default refresh interval, got %v", config.GetRefreshInterval())
	}
}
