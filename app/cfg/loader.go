package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Database configuration
	DBHost     string `long:"db-host" env:"DB_HOST" default:"localhost" description:"Database host"`
	DBPort     string `long:"db-port" env:"DB_PORT" default:"5432" description:"Database port"`
	DBUser     string `long:"db-user" env:"DB_USER" default:"trends_user" description:"Database user"`
	DBPassword string `long:"db-password" env:"DB_PASSWORD" default:"trends_password" description:"Database password (required)" required:"true"`
	DBName     string `long:"db-name" env:"DB_NAME" default:"trend_comb" description:"Database name"`

	// Application configuration
	CategoriesDir     string `long:"categories-dir" env:"CATEGORIES_DIR" default:"./categories" description:"Directory containing category configuration files"`
	Port              string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	WorkerCount       int    `long:"worker-count" env:"WORKER_COUNT" default:"3" description:"Number of background workers for fetch processing"`
	SchedulerInterval int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"60" description:"Scheduler interval in seconds"`
	APIAccessKey      string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Grok completion endpoint
	GrokAPIURL string `long:"grok-api-url" env:"GROK_API_URL" default:"https://api.x.ai/v1" description:"Grok API base URL"`
	GrokAPIKey string `long:"grok-api-key" env:"GROK_API_KEY" description:"Grok API key (required)" required:"true"`
	GrokModel  string `long:"grok-model" env:"GROK_MODEL" default:"grok-3-latest" description:"Grok model used for trend search and draft generation"`

	// Blog CRUD publish surface
	BlogAPIURL string `long:"blog-api-url" env:"BLOG_API_URL" description:"Blog CRUD API base URL for publishing (optional)"`
	BlogAPIKey string `long:"blog-api-key" env:"BLOG_API_KEY" description:"Blog CRUD API key"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Trend Comb/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBHost:            raw.DBHost,
		DBPort:            raw.DBPort,
		DBUser:            raw.DBUser,
		DBPassword:        raw.DBPassword,
		DBName:            raw.DBName,
		CategoriesDir:     raw.CategoriesDir,
		Port:              raw.Port,
		WorkerCount:       raw.WorkerCount,
		SchedulerInterval: raw.SchedulerInterval,
		APIAccessKey:      raw.APIAccessKey,
		GrokAPIURL:        raw.GrokAPIURL,
		GrokAPIKey:        raw.GrokAPIKey,
		GrokModel:         raw.GrokModel,
		BlogAPIURL:        raw.BlogAPIURL,
		BlogAPIKey:        raw.BlogAPIKey,
		UserAgent:         raw.UserAgent,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		loc, err := time.LoadLocation(timezone)
		if err != nil {
			return err
		}
		time.Local = loc
	}
	return nil
}
