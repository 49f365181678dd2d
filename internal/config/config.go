package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone = "UTC"
	configPathEnv   = "TRACKER_SYNC_CONFIG"
	storageDSNEnv   = "STORAGE_DSN"
	cfHandleEnv     = "CODEFORCES_HANDLE"
	githubTokenEnv  = "GITHUB_TOKEN"
	githubRepoEnv   = "GITHUB_REPO"
	webhookEnv      = "DISCORD_WEBHOOK"
	logLevelEnv     = "LOG_LEVEL"
)

// Config holds high-level settings required across the application. The
// property-store lookup for per-run state (window anchor, stats snapshots)
// happens inside the use cases; everything static lives here and is passed
// into components at construction.
type Config struct {
	Storage       StorageConfig      `yaml:"storage"`
	Window        WindowConfig       `yaml:"window"`
	Codeforces    CodeforcesConfig   `yaml:"codeforces"`
	GitHub        GitHubConfig       `yaml:"github"`
	Notifications NotificationConfig `yaml:"notifications"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Logging       LoggingConfig      `yaml:"logging"`
}

// StorageConfig selects the table-store driver.
type StorageConfig struct {
	Driver string `yaml:"driver"` // "sqlite" or "postgres"
	DSN    string `yaml:"dsn"`    // file path for sqlite, connection string for postgres
}

// WindowConfig pins the tracking period. An empty start anchors the window on
// the first run and persists the anchor in the property store.
type WindowConfig struct {
	Start string `yaml:"start"` // "2006-01-02"
	Days  int    `yaml:"days"`
}

// CodeforcesConfig wires the submission provider.
type CodeforcesConfig struct {
	Handle   string `yaml:"handle"`
	BaseURL  string `yaml:"baseUrl"`
	PageSize int    `yaml:"pageSize"`
	Target   int    `yaml:"target"` // solved-problems goal shown in summaries
}

// GitHubConfig wires the commit-history provider.
type GitHubConfig struct {
	Token     string `yaml:"token"`
	Repo      string `yaml:"repo"` // "owner/name"
	BaseURL   string `yaml:"baseUrl"`
	SinceDays int    `yaml:"sinceDays"`
}

// NotificationConfig selects the summary sink: a webhook URL, or empty to
// append into the notification-log table.
type NotificationConfig struct {
	Target string `yaml:"target"`
}

// SchedulerConfig defines when the background sync runs.
type SchedulerConfig struct {
	Interval string         `yaml:"interval"` // Go duration, e.g. "24h"
	Timezone string         `yaml:"timezone"`
	location *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// IntervalDuration parses the interval, falling back to daily.
func (s SchedulerConfig) IntervalDuration() time.Duration {
	d, err := time.ParseDuration(s.Interval)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

// LoggingConfig controls slog verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(storageDSNEnv); v != "" {
		c.Storage.DSN = v
	}
	if v := os.Getenv(cfHandleEnv); v != "" {
		c.Codeforces.Handle = v
	}
	if v := os.Getenv(githubTokenEnv); v != "" {
		c.GitHub.Token = v
	}
	if v := os.Getenv(githubRepoEnv); v != "" {
		c.GitHub.Repo = v
	}
	if v := os.Getenv(webhookEnv); v != "" {
		c.Notifications.Target = v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Storage.Driver != "" {
		base.Storage.Driver = override.Storage.Driver
	}
	if override.Storage.DSN != "" {
		base.Storage.DSN = override.Storage.DSN
	}

	if override.Window.Start != "" {
		base.Window.Start = override.Window.Start
	}
	if override.Window.Days > 0 {
		base.Window.Days = override.Window.Days
	}

	if override.Codeforces.Handle != "" {
		base.Codeforces.Handle = override.Codeforces.Handle
	}
	if override.Codeforces.BaseURL != "" {
		base.Codeforces.BaseURL = override.Codeforces.BaseURL
	}
	if override.Codeforces.PageSize > 0 {
		base.Codeforces.PageSize = override.Codeforces.PageSize
	}
	if override.Codeforces.Target > 0 {
		base.Codeforces.Target = override.Codeforces.Target
	}

	if override.GitHub.Token != "" {
		base.GitHub.Token = override.GitHub.Token
	}
	if override.GitHub.Repo != "" {
		base.GitHub.Repo = override.GitHub.Repo
	}
	if override.GitHub.BaseURL != "" {
		base.GitHub.BaseURL = override.GitHub.BaseURL
	}
	if override.GitHub.SinceDays > 0 {
		base.GitHub.SinceDays = override.GitHub.SinceDays
	}

	if override.Notifications.Target != "" {
		base.Notifications.Target = override.Notifications.Target
	}

	if override.Scheduler.Interval != "" {
		base.Scheduler.Interval = override.Scheduler.Interval
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Storage:    StorageConfig{Driver: "sqlite", DSN: "tracker.db"},
		Window:     WindowConfig{Days: 365},
		Codeforces: CodeforcesConfig{PageSize: 1000, Target: 300},
		GitHub:     GitHubConfig{SinceDays: 30},
		Scheduler:  SchedulerConfig{Interval: "24h", Timezone: defaultTimezone, location: tz},
		Logging:    LoggingConfig{Level: "info"},
	}
}
