// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// APIKeyEnv is read when scrapinghub.api_key is not configured.
const APIKeyEnv = "SH_APIKEY"

// Config is the top-level application configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Scrapinghub   ScrapinghubConfig   `yaml:"scrapinghub"`
	Stats         StatsConfig         `yaml:"stats"`
	Export        ExportConfig        `yaml:"export"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Watch         WatchConfig         `yaml:"watch"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	BodyLimit    string        `yaml:"body_limit"` // echo size notation, e.g. 16M
}

// ScrapinghubConfig defines the crawl job storage API settings.
type ScrapinghubConfig struct {
	APIKey        string          `yaml:"api_key"`
	BaseURL       string          `yaml:"base_url"`
	Project       string          `yaml:"project"`
	CategoriesTag string          `yaml:"categories_tag"`
	Timeout       time.Duration   `yaml:"timeout"`
	RateLimit     RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig defines client-side request throttling.
type RateLimitConfig struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

// StatsConfig tunes the statistics pipeline.
type StatsConfig struct {
	MinDays      int       `yaml:"min_days"`
	WindowDays   int       `yaml:"window_days"`
	TopGoods     int       `yaml:"top_goods"`
	Buckets      int       `yaml:"buckets"`
	BucketWidths []float64 `yaml:"bucket_widths"`
	HHIField     string    `yaml:"hhi_field"`
}

// ExportConfig defines where rendered spreadsheets go. When S3.Bucket is
// empty, files are written to Dir.
type ExportConfig struct {
	Dir string   `yaml:"dir"`
	S3  S3Config `yaml:"s3"`
}

// S3Config defines the object storage target.
type S3Config struct {
	Bucket       string `yaml:"bucket"`
	Region       string `yaml:"region"`
	Endpoint     string `yaml:"endpoint"`
	Prefix       string `yaml:"prefix"`
	UsePathStyle bool   `yaml:"use_path_style"`
}

// NotificationsConfig defines where category diff notices are sent.
type NotificationsConfig struct {
	Discord DiscordConfig `yaml:"discord"`
}

// DiscordConfig defines the Discord webhook target.
type DiscordConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
	MaxEntries int    `yaml:"max_entries"`
}

// WatchConfig schedules category diffs of the latest Scrapinghub crawls
// while the server runs.
type WatchConfig struct {
	Enabled  bool           `yaml:"enabled"`
	Interval time.Duration  `yaml:"interval"`
	Stagger  time.Duration  `yaml:"stagger"`
	Projects []WatchProject `yaml:"projects"`
}

// WatchProject is one watched Scrapinghub project. Tag defaults to
// scrapinghub.categories_tag and Kind to "full".
type WatchProject struct {
	Project string `yaml:"project"`
	Tag     string `yaml:"tag"`
	Kind    string `yaml:"kind"`
	Export  bool   `yaml:"export"`
	Notify  bool   `yaml:"notify"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse is Load for in-memory YAML.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyScrapinghubDefaults(&cfg.Scrapinghub)
	applyStatsDefaults(&cfg.Stats)
	applyExportDefaults(&cfg.Export)
	if cfg.Notifications.Discord.MaxEntries == 0 {
		cfg.Notifications.Discord.MaxEntries = 10
	}
	applyWatchDefaults(&cfg.Watch, cfg.Scrapinghub.CategoriesTag)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
	if s.BodyLimit == "" {
		s.BodyLimit = "16M"
	}
}

func applyScrapinghubDefaults(s *ScrapinghubConfig) {
	if s.APIKey == "" {
		s.APIKey = os.Getenv(APIKeyEnv)
	}
	if s.BaseURL == "" {
		s.BaseURL = "https://storage.scrapinghub.com"
	}
	if s.CategoriesTag == "" {
		s.CategoriesTag = "daily_categories"
	}
	if s.Timeout == 0 {
		s.Timeout = 60 * time.Second
	}
	if s.RateLimit.PerSecond == 0 {
		s.RateLimit.PerSecond = 2.0
	}
	if s.RateLimit.Burst == 0 {
		s.RateLimit.Burst = 4
	}
}

func applyStatsDefaults(s *StatsConfig) {
	if s.MinDays == 0 {
		s.MinDays = 30
	}
	if s.WindowDays == 0 {
		s.WindowDays = 30
	}
	if s.TopGoods == 0 {
		s.TopGoods = 5
	}
	if s.Buckets == 0 {
		s.Buckets = 6
	}
	if len(s.BucketWidths) == 0 {
		s.BucketWidths = []float64{10, 50, 100, 250, 500, 1000, 5000, 10000, 50000, 100000}
	}
}

func applyExportDefaults(e *ExportConfig) {
	if e.Dir == "" {
		e.Dir = "."
	}
	if e.S3.Region == "" {
		e.S3.Region = "us-east-1"
	}
}

func applyWatchDefaults(w *WatchConfig, tag string) {
	if w.Interval == 0 {
		w.Interval = time.Hour
	}
	if w.Stagger == 0 {
		w.Stagger = 5 * time.Second
	}
	for i := range w.Projects {
		if w.Projects[i].Tag == "" {
			w.Projects[i].Tag = tag
		}
		if w.Projects[i].Kind == "" {
			w.Projects[i].Kind = "full"
		}
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

var hhiFields = map[string]struct{}{
	"":              {},
	"brand":         {},
	"category_name": {},
	"category_url":  {},
	"id":            {},
	"name":          {},
	"url":           {},
	"bin":           {},
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535 (got %d)", cfg.Server.Port))
	}

	if cfg.Scrapinghub.RateLimit.PerSecond < 0 {
		errs = append(errs, fmt.Errorf("scrapinghub.rate_limit.per_second must not be negative"))
	}
	if cfg.Scrapinghub.RateLimit.Burst < 0 {
		errs = append(errs, fmt.Errorf("scrapinghub.rate_limit.burst must not be negative"))
	}

	if cfg.Stats.MinDays < 0 {
		errs = append(errs, fmt.Errorf("stats.min_days must not be negative"))
	}
	if cfg.Stats.WindowDays < 0 {
		errs = append(errs, fmt.Errorf("stats.window_days must not be negative"))
	}
	if cfg.Stats.TopGoods < 0 {
		errs = append(errs, fmt.Errorf("stats.top_goods must not be negative"))
	}
	if cfg.Stats.Buckets < 0 {
		errs = append(errs, fmt.Errorf("stats.buckets must not be negative"))
	}
	for _, w := range cfg.Stats.BucketWidths {
		if w <= 0 {
			errs = append(errs, fmt.Errorf("stats.bucket_widths must be positive (got %v)", w))
			break
		}
	}
	if _, ok := hhiFields[cfg.Stats.HHIField]; !ok {
		errs = append(errs, fmt.Errorf(
			"stats.hhi_field must be one of: brand, category_name, category_url, id, name, url, bin (got %q)",
			cfg.Stats.HHIField,
		))
	}

	if cfg.Notifications.Discord.Enabled && cfg.Notifications.Discord.WebhookURL == "" {
		errs = append(errs, fmt.Errorf("notifications.discord.webhook_url is required when discord is enabled"))
	}
	if cfg.Notifications.Discord.MaxEntries < 0 {
		errs = append(errs, fmt.Errorf("notifications.discord.max_entries must not be negative"))
	}

	errs = append(errs, validateWatch(&cfg.Watch)...)

	switch cfg.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be one of: text, json (got %q)", cfg.Logging.Format))
	}

	return errors.Join(errs...)
}

var diffKinds = map[string]struct{}{
	"added":   {},
	"removed": {},
	"full":    {},
}

func validateWatch(w *WatchConfig) []error {
	var errs []error
	if w.Enabled && len(w.Projects) == 0 {
		errs = append(errs, fmt.Errorf("watch.projects must not be empty when watch is enabled"))
	}
	if w.Interval < time.Minute {
		errs = append(errs, fmt.Errorf("watch.interval must be at least 1m (got %s)", w.Interval))
	}
	if w.Stagger < 0 {
		errs = append(errs, fmt.Errorf("watch.stagger must not be negative"))
	}
	for i, p := range w.Projects {
		if p.Project == "" {
			errs = append(errs, fmt.Errorf("watch.projects[%d].project is required", i))
		}
		if _, ok := diffKinds[p.Kind]; !ok {
			errs = append(errs, fmt.Errorf(
				"watch.projects[%d].kind must be one of: added, removed, full (got %q)", i, p.Kind,
			))
		}
	}
	return errs
}
