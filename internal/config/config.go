// Package config loads application configuration from a YAML file and
// environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ericfisherdev/mrcoffee/internal/domain/model"
)

// DefaultConfigFile is read when no path is given. It may be absent.
const DefaultConfigFile = "mrcoffee.yaml"

// Config holds the application configuration.
type Config struct {
	GitLab   GitLabConfig  `yaml:"gitlab"`
	Publish  PublishConfig `yaml:"publish"`
	Interval time.Duration `yaml:"interval"`  // 0 runs once and exits.
	LogLevel string        `yaml:"log_level"` // debug, info, warn or error.
}

// GitLabConfig is the upstream merge request source.
type GitLabConfig struct {
	BaseURL    string   `yaml:"base_url"`
	Token      string   `yaml:"token"`
	Projects   []string `yaml:"projects"`
	IncludeWIP *bool    `yaml:"include_wip"`
}

// PublishConfig lists the chat channels that receive the summary.
type PublishConfig struct {
	Salutation string         `yaml:"salutation"`
	Slack      *ChannelConfig `yaml:"slack"`
	Teams      *ChannelConfig `yaml:"teams"`
}

// ChannelConfig is a single webhook destination.
type ChannelConfig struct {
	WebhookURL string `yaml:"webhook_url"`
}

// Source returns the fetch-side configuration.
func (c *Config) Source() model.SourceConfig {
	return model.SourceConfig{
		BaseURL:    c.GitLab.BaseURL,
		Token:      c.GitLab.Token,
		Projects:   c.GitLab.Projects,
		IncludeWIP: c.GitLab.IncludeWIP,
	}
}

// Delivery returns the notify-side configuration.
func (c *Config) Delivery() model.DeliveryConfig {
	dc := model.DeliveryConfig{Salutation: c.Publish.Salutation}
	if c.Publish.Slack != nil {
		dc.Slack = &model.WebhookTarget{WebhookURL: c.Publish.Slack.WebhookURL}
	}
	if c.Publish.Teams != nil {
		dc.Teams = &model.WebhookTarget{WebhookURL: c.Publish.Teams.WebhookURL}
	}
	return dc
}

// SlogLevel maps LogLevel to a slog.Level. Validation guarantees a known value.
func (c *Config) SlogLevel() slog.Level {
	level, _ := ParseLogLevel(c.LogLevel)
	return level
}

// ParseLogLevel accepts debug, info, warn or error in any case.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("log level %q is not one of debug, info, warn, error", s)
	}
}

// Load returns a validated Config using the hierarchy: defaults < YAML < ENV.
// An empty path reads DefaultConfigFile, which may be missing; an explicit
// path must exist.
func Load(path string) (*Config, error) {
	cfg := Config{LogLevel: "info"}

	optional := path == ""
	if optional {
		path = DefaultConfigFile
	}
	if err := loadYAML(&cfg, path, optional); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	if err := loadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config env: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

func loadYAML(cfg *Config, path string, optional bool) error {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the operator
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays MRCOFFEE_ environment variables onto cfg. Only non-empty
// values override.
func loadEnv(cfg *Config) error {
	setString(&cfg.GitLab.BaseURL, "MRCOFFEE_GITLAB_BASE_URL")
	setString(&cfg.GitLab.Token, "MRCOFFEE_GITLAB_TOKEN")
	setString(&cfg.Publish.Salutation, "MRCOFFEE_SALUTATION")
	setString(&cfg.LogLevel, "MRCOFFEE_LOG_LEVEL")

	if v := os.Getenv("MRCOFFEE_GITLAB_PROJECTS"); v != "" {
		var projects []string
		for _, id := range strings.Split(v, ",") {
			id = strings.TrimSpace(id)
			if id != "" {
				projects = append(projects, id)
			}
		}
		if len(projects) == 0 {
			return fmt.Errorf("MRCOFFEE_GITLAB_PROJECTS has no project ids in %q", v)
		}
		cfg.GitLab.Projects = projects
	}

	if v := os.Getenv("MRCOFFEE_GITLAB_INCLUDE_WIP"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("MRCOFFEE_GITLAB_INCLUDE_WIP has invalid bool %q: %w", v, err)
		}
		cfg.GitLab.IncludeWIP = &b
	}

	if v := os.Getenv("MRCOFFEE_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("MRCOFFEE_INTERVAL has invalid duration %q: %w", v, err)
		}
		cfg.Interval = d
	}

	if v := os.Getenv("MRCOFFEE_SLACK_WEBHOOK_URL"); v != "" {
		cfg.Publish.Slack = &ChannelConfig{WebhookURL: v}
	}
	if v := os.Getenv("MRCOFFEE_TEAMS_WEBHOOK_URL"); v != "" {
		cfg.Publish.Teams = &ChannelConfig{WebhookURL: v}
	}

	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func validate(cfg *Config) error {
	if cfg.GitLab.BaseURL == "" {
		return errors.New("gitlab.base_url is required")
	}
	if err := checkURL(cfg.GitLab.BaseURL); err != nil {
		return fmt.Errorf("gitlab.base_url: %w", err)
	}
	if cfg.GitLab.Token == "" {
		return errors.New("gitlab.token is required")
	}
	for i, id := range cfg.GitLab.Projects {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("gitlab.projects[%d] is empty", i)
		}
	}

	if cfg.Publish.Slack != nil {
		if err := checkURL(cfg.Publish.Slack.WebhookURL); err != nil {
			return fmt.Errorf("publish.slack.webhook_url: %w", err)
		}
	}
	if cfg.Publish.Teams != nil {
		if err := checkURL(cfg.Publish.Teams.WebhookURL); err != nil {
			return fmt.Errorf("publish.teams.webhook_url: %w", err)
		}
	}

	if cfg.Interval < 0 {
		return fmt.Errorf("interval must not be negative, got %s", cfg.Interval)
	}

	if _, err := ParseLogLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}

	return nil
}

// checkURL accepts absolute http and https URLs only. The URL itself is left
// out of the error since webhook URLs embed credentials.
func checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return errors.New("not a valid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme %q is not http or https", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("missing host")
	}
	return nil
}
