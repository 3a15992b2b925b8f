// Package config loads the command line client settings: a YAML file,
// then SITELINK_* environment overrides, then optional secrets from SSM.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"sitelink.com/sitelink/infrastructure/devops"
	"sitelink.com/sitelink/location"
	"sitelink.com/sitelink/utils"
)

type SlackConfig struct {
	Token        string `yaml:"token"`
	InfoChannel  string `yaml:"info_channel"`
	ErrorChannel string `yaml:"error_channel"`
	// APIURL overrides the Slack endpoint.
	APIURL       string `yaml:"api_url"`
}

type ReportConfig struct {
	Bucket     string   `yaml:"bucket"`
	Sender     string   `yaml:"sender"`
	Recipients []string `yaml:"recipients"`
}

type Config struct {
	APIURL      string        `yaml:"api_url"`
	Timeout     time.Duration `yaml:"timeout"`
	SessionFile string        `yaml:"session_file"`
	TimeZone    string        `yaml:"time_zone"`
	Debug       bool          `yaml:"debug"`

	// Site position reported with check-ins.
	Latitude  *float64 `yaml:"latitude"`
	Longitude *float64 `yaml:"longitude"`

	// SecretsParameter names an SSM parameter holding devops.Secrets.
	SecretsParameter string       `yaml:"secrets_parameter"`
	Slack            SlackConfig  `yaml:"slack"`
	Report           ReportConfig `yaml:"report"`
}

func dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".sitelink"
	}
	return filepath.Join(home, ".sitelink")
}

// DefaultPath is ~/.sitelink/config.yaml.
func DefaultPath() string {
	return filepath.Join(dir(), "config.yaml")
}

func Default() Config {
	return Config{
		APIURL:      "http://localhost:8080",
		Timeout:     15 * time.Second,
		SessionFile: filepath.Join(dir(), "session.yaml"),
		TimeZone:    "Australia/Brisbane",
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides settings from SITELINK_* variables.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	set := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set("SITELINK_API_URL", &c.APIURL)
	set("SITELINK_SESSION_FILE", &c.SessionFile)
	set("SITELINK_TIME_ZONE", &c.TimeZone)
	set("SITELINK_SECRETS_PARAMETER", &c.SecretsParameter)
	set("SLACK_BOT_TOKEN", &c.Slack.Token)
	set("SLACK_INFO_CHANNEL", &c.Slack.InfoChannel)
	set("SLACK_ERROR_CHANNEL", &c.Slack.ErrorChannel)
	set("SLACK_API_URL", &c.Slack.APIURL)
	set("SITELINK_REPORT_BUCKET", &c.Report.Bucket)

	if v := getenv("SITELINK_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SITELINK_TIMEOUT: %w", err)
		}
		c.Timeout = d
	}
	if v := getenv("SITELINK_DEBUG"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SITELINK_DEBUG: %w", err)
		}
		c.Debug = b
	}
	if v := getenv("SITELINK_LOCATION"); v != "" {
		lat, lng, ok := strings.Cut(v, ",")
		if !ok {
			return fmt.Errorf("SITELINK_LOCATION: expected \"lat,lng\", got %q", v)
		}
		la, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
		if err != nil {
			return fmt.Errorf("SITELINK_LOCATION latitude: %w", err)
		}
		lo, err := strconv.ParseFloat(strings.TrimSpace(lng), 64)
		if err != nil {
			return fmt.Errorf("SITELINK_LOCATION longitude: %w", err)
		}
		c.Latitude, c.Longitude = &la, &lo
	}
	if v := getenv("SITELINK_REPORT_RECIPIENTS"); v != "" {
		c.Report.Recipients = strings.Split(v, ",")
	}
	return nil
}

// ApplySecrets fills settings left empty by the file and environment.
func (c *Config) ApplySecrets(s *devops.Secrets) {
	fill := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	fill(&c.Slack.Token, s.SlackToken)
	fill(&c.Slack.InfoChannel, s.SlackInfoChannel)
	fill(&c.Slack.ErrorChannel, s.SlackErrorChannel)
	fill(&c.Report.Sender, s.ReportSender)
	fill(&c.Report.Bucket, s.ReportBucket)
	if len(c.Report.Recipients) == 0 {
		c.Report.Recipients = s.ReportRecipients
	}
}

func (c Config) Zone() *time.Location {
	return utils.LoadZone(c.TimeZone)
}

// Locator reports the configured site position, or Denied when none is set.
func (c Config) Locator() location.Locator {
	if c.Latitude == nil || c.Longitude == nil {
		return location.Denied{}
	}
	return location.Static{Fix: location.Fix{Latitude: *c.Latitude, Longitude: *c.Longitude}}
}
