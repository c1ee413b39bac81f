package config

import (
	"log"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone = "Asia/Taipei"

	configPathEnv    = "SLACK_TO_JOURNAL_CONFIG"
	slackBotTokenEnv = "SLACK_BOT_TOKEN"
	slackChannelsEnv = "SLACK_TARGET_CHANNELS"
	geminiAPIKeyEnv  = "GEMINI_API_KEY"
	geminiModelEnv   = "GEMINI_MODEL"
	driveFolderIDEnv = "GOOGLE_DRIVE_FOLDER_ID"
	driveTokenEnv    = "GOOGLE_ACCESS_TOKEN"
	databasePathEnv  = "DATABASE_PATH"
	logLevelEnv      = "LOG_LEVEL"

	// ExcludeKeywordsEnv supplies extra exclusion keywords, comma-separated.
	// Merged with the configured list at rule-set construction, not here.
	ExcludeKeywordsEnv = "SLACK_EXCLUDE_KEYWORDS"
)

// Config holds high-level settings required across the application.
type Config struct {
	Slack     SlackConfig     `yaml:"slack"`
	Gemini    GeminiConfig    `yaml:"gemini"`
	Drive     DriveConfig     `yaml:"drive"`
	Journal   JournalConfig   `yaml:"journal"`
	Database  DatabaseConfig  `yaml:"database"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// SlackConfig describes the workspace message source.
type SlackConfig struct {
	BotToken        string   `yaml:"botToken"`
	TargetChannels  []string `yaml:"targetChannels"`
	ExcludeKeywords []string `yaml:"excludeKeywords"`
}

// GeminiConfig defines how to contact the Gemini API.
type GeminiConfig struct {
	Endpoint    string  `yaml:"endpoint"`
	Model       string  `yaml:"model"`
	APIKey      string  `yaml:"apiKey"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"maxTokens"`
}

// DriveConfig wires the cloud exporter.
type DriveConfig struct {
	AccessToken string `yaml:"accessToken"`
	FolderID    string `yaml:"folderId"`
	Upload      bool   `yaml:"upload"`
}

// JournalConfig controls output rendering and placement.
type JournalConfig struct {
	OutputDir string `yaml:"outputDir"`
	// UserFilter restricts the journal to one author; author names are
	// embedded in output lines only when no filter is set.
	UserFilter string `yaml:"userFilter"`
}

// DatabaseConfig describes the local SQLite archive.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// SchedulerConfig defines when the weekly run should trigger.
type SchedulerConfig struct {
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// LoggingConfig selects the log level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads YAML configuration (if present) and applies environment
// overrides. An empty path falls back to the SLACK_TO_JOURNAL_CONFIG env
// variable; a missing or broken file degrades to defaults.
func Load(path string) Config {
	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
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
	if v := os.Getenv(slackBotTokenEnv); v != "" {
		c.Slack.BotToken = v
	}

	if v := os.Getenv(slackChannelsEnv); v != "" {
		c.Slack.TargetChannels = splitList(v)
	}

	if v := os.Getenv(geminiAPIKeyEnv); v != "" {
		c.Gemini.APIKey = v
	}

	if v := os.Getenv(geminiModelEnv); v != "" {
		c.Gemini.Model = v
	}

	if v := os.Getenv(driveFolderIDEnv); v != "" {
		c.Drive.FolderID = v
	}

	if v := os.Getenv(driveTokenEnv); v != "" {
		c.Drive.AccessToken = v
	}

	if v := os.Getenv(databasePathEnv); v != "" {
		c.Database.Path = v
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
	if override.Slack.BotToken != "" {
		base.Slack.BotToken = override.Slack.BotToken
	}
	if len(override.Slack.TargetChannels) > 0 {
		base.Slack.TargetChannels = override.Slack.TargetChannels
	}
	if len(override.Slack.ExcludeKeywords) > 0 {
		base.Slack.ExcludeKeywords = override.Slack.ExcludeKeywords
	}

	if override.Gemini.Endpoint != "" {
		base.Gemini.Endpoint = override.Gemini.Endpoint
	}
	if override.Gemini.Model != "" {
		base.Gemini.Model = override.Gemini.Model
	}
	if override.Gemini.APIKey != "" {
		base.Gemini.APIKey = override.Gemini.APIKey
	}
	if override.Gemini.Temperature != 0 {
		base.Gemini.Temperature = override.Gemini.Temperature
	}
	if override.Gemini.MaxTokens != 0 {
		base.Gemini.MaxTokens = override.Gemini.MaxTokens
	}

	if override.Drive.AccessToken != "" {
		base.Drive.AccessToken = override.Drive.AccessToken
	}
	if override.Drive.FolderID != "" {
		base.Drive.FolderID = override.Drive.FolderID
	}
	if override.Drive.Upload {
		base.Drive.Upload = true
	}

	if override.Journal.OutputDir != "" {
		base.Journal.OutputDir = override.Journal.OutputDir
	}
	if override.Journal.UserFilter != "" {
		base.Journal.UserFilter = override.Journal.UserFilter
	}

	if override.Database.Path != "" {
		base.Database.Path = override.Database.Path
	}

	if override.Scheduler.CronExpression != "" {
		base.Scheduler.CronExpression = override.Scheduler.CronExpression
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
		Slack: SlackConfig{
			ExcludeKeywords: []string{"sync"},
		},
		Gemini: GeminiConfig{
			Endpoint:    "https://generativelanguage.googleapis.com/v1beta",
			Model:       "gemini-2.5-flash",
			Temperature: 0.1,
			MaxTokens:   8192,
		},
		Drive:    DriveConfig{Upload: false},
		Journal:  JournalConfig{OutputDir: "journals"},
		Database: DatabaseConfig{Path: "journals/archive.db"},
		Scheduler: SchedulerConfig{
			CronExpression: "0 17 * * 5",
			Timezone:       defaultTimezone,
			location:       tz,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
