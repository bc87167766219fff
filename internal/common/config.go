package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"

	"github.com/ternarybob/marketbrief/internal/models"
)

// Config represents the application configuration
type Config struct {
	Environment string         `toml:"environment"` // "development" or "production"
	Schedule    ScheduleConfig `toml:"schedule"`
	Provider    ProviderConfig `toml:"provider"`
	Mail        MailConfig     `toml:"mail"`
	Logging     LoggingConfig  `toml:"logging"`
	Indices     []models.IndexConfig `toml:"indices" validate:"min=1,dive"`
}

type ScheduleConfig struct {
	Enabled bool   `toml:"enabled"`
	Cron    string `toml:"cron"` // Standard 5-field cron expression
}

type ProviderConfig struct {
	BaseURL   string `toml:"base_url"`   // Override for tests; empty = Yahoo Finance
	Timeout   string `toml:"timeout"`    // Per-request timeout, e.g. "10s"
	RangeDays int    `toml:"range_days"` // Trailing trading days to request (>= 5 to tolerate holidays)
	RateLimit int    `toml:"rate_limit"` // Requests per second
}

type MailConfig struct {
	Host       string   `toml:"host" validate:"required"`
	Port       int      `toml:"port" validate:"min=1,max=65535"`
	Username   string   `toml:"username" validate:"required"`
	Password   string   `toml:"password" validate:"required"`
	From       string   `toml:"from" validate:"required,email"`
	FromName   string   `toml:"from_name"`
	UseTLS     bool     `toml:"use_tls"`
	Recipients []string `toml:"recipients" validate:"min=1,dive,email"`
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

// NewDefaultConfig returns configuration defaults. The default index list
// matches the reference brief: Indian indices first, then US.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Schedule: ScheduleConfig{
			Enabled: true,
			Cron:    "0 9 * * *", // Daily at 9:00 AM local time
		},
		Provider: ProviderConfig{
			Timeout:   "10s",
			RangeDays: 5, // Last 5 days to ensure a previous close across holidays
			RateLimit: 2,
		},
		Mail: MailConfig{
			Host:     "smtp.gmail.com",
			Port:     587,
			FromName: "MarketBrief",
			UseTLS:   true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
		Indices: []models.IndexConfig{
			{Name: "Nifty 50", Symbol: "^NSEI"},
			{Name: "Sensex", Symbol: "^BSESN"},
			{Name: "Nifty Bank", Symbol: "^NSEBANK"},
			{Name: "Nifty Next 50", Symbol: "^NSMIDCP"},
			{Name: "S&P 500", Symbol: "^GSPC"},
			{Name: "Dow Jones", Symbol: "^DJI"},
			{Name: "Nasdaq Composite", Symbol: "^IXIC"},
			{Name: "Russell 2000", Symbol: "^RUT"},
			{Name: "Nasdaq 100", Symbol: "^NDX"},
		},
	}
}

// LoadFromFiles loads configuration with priority: defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files; environment variables override all files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		// A file that declares its own [[indices]] replaces the default
		// list rather than appending to it.
		if tomlHasIndices(data) {
			config.Indices = nil
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// tomlHasIndices reports whether the raw TOML declares an [[indices]] table.
func tomlHasIndices(data []byte) bool {
	var probe struct {
		Indices []models.IndexConfig `toml:"indices"`
	}
	if err := toml.Unmarshal(data, &probe); err != nil {
		return false
	}
	return len(probe.Indices) > 0
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("MARKETBRIEF_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Logging configuration
	if level := os.Getenv("MARKETBRIEF_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	// Schedule configuration
	if expr := os.Getenv("MARKETBRIEF_SCHEDULE_CRON"); expr != "" {
		config.Schedule.Cron = expr
	}

	// Mail configuration
	if host := os.Getenv("MARKETBRIEF_MAIL_HOST"); host != "" {
		config.Mail.Host = host
	}
	if port := os.Getenv("MARKETBRIEF_MAIL_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Mail.Port = p
		}
	}
	if username := os.Getenv("MARKETBRIEF_MAIL_USERNAME"); username != "" {
		config.Mail.Username = username
	}
	if password := os.Getenv("MARKETBRIEF_MAIL_PASSWORD"); password != "" {
		config.Mail.Password = password
	}
	if from := os.Getenv("MARKETBRIEF_MAIL_FROM"); from != "" {
		config.Mail.From = from
	}
	if recipients := os.Getenv("MARKETBRIEF_MAIL_RECIPIENTS"); recipients != "" {
		list := []string{}
		for _, r := range strings.Split(recipients, ",") {
			if trimmed := strings.TrimSpace(r); trimmed != "" {
				list = append(list, trimmed)
			}
		}
		if len(list) > 0 {
			config.Mail.Recipients = list
		}
	}
}

// Validate checks the resolved configuration before services are built.
// Every run ends in a delivery attempt, so mail settings are always
// required.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := ValidateSchedule(c.Schedule.Cron); err != nil {
		return err
	}

	if _, err := c.ProviderTimeout(); err != nil {
		return err
	}

	if c.Provider.RangeDays < 2 {
		return fmt.Errorf("provider range_days must be at least 2, got %d", c.Provider.RangeDays)
	}

	return nil
}

// ProviderTimeout parses the provider timeout string.
func (c *Config) ProviderTimeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.Provider.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid provider timeout %q: %w", c.Provider.Timeout, err)
	}
	return d, nil
}

// ValidateSchedule checks a cron expression using the standard 5-field parser.
func ValidateSchedule(schedule string) error {
	if schedule == "" {
		return fmt.Errorf("schedule cron expression is empty")
	}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", schedule, err)
	}
	return nil
}
