package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Config is the complete tradelog configuration.
type Config struct {
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	Server   ServerConfig   `json:"server" yaml:"server"`
	Auth     AuthConfig     `json:"auth" yaml:"auth"`
	Proposal ProposalConfig `json:"proposal" yaml:"proposal"`
	Ledger   LedgerConfig   `json:"ledger" yaml:"ledger"`
	Logging  LoggingConfig  `json:"logging" yaml:"logging"`
}

// JournalConfig selects the trade store.
type JournalConfig struct {
	Type    string `json:"type" yaml:"type"` // "sqlite" or "postgres"
	DBPath  string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	DSN     string `json:"dsn,omitempty" yaml:"dsn,omitempty"`
	UserID  string `json:"user_id,omitempty" yaml:"user_id,omitempty"`
	Dataset string `json:"dataset,omitempty" yaml:"dataset,omitempty"`
}

// ServerConfig contains HTTP API parameters.
type ServerConfig struct {
	Listen       string `json:"listen" yaml:"listen"`
	ReadTimeout  string `json:"read_timeout,omitempty" yaml:"read_timeout,omitempty"`   // e.g. "15s"
	WriteTimeout string `json:"write_timeout,omitempty" yaml:"write_timeout,omitempty"` // e.g. "30s"
}

// AuthConfig gates the HTTP API. An empty User disables the gate.
type AuthConfig struct {
	User         string `json:"user,omitempty" yaml:"user,omitempty"`
	PasswordHash string `json:"password_hash,omitempty" yaml:"password_hash,omitempty"` // bcrypt
	Realm        string `json:"realm,omitempty" yaml:"realm,omitempty"`
}

// Enabled reports whether requests must authenticate.
func (a AuthConfig) Enabled() bool {
	return a.User != ""
}

// ProposalConfig points at the trade proposal generator.
type ProposalConfig struct {
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	Token    string `json:"token,omitempty" yaml:"token,omitempty"`
	Timeout  string `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// LedgerConfig controls ledger parsing.
type LedgerConfig struct {
	// Timezone of zone-less export timestamps, an IANA name. Empty is UTC.
	Timezone string `json:"timezone,omitempty" yaml:"timezone,omitempty"`
}

// Location resolves Timezone.
func (l LedgerConfig) Location() (*time.Location, error) {
	if l.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(l.Timezone)
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `json:"level" yaml:"level"`   // debug, info, warn, error
	Format string `json:"format" yaml:"format"` // json or console
}

// ParseDuration converts a duration string, treating empty as def.
func ParseDuration(s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	return time.ParseDuration(s)
}

// LoadFromFile loads configuration from a file (YAML or JSON)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// ApplyEnv loads the given .env files (".env" when none are named, skipped
// if absent) and overlays TRADELOG_* variables onto c. Variables already set
// in the process environment win over .env entries.
func (c *Config) ApplyEnv(files ...string) error {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); err == nil {
			files = []string{".env"}
		}
	}
	if len(files) > 0 {
		if err := godotenv.Load(files...); err != nil {
			return fmt.Errorf("load env: %w", err)
		}
	}

	c.Journal.Type = getEnv("TRADELOG_JOURNAL_TYPE", c.Journal.Type)
	c.Journal.DBPath = getEnv("TRADELOG_DB_PATH", c.Journal.DBPath)
	c.Journal.DSN = getEnv("DATABASE_URL", c.Journal.DSN)
	c.Journal.DSN = getEnv("TRADELOG_DATABASE_URL", c.Journal.DSN)
	c.Journal.UserID = getEnv("TRADELOG_USER_ID", c.Journal.UserID)
	c.Journal.Dataset = getEnv("TRADELOG_DATASET", c.Journal.Dataset)

	c.Server.Listen = getEnv("TRADELOG_LISTEN", c.Server.Listen)

	c.Auth.User = getEnv("TRADELOG_AUTH_USER", c.Auth.User)
	c.Auth.PasswordHash = getEnv("TRADELOG_AUTH_PASSWORD_HASH", c.Auth.PasswordHash)

	c.Proposal.Endpoint = getEnv("TRADELOG_PROPOSAL_ENDPOINT", c.Proposal.Endpoint)
	c.Proposal.Token = getEnv("TRADELOG_PROPOSAL_TOKEN", c.Proposal.Token)

	c.Ledger.Timezone = getEnv("TRADELOG_TIMEZONE", c.Ledger.Timezone)

	c.Logging.Level = getEnv("TRADELOG_LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = getEnv("TRADELOG_LOG_FORMAT", c.Logging.Format)
	return nil
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Journal.Type {
	case "sqlite":
		if c.Journal.DBPath == "" {
			return errors.New("journal db_path required for sqlite type")
		}
	case "postgres":
		if c.Journal.DSN == "" {
			return errors.New("journal dsn required for postgres type")
		}
	default:
		return fmt.Errorf("journal.type must be 'sqlite' or 'postgres', got %q", c.Journal.Type)
	}
	if c.Server.Listen == "" {
		return errors.New("server.listen is required")
	}
	for name, d := range map[string]string{
		"server.read_timeout":  c.Server.ReadTimeout,
		"server.write_timeout": c.Server.WriteTimeout,
		"proposal.timeout":     c.Proposal.Timeout,
	} {
		if _, err := ParseDuration(d, 0); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	if c.Auth.Enabled() && c.Auth.PasswordHash == "" {
		return errors.New("auth.password_hash required when auth.user is set")
	}
	if _, err := c.Ledger.Location(); err != nil {
		return fmt.Errorf("ledger.timezone: %w", err)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be 'json' or 'console', got %q", c.Logging.Format)
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Journal: JournalConfig{
			Type:    "sqlite",
			DBPath:  "./tradelog.db",
			Dataset: "default",
		},
		Server: ServerConfig{
			Listen:       ":8080",
			ReadTimeout:  "15s",
			WriteTimeout: "30s",
		},
		Auth: AuthConfig{
			Realm: "tradelog",
		},
		Proposal: ProposalConfig{
			Timeout: "60s",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
