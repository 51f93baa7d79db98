// Package config provides Viper-based configuration loading for the sheet engine.
package config

import (
	"fmt"
	"net"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection URL with credentials escaped.
//
// Precondition: Host, Port, User, and Name must be non-empty.
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     "/" + d.Name,
		RawQuery: url.Values{"sslmode": {d.SSLMode}}.Encode(),
	}
	return u.String()
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// Output is "stderr" or a file path; empty means stderr.
	Output string `mapstructure:"output"`
}

// RulesConfig holds table rules that change how the rage tracker behaves.
type RulesConfig struct {
	// AutomatedRage enables rage checks on shifting and the Lost the Wolf prompt.
	AutomatedRage bool `mapstructure:"automated_rage"`
}

// ContentConfig locates the YAML content loaded at startup.
type ContentConfig struct {
	// GiftsFile is the gift type catalog.
	GiftsFile string `mapstructure:"gifts_file"`
	// ModifiersDir holds situational modifier definitions, one or more per file.
	ModifiersDir string `mapstructure:"modifiers_dir"`
}

// ScriptingConfig bounds the Lua predicates attached to modifiers.
type ScriptingConfig struct {
	// InstructionLimit caps the opcodes a single predicate may execute; 0 = default.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// Config is the top-level application configuration.
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Rules     RulesConfig     `mapstructure:"rules"`
	Content   ContentConfig   `mapstructure:"content"`
	Scripting ScriptingConfig `mapstructure:"scripting"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var problems []string
	problems = append(problems, c.Database.problems()...)
	problems = append(problems, c.Logging.problems()...)
	problems = append(problems, c.Content.problems()...)
	if c.Scripting.InstructionLimit < 0 {
		problems = append(problems, fmt.Sprintf("scripting.instruction_limit must be >= 0, got %d", c.Scripting.InstructionLimit))
	}
	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(problems, "; "))
	}
	return nil
}

var sslModes = []string{"disable", "require", "verify-ca", "verify-full"}

func (d DatabaseConfig) problems() []string {
	var p []string
	for key, val := range map[string]string{"host": d.Host, "user": d.User, "name": d.Name} {
		if val == "" {
			p = append(p, "database."+key+" must not be empty")
		}
	}
	slices.Sort(p)
	if d.Port < 1 || d.Port > 65535 {
		p = append(p, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if !slices.Contains(sslModes, d.SSLMode) {
		p = append(p, fmt.Sprintf("database.sslmode must be one of %v, got %q", sslModes, d.SSLMode))
	}
	switch {
	case d.MaxConns < 1:
		p = append(p, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	case d.MinConns < 0:
		p = append(p, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	case d.MinConns > d.MaxConns:
		p = append(p, "database.min_conns must not exceed database.max_conns")
	}
	return p
}

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"json", "console"}
)

func (l LoggingConfig) problems() []string {
	var p []string
	if !slices.Contains(logLevels, l.Level) {
		p = append(p, fmt.Sprintf("logging.level must be one of %v, got %q", logLevels, l.Level))
	}
	if !slices.Contains(logFormats, l.Format) {
		p = append(p, fmt.Sprintf("logging.format must be one of %v, got %q", logFormats, l.Format))
	}
	if l.Output == "stdout" {
		p = append(p, "logging.output must not be stdout; the sheet console owns it")
	}
	return p
}

func (c ContentConfig) problems() []string {
	var p []string
	if c.GiftsFile == "" {
		p = append(p, "content.gifts_file must not be empty")
	}
	if c.ModifiersDir == "" {
		p = append(p, "content.modifiers_dir must not be empty")
	}
	return p
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with WTA_ prefix
	v.SetEnvPrefix("WTA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var defaults = map[string]any{
	"database.host":              "localhost",
	"database.port":              5432,
	"database.user":              "wta",
	"database.password":          "wta",
	"database.name":              "wta",
	"database.sslmode":           "disable",
	"database.max_conns":         4,
	"database.min_conns":         1,
	"database.max_conn_lifetime": "1h",

	"logging.level":  "info",
	"logging.format": "console",
	"logging.output": "stderr",

	"rules.automated_rage": true,

	"content.gifts_file":    "content/gifts.yaml",
	"content.modifiers_dir": "content/modifiers",

	"scripting.instruction_limit": 0,
}

func setDefaults(v *viper.Viper) {
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
}
