// Package config provides Viper-based configuration loading for the battle engine.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL connection settings for the roster store.
type DatabaseConfig struct {
	// Enabled switches roster loading from YAML species files to PostgreSQL.
	Enabled         bool          `mapstructure:"enabled"`
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

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// BattleConfig holds the policy knobs of the battle engine.
type BattleConfig struct {
	// TieBreak selects the randomness used for equal-speed ordering: "crypto" or "seeded".
	TieBreak string `mapstructure:"tie_break"`
	// Seed feeds the seeded source. Ignored for "crypto".
	Seed int64 `mapstructure:"seed"`
	// MinDamage is the lowest damage a landed attack deals. 0 disables the floor.
	MinDamage int `mapstructure:"min_damage"`
	// Mode is "roster" (swaps allowed) or "single" (one creature per side).
	Mode string `mapstructure:"mode"`
	// ScriptDir holds optional Lua battle hooks; empty disables scripting.
	ScriptDir string `mapstructure:"script_dir"`
	// InstructionLimit caps Lua opcodes per hook call; 0 uses the scripting default.
	InstructionLimit int `mapstructure:"instruction_limit"`
	// RestoreOnEnd resets every roster creature to full HP once a battle ends.
	RestoreOnEnd bool `mapstructure:"restore_on_end"`
}

// TracingConfig holds OpenTelemetry export settings.
type TracingConfig struct {
	// Endpoint is the OTLP/HTTP collector URL; empty disables export.
	Endpoint string `mapstructure:"endpoint"`
	// ServiceName is reported as the service.name resource attribute.
	ServiceName string `mapstructure:"service_name"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
	Database DatabaseConfig `mapstructure:"database"`
	Battle   BattleConfig   `mapstructure:"battle"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Tracing.Endpoint != "" && c.Tracing.ServiceName == "" {
		errs = append(errs, "tracing.service_name must not be empty when tracing.endpoint is set")
	}
	if c.Database.Enabled {
		if err := validateDatabase(c.Database); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if err := validateBattle(c.Battle); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateBattle(b BattleConfig) error {
	var errs []string
	validTieBreaks := map[string]bool{"crypto": true, "seeded": true}
	if !validTieBreaks[b.TieBreak] {
		errs = append(errs, fmt.Sprintf("battle.tie_break must be one of [crypto, seeded], got %q", b.TieBreak))
	}
	validModes := map[string]bool{"roster": true, "single": true}
	if !validModes[b.Mode] {
		errs = append(errs, fmt.Sprintf("battle.mode must be one of [roster, single], got %q", b.Mode))
	}
	if b.MinDamage < 0 {
		errs = append(errs, fmt.Sprintf("battle.min_damage must be >= 0, got %d", b.MinDamage))
	}
	if b.InstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("battle.instruction_limit must be >= 0, got %d", b.InstructionLimit))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with BATTLE_ prefix
	v.SetEnvPrefix("BATTLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	return LoadFromViper(v)
}

// Default returns the configuration built from defaults alone.
//
// Postcondition: Returns a Config that passes Validate.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	cfg, err := LoadFromViper(v)
	if err != nil {
		panic("config: defaults fail validation: " + err.Error())
	}
	return cfg
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

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("tracing.endpoint", "")
	v.SetDefault("tracing.service_name", "creaturebattle")

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "battle")
	v.SetDefault("database.password", "battle")
	v.SetDefault("database.name", "battle")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("battle.tie_break", "crypto")
	v.SetDefault("battle.seed", 0)
	v.SetDefault("battle.min_damage", 0)
	v.SetDefault("battle.mode", "roster")
	v.SetDefault("battle.script_dir", "")
	v.SetDefault("battle.instruction_limit", 0)
	v.SetDefault("battle.restore_on_end", true)
}
