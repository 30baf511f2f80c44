/*
Package config loads daybook configuration.

PURPOSE:
  One YAML file (optional) plus DAYBOOK_* environment variables describe
  how the server listens, where the ledger is stored, how logs are written,
  the rates, the initially displayed month, the seed and the settlement.
  Every key has a default, so daybook runs without any file.

ENVIRONMENT:
  Keys map to variables by upper-casing and replacing dots with
  underscores: server.port -> DAYBOOK_SERVER_PORT.

EXAMPLE:
  server:
    port: 8080
  store:
    backend: sqlite
    path: ./data/daybook.db
  rates:
    advance: "350"
  seed:
    enabled: true
    start: "2025-03-17"
*/
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/warp/daybook/calendar"
	"github.com/warp/daybook/factory"
	"github.com/warp/daybook/ledger"
	"github.com/warp/daybook/settle"
	"go.uber.org/zap/zapcore"
)

const EnvPrefix = "DAYBOOK"

// Config represents application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Store    StoreConfig    `mapstructure:"store"`
	Log      LogConfig      `mapstructure:"log"`
	Rates    RatesConfig    `mapstructure:"rates"`
	Calendar CalendarConfig `mapstructure:"calendar"`
	Seed     SeedConfig     `mapstructure:"seed"`
	Settle   SettleConfig   `mapstructure:"settle"`
}

// ServerConfig represents the HTTP listener
type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// StoreConfig selects the ledger backend
type StoreConfig struct {
	Backend string `mapstructure:"backend"` // "memory" or "sqlite"
	Path    string `mapstructure:"path"`    // sqlite only
}

// LogConfig represents logging. An empty File logs to stderr.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// RatesConfig holds decimal strings
type RatesConfig struct {
	Rest    string `mapstructure:"rest"`
	Work    string `mapstructure:"work"`
	Advance string `mapstructure:"advance"`
	Payment string `mapstructure:"payment"`
}

// CalendarConfig is the initially displayed month. Year 0 means the month
// of today; Month is 1-12.
type CalendarConfig struct {
	Year  int `mapstructure:"year"`
	Month int `mapstructure:"month"`
}

// SeedConfig is the initial ledger content. Scenario, when set, names a
// built-in scenario and the remaining fields are ignored.
type SeedConfig struct {
	Enabled  bool            `mapstructure:"enabled"`
	Scenario string          `mapstructure:"scenario"`
	Start    string          `mapstructure:"start"`
	End      string          `mapstructure:"end"` // empty means today
	RestDays []string        `mapstructure:"rest_days"`
	RestRule string          `mapstructure:"rest_rule"`
	Payments []PaymentConfig `mapstructure:"payments"`
}

// PaymentConfig is one seeded payment
type PaymentConfig struct {
	Date   string `mapstructure:"date"`
	Amount string `mapstructure:"amount"`
}

// SettleConfig is the input of the one-off settlement
type SettleConfig struct {
	Start    string   `mapstructure:"start"`
	End      string   `mapstructure:"end"`
	DaysOff  []string `mapstructure:"days_off"`
	Payments []string `mapstructure:"payments"`
}

// Load reads configPath (if non-empty) and the environment. Without a path
// the usual locations are searched and a missing file is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("daybook")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.daybook")
		v.AddConfigPath("/etc/daybook")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("store.backend", "memory")
	v.SetDefault("store.path", "./data/daybook.db")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)

	v.SetDefault("rates.rest", ledger.DefaultRestRate.String())
	v.SetDefault("rates.work", ledger.DefaultWorkRate.String())
	v.SetDefault("rates.advance", ledger.DefaultAdvanceRate.String())
	v.SetDefault("rates.payment", ledger.DefaultPaymentRate.String())

	v.SetDefault("calendar.year", 0)
	v.SetDefault("calendar.month", 0)

	v.SetDefault("seed.enabled", true)
	v.SetDefault("seed.scenario", "reference")
	v.SetDefault("seed.start", "")
	v.SetDefault("seed.end", "")
	v.SetDefault("seed.rest_days", []string{})
	v.SetDefault("seed.rest_rule", "")

	ref := settle.Reference()
	daysOff := make([]string, len(ref.DaysOff))
	for i, d := range ref.DaysOff {
		daysOff[i] = d.String()
	}
	payments := make([]string, len(ref.Payments))
	for i, p := range ref.Payments {
		payments[i] = p.String()
	}
	v.SetDefault("settle.start", ref.Start.String())
	v.SetDefault("settle.end", ref.End.String())
	v.SetDefault("settle.days_off", daysOff)
	v.SetDefault("settle.payments", payments)
}

// Validate checks every key that would otherwise fail later at startup.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}

	switch c.Store.Backend {
	case "memory":
	case "sqlite":
		if c.Store.Path == "" {
			return fmt.Errorf("store.path is required for sqlite backend")
		}
	default:
		return fmt.Errorf("store.backend must be 'memory' or 'sqlite', got '%s'", c.Store.Backend)
	}

	if _, err := c.Log.ZapLevel(); err != nil {
		return err
	}

	if _, err := c.LedgerRates(); err != nil {
		return err
	}

	if c.Calendar.Year != 0 {
		if _, err := calendar.CursorAt(c.Calendar.Year, c.Calendar.Month-1); err != nil {
			return fmt.Errorf("calendar: %w", err)
		}
	}

	if c.Seed.Enabled && c.Seed.Scenario == "" {
		if _, err := c.SeedPlan(); err != nil {
			return err
		}
	}

	if _, err := c.SettleInput(); err != nil {
		return err
	}

	return nil
}

// ZapLevel parses log.level
func (c *LogConfig) ZapLevel() (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return lvl, fmt.Errorf("log.level: %w", err)
	}
	return lvl, nil
}

// LedgerRates converts the configured rates
func (c *Config) LedgerRates() (ledger.Rates, error) {
	rates, err := factory.ParseRates(&factory.RatesJSON{
		Rest:    c.Rates.Rest,
		Work:    c.Rates.Work,
		Advance: c.Rates.Advance,
		Payment: c.Rates.Payment,
	})
	if err != nil {
		return ledger.Rates{}, fmt.Errorf("rates: %w", err)
	}
	return rates, nil
}

// Cursor returns the configured month, or ok=false for "today".
func (c *Config) Cursor() (calendar.Cursor, bool) {
	if c.Calendar.Year == 0 {
		return calendar.Cursor{}, false
	}
	cur, err := calendar.CursorAt(c.Calendar.Year, c.Calendar.Month-1)
	if err != nil {
		return calendar.Cursor{}, false
	}
	return cur, true
}

// SeedPlan converts the explicit seed fields.
func (c *Config) SeedPlan() (ledger.SeedPlan, error) {
	sj := factory.SeedJSON{
		Start:    c.Seed.Start,
		End:      c.Seed.End,
		RestDays: c.Seed.RestDays,
		RestRule: c.Seed.RestRule,
	}
	for _, p := range c.Seed.Payments {
		sj.Payments = append(sj.Payments, factory.PaymentJSON{Date: p.Date, Amount: p.Amount})
	}

	plan, err := factory.ParseSeed(sj)
	if err != nil {
		return ledger.SeedPlan{}, fmt.Errorf("seed: %w", err)
	}
	return plan, nil
}

// SettleInput converts the settle section, using the configured rest and
// work rates.
func (c *Config) SettleInput() (settle.Input, error) {
	var in settle.Input

	start, err := calendar.ParseDate(c.Settle.Start)
	if err != nil {
		return in, fmt.Errorf("settle.start: %w", err)
	}
	end, err := calendar.ParseDate(c.Settle.End)
	if err != nil {
		return in, fmt.Errorf("settle.end: %w", err)
	}
	daysOff, err := calendar.ParseDates(c.Settle.DaysOff)
	if err != nil {
		return in, fmt.Errorf("settle.days_off: %w", err)
	}

	payments := make([]decimal.Decimal, 0, len(c.Settle.Payments))
	for _, raw := range c.Settle.Payments {
		p, err := ledger.ParseAmount(raw)
		if err != nil {
			return in, fmt.Errorf("settle.payments: %w", err)
		}
		payments = append(payments, p)
	}

	rates, err := c.LedgerRates()
	if err != nil {
		return in, err
	}

	return settle.Input{
		Start:    start,
		End:      end,
		DaysOff:  daysOff,
		Payments: payments,
		RestRate: rates.Rest,
		WorkRate: rates.Work,
	}, nil
}

// Addr is the listen address
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
