package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/theirongolddev/reserva/internal/model"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds all reserva configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Currency   CurrencyConfig   `toml:"currency"`
	Appearance AppearanceConfig `toml:"appearance"`
	Server     ServerConfig     `toml:"server"`
}

// GeneralConfig holds projection defaults.
type GeneralConfig struct {
	MaxMonths int    `toml:"max_months"`
	PlanFile  string `toml:"plan_file,omitempty"`
	LogLevel  string `toml:"log_level,omitempty"`
}

// CurrencyConfig controls how amounts are printed.
type CurrencyConfig struct {
	Symbol    string `toml:"symbol"`
	Thousands string `toml:"thousands"`
	Decimal   string `toml:"decimal"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// ServerConfig holds settings for `reserva serve`.
type ServerConfig struct {
	Addr         string `toml:"addr"`
	EventsBuffer int    `toml:"events_buffer"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			MaxMonths: 24,
			LogLevel:  "info",
		},
		Currency: CurrencyConfig{
			Symbol:    "R$",
			Thousands: ".",
			Decimal:   ",",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Server: ServerConfig{
			Addr:         "127.0.0.1:8788",
			EventsBuffer: 200,
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "reserva")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "reserva")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
// A .env file in the working directory and RESERVA_* variables are applied
// on top of the file.
func Load() (Config, error) {
	cfg := DefaultConfig()

	// Missing .env is the common case.
	_ = godotenv.Load()

	data, err := os.ReadFile(ConfigPath())
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	case !os.IsNotExist(err):
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// ApplyEnv overrides cfg with values from the environment.
func ApplyEnv(cfg *Config) error {
	if v := os.Getenv("RESERVA_MAX_MONTHS"); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("RESERVA_MAX_MONTHS: %w", err)
		}
		cfg.General.MaxMonths = n
	}
	if v := os.Getenv("RESERVA_CURRENCY_SYMBOL"); v != "" {
		cfg.Currency.Symbol = v
	}
	if v := os.Getenv("RESERVA_THEME"); v != "" {
		cfg.Appearance.Theme = v
	}
	if v := os.Getenv("RESERVA_SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.General.LogLevel = v
	}
	return nil
}

// Validate reports settings that would make projections or formatting
// meaningless.
func (c Config) Validate() error {
	var errs []error
	if c.General.MaxMonths < 1 {
		errs = append(errs, fmt.Errorf("general.max_months must be at least 1, got %d", c.General.MaxMonths))
	}
	if c.General.MaxMonths > model.MaxMonthsLimit {
		errs = append(errs, fmt.Errorf("general.max_months must be at most %d, got %d", model.MaxMonthsLimit, c.General.MaxMonths))
	}
	if utf8.RuneCountInString(c.Currency.Decimal) != 1 {
		errs = append(errs, fmt.Errorf("currency.decimal must be a single character, got %q", c.Currency.Decimal))
	}
	if utf8.RuneCountInString(c.Currency.Thousands) > 1 {
		errs = append(errs, fmt.Errorf("currency.thousands must be at most one character, got %q", c.Currency.Thousands))
	}
	if c.Currency.Thousands == c.Currency.Decimal {
		errs = append(errs, fmt.Errorf("currency.thousands and currency.decimal are both %q", c.Currency.Decimal))
	}
	if c.Server.EventsBuffer < 0 {
		errs = append(errs, fmt.Errorf("server.events_buffer must not be negative, got %d", c.Server.EventsBuffer))
	}
	return errors.Join(errs...)
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
