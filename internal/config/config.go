package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Trading       Trading       `mapstructure:"trading"`
	Staking       Staking       `mapstructure:"staking"`
	Market        Market        `mapstructure:"market"`
	Notifications Notifications `mapstructure:"notifications"`
	Session       Session       `mapstructure:"session"`
	Logger        Logger        `mapstructure:"logger"`
	Server        Server        `mapstructure:"server"`
	Client        Client        `mapstructure:"client"`
	Database      Database      `mapstructure:"database"`
}

// Trading holds the configuration for the trade simulator.
type Trading struct {
	LimitEUR         float64 `mapstructure:"limit_eur"`
	CountdownSeconds int     `mapstructure:"countdown_seconds"`
	DebounceMs       int     `mapstructure:"debounce_ms"`
	QuoteCurrency    string  `mapstructure:"quote_currency"`
}

// Debounce returns the derived-value debounce window.
func (t Trading) Debounce() time.Duration {
	return time.Duration(t.DebounceMs) * time.Millisecond
}

// Staking holds the configuration for the staking ledger.
type Staking struct {
	MaturingThresholdDays int `mapstructure:"maturing_threshold_days"`
	EarningsWindowDays    int `mapstructure:"earnings_window_days"`
}

// Market holds the configuration for the price reference store.
type Market struct {
	RefreshIntervalSeconds int     `mapstructure:"refresh_interval_seconds"`
	Simulate               bool    `mapstructure:"simulate"`
	Volatility             float64 `mapstructure:"volatility"`
	HistoryDays            int     `mapstructure:"history_days"`
}

// Notifications holds the configuration for transient notices.
type Notifications struct {
	DurationMs int `mapstructure:"duration_ms"`
}

// Duration returns how long a notice stays visible.
func (n Notifications) Duration() time.Duration {
	return time.Duration(n.DurationMs) * time.Millisecond
}

// Session holds the configuration for the session store.
type Session struct {
	Key string `mapstructure:"key"`
}

// Server holds the configuration for the web server.
type Server struct {
	Port int `mapstructure:"port"`
}

// Client holds the configuration for the API client used by qcryptoctl.
type Client struct {
	BaseURL        string  `mapstructure:"base_url"`
	RateLimit      float64 `mapstructure:"rate_limit"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// Database holds the configuration for the database.
type Database struct {
	DSN  string `mapstructure:"dsn"`
	Seed bool   `mapstructure:"seed"`
}

// Logger holds the configuration for the logger.
type Logger struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SetDefaults registers the default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("trading.limit_eur", 4000000)
	v.SetDefault("trading.countdown_seconds", 60)
	v.SetDefault("trading.debounce_ms", 200)
	v.SetDefault("trading.quote_currency", "EUR")

	v.SetDefault("staking.maturing_threshold_days", 7)
	v.SetDefault("staking.earnings_window_days", 30)

	v.SetDefault("market.refresh_interval_seconds", 1)
	v.SetDefault("market.simulate", false)
	v.SetDefault("market.volatility", 0.01)
	v.SetDefault("market.history_days", 30)

	v.SetDefault("notifications.duration_ms", 3000)
	v.SetDefault("session.key", "qcrypto_user")

	v.SetDefault("server.port", 8080)
	v.SetDefault("client.base_url", "http://localhost:8080/api")
	v.SetDefault("client.rate_limit", 20) // requests per second
	v.SetDefault("client.rate_limit_burst", 5)

	v.SetDefault("database.dsn", "file::memory:?cache=shared")
	v.SetDefault("database.seed", true)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
}

// Default returns a configuration populated only with defaults.
func Default() Config {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	// Unmarshal of pure defaults cannot fail.
	_ = v.Unmarshal(&cfg)
	return cfg
}

// LoadConfig reads configuration from file or environment variables.
// A missing config file is not an error; defaults and env still apply.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config") // name of config file (without extension)
	v.SetConfigType("yml")

	// Allow environment variables to override config file
	v.SetEnvPrefix("qcrypto")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	SetDefaults(v)

	if err = v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
		err = nil
	}

	err = v.Unmarshal(&config)
	return
}
