package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Port    string `mapstructure:"PORT"`
	GinMode string `mapstructure:"GIN_MODE"`

	DBSource   string `mapstructure:"DB_SOURCE"`
	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBSSLMode  string `mapstructure:"DB_SSLMODE"`

	QWeatherAPIKey  string `mapstructure:"QWEATHER_API_KEY"`
	QWeatherBaseURL string `mapstructure:"QWEATHER_BASE_URL"`
	QWeatherGeoURL  string `mapstructure:"QWEATHER_GEO_URL"`

	ProviderTimeout    time.Duration `mapstructure:"PROVIDER_TIMEOUT"`
	ProviderMaxRetries int           `mapstructure:"PROVIDER_MAX_RETRIES"`
	ProviderRetryDelay time.Duration `mapstructure:"PROVIDER_RETRY_DELAY"`
	BreakerTimeout     time.Duration `mapstructure:"BREAKER_TIMEOUT"`

	RefreshSchedule     string `mapstructure:"REFRESH_SCHEDULE"`
	DailyForecastDays   int    `mapstructure:"DAILY_FORECAST_DAYS"`
	HourlyForecastHours int    `mapstructure:"HOURLY_FORECAST_HOURS"`
	BatchConcurrency    int    `mapstructure:"BATCH_CONCURRENCY"`
	Timezone            string `mapstructure:"TIMEZONE"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
}

var defaults = map[string]any{
	"PORT":                  "3000",
	"GIN_MODE":              "release",
	"DB_SOURCE":             "",
	"DB_HOST":               "localhost",
	"DB_PORT":               "5432",
	"DB_USER":               "postgres",
	"DB_PASSWORD":           "",
	"DB_NAME":               "weather",
	"DB_SSLMODE":            "disable",
	"QWEATHER_API_KEY":      "",
	"QWEATHER_BASE_URL":     "https://devapi.qweather.com",
	"QWEATHER_GEO_URL":      "https://geoapi.qweather.com",
	"PROVIDER_TIMEOUT":      "10s",
	"PROVIDER_MAX_RETRIES":  2,
	"PROVIDER_RETRY_DELAY":  "500ms",
	"BREAKER_TIMEOUT":       "30s",
	"REFRESH_SCHEDULE":      "0 * * * *",
	"DAILY_FORECAST_DAYS":   7,
	"HOURLY_FORECAST_HOURS": 24,
	"BATCH_CONCURRENCY":     1,
	"TIMEZONE":              "Asia/Shanghai",
	"LOG_LEVEL":             "info",
	"LOG_FORMAT":            "json",
}

// LoadConfig reads configuration from app.env in path, if present, and from
// environment variables, which take precedence. A .env file in the working
// directory is loaded into the environment first.
func LoadConfig(path string) (config Config, err error) {
	if err = godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config, fmt.Errorf("config: load .env: %w", err)
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, fmt.Errorf("config: read app.env: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("config: decode: %w", err)
	}
	if err = config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

// Validate checks values that would otherwise fail later at runtime.
func (c Config) Validate() error {
	if c.QWeatherAPIKey == "" {
		return errors.New("config: QWEATHER_API_KEY is required")
	}
	if c.DailyForecastDays < 1 || c.DailyForecastDays > 30 {
		return fmt.Errorf("config: DAILY_FORECAST_DAYS must be between 1 and 30, got %d", c.DailyForecastDays)
	}
	if c.HourlyForecastHours < 1 || c.HourlyForecastHours > 168 {
		return fmt.Errorf("config: HOURLY_FORECAST_HOURS must be between 1 and 168, got %d", c.HourlyForecastHours)
	}
	if c.BatchConcurrency < 1 {
		return fmt.Errorf("config: BATCH_CONCURRENCY must be at least 1, got %d", c.BatchConcurrency)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// DatabaseURL returns DB_SOURCE when set, otherwise a postgres:// URL built
// from the individual DB_* settings.
func (c Config) DatabaseURL() string {
	if c.DBSource != "" {
		return c.DBSource
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     net.JoinHostPort(c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": {c.DBSSLMode}}.Encode(),
	}
	return u.String()
}

// ProviderCallBudget bounds one provider call including its retries: every
// attempt may use the full PROVIDER_TIMEOUT, plus the exponential backoff
// between attempts.
func (c Config) ProviderCallBudget() time.Duration {
	budget := time.Duration(c.ProviderMaxRetries+1) * c.ProviderTimeout
	delay := c.ProviderRetryDelay
	for i := 0; i < c.ProviderMaxRetries; i++ {
		budget += delay
		delay *= 2
	}
	return budget
}

// ServerAddress is the listen address for the HTTP server.
func (c Config) ServerAddress() string {
	return ":" + c.Port
}

// Location resolves TIMEZONE.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}
