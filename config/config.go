package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log       Logger    `mapstructure:"logger"`
	DB        Database  `mapstructure:"database"`
	API       API       `mapstructure:"api"`
	Remote    Remote    `mapstructure:"remote"`
	Store     Store     `mapstructure:"store"`
	Cache     Cache     `mapstructure:"cache"`
	StockData StockData `mapstructure:"stock_data"`
}

type Logger struct {
	Level      string `mapstructure:"level"`
	Encoding   string `mapstructure:"encoding"`
	FilePath   string `mapstructure:"file_path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type Database struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	TimeZone        string `mapstructure:"time_zone"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
}

type API struct {
	Port           int           `mapstructure:"port"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	RateLimit      float64       `mapstructure:"rate_limit"`
	RateBurst      int           `mapstructure:"rate_burst"`
}

// Remote is the historical/intraday/prediction backend.
type Remote struct {
	BaseURL          string        `mapstructure:"base_url"`
	Timeout          time.Duration `mapstructure:"timeout"`
	MaxRequestPerMin int           `mapstructure:"max_request_per_min"`
}

type Store struct {
	Driver     string `mapstructure:"driver"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

type Cache struct {
	DefaultExpiration    time.Duration `mapstructure:"default_expiration"`
	CleanupInterval      time.Duration `mapstructure:"cleanup_interval"`
	PredictionExpiration time.Duration `mapstructure:"prediction_expiration"`
}

type StockData struct {
	RefreshInterval       time.Duration `mapstructure:"refresh_interval"`
	DiscardStaleResponses bool          `mapstructure:"discard_stale_responses"`
}

const (
	StoreDriverMemory   = "memory"
	StoreDriverSQLite   = "sqlite"
	StoreDriverPostgres = "postgres"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.encoding", "json")
	v.SetDefault("logger.max_size_mb", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age_days", 28)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.ssl_mode", "disable")

	v.SetDefault("api.port", 8080)
	v.SetDefault("api.request_timeout", 5*time.Minute)
	v.SetDefault("api.rate_limit", 10)
	v.SetDefault("api.rate_burst", 30)

	v.SetDefault("remote.base_url", "http://127.0.0.1:5000")
	v.SetDefault("remote.timeout", 5*time.Minute)
	v.SetDefault("remote.max_request_per_min", 60)

	v.SetDefault("store.driver", StoreDriverSQLite)
	v.SetDefault("store.sqlite_path", "data/stockvue.db")

	v.SetDefault("cache.default_expiration", 5*time.Minute)
	v.SetDefault("cache.cleanup_interval", 10*time.Minute)
	v.SetDefault("cache.prediction_expiration", time.Hour)

	v.SetDefault("stock_data.refresh_interval", time.Minute)
	v.SetDefault("stock_data.discard_stale_responses", true)
}

// Load reads config.yaml from the working directory, then .env and the
// environment on top of it. A missing file is not an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file loaded:", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AddConfigPath(".")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		fmt.Println("No config file loaded:", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Remote.BaseURL) == "" {
		return fmt.Errorf("remote.base_url is required")
	}
	if c.Remote.MaxRequestPerMin <= 0 {
		return fmt.Errorf("remote.max_request_per_min must be positive, got %d", c.Remote.MaxRequestPerMin)
	}
	if c.StockData.RefreshInterval <= 0 {
		return fmt.Errorf("stock_data.refresh_interval must be positive")
	}
	switch c.Store.Driver {
	case StoreDriverMemory, StoreDriverPostgres:
	case StoreDriverSQLite:
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("store.sqlite_path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unknown store.driver %q", c.Store.Driver)
	}
	return nil
}
