// Package config loads syncd and syncctl settings from defaults, an optional
// config file, SCREENSYNC_* environment variables and command line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix префикс переменных окружения: SCREENSYNC_CLIENT_SERVER_URL и т.п.
const EnvPrefix = "SCREENSYNC"

type Config struct {
	Client  ClientConfig  `mapstructure:"client"`
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ClientConfig настройки syncctl
type ClientConfig struct {
	ServerURL      string        `mapstructure:"server_url"`
	DBPath         string        `mapstructure:"db_path"`
	Token          string        `mapstructure:"token"`
	Resolver       string        `mapstructure:"resolver"` // Resolver manual, backend или lww
	Schedule       string        `mapstructure:"schedule"` // Schedule cron-расписание автосинхронизации
	BatchSize      int           `mapstructure:"batch_size"`
	PageSize       int           `mapstructure:"page_size"`
	BatchTimeout   time.Duration `mapstructure:"batch_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	ProbeInterval  time.Duration `mapstructure:"probe_interval"`
}

// ServerConfig настройки syncd
type ServerConfig struct {
	Addr             string        `mapstructure:"addr"`
	DBPath           string        `mapstructure:"db_path"`
	JWTSecret        string        `mapstructure:"jwt_secret"`
	TokenTTL         time.Duration `mapstructure:"token_ttl"`
	ReadTimeout      time.Duration `mapstructure:"read_timeout"`
	WriteTimeout     time.Duration `mapstructure:"write_timeout"`
	RateWindow       time.Duration `mapstructure:"rate_window"`
	RateLimit        int           `mapstructure:"rate_limit"`
	BatchParallelism int           `mapstructure:"batch_parallelism"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Loader собирает конфигурацию из всех источников.
// Приоритет: флаги > окружение > файл > значения по умолчанию.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a loader with defaults and environment binding.
func NewLoader() *Loader {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Loader{v: v}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("client.server_url", "http://localhost:8080")
	v.SetDefault("client.db_path", "screensync.db")
	v.SetDefault("client.token", "")
	v.SetDefault("client.resolver", "manual")
	v.SetDefault("client.schedule", "@every 5m")
	v.SetDefault("client.batch_size", 50)
	v.SetDefault("client.page_size", 100)
	v.SetDefault("client.batch_timeout", 5*time.Minute)
	v.SetDefault("client.request_timeout", 30*time.Second)
	v.SetDefault("client.probe_interval", 15*time.Second)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.db_path", "screensync-server.db")
	v.SetDefault("server.jwt_secret", "")
	v.SetDefault("server.token_ttl", 24*time.Hour)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 6*time.Minute)
	v.SetDefault("server.rate_window", time.Minute)
	v.SetDefault("server.rate_limit", 600)
	v.SetDefault("server.batch_parallelism", 8)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// BindFlag makes flag override key when the flag was set explicitly.
func (l *Loader) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("bind %s: flag not defined", key)
	}
	return l.v.BindPFlag(key, flag)
}

// Load reads configFile (yaml, toml or json by extension) when it is not empty
// and returns the validated configuration.
func (l *Loader) Load(configFile string) (*Config, error) {
	if configFile != "" {
		l.v.SetConfigFile(configFile)
		if err := l.v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would break components at runtime.
func (c *Config) Validate() error {
	var errs []error

	if c.Client.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("client.batch_size must be positive, got %d", c.Client.BatchSize))
	}
	if c.Client.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("client.page_size must be positive, got %d", c.Client.PageSize))
	}
	if c.Client.BatchTimeout <= 0 {
		errs = append(errs, errors.New("client.batch_timeout must be positive"))
	}
	if c.Server.RateLimit <= 0 || c.Server.RateWindow <= 0 {
		errs = append(errs, errors.New("server.rate_limit and server.rate_window must be positive"))
	}
	if c.Server.BatchParallelism <= 0 {
		errs = append(errs, fmt.Errorf("server.batch_parallelism must be positive, got %d", c.Server.BatchParallelism))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format))
	}

	return errors.Join(errs...)
}
