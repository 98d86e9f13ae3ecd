package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/warp/pay-compare/factory"
	"github.com/warp/pay-compare/payscheme"
)

// EnvPrefix prefixes every environment override, e.g. PAYCOMPARE_SERVER_PORT.
const EnvPrefix = "PAYCOMPARE"

// Config represents application configuration
type Config struct {
	Server     ServerConfig         `mapstructure:"server"`
	Log        LogConfig            `mapstructure:"log"`
	Calculator factory.ScenarioJSON `mapstructure:"calculator"`
	Workers    int                  `mapstructure:"workers"` // 0 = GOMAXPROCS
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Port            int      `mapstructure:"port"`
	DB              string   `mapstructure:"db"` // sqlite path, ":memory:" or "" for the in-memory store
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	ReadTimeout     string   `mapstructure:"read_timeout"`
	WriteTimeout    string   `mapstructure:"write_timeout"`
	ShutdownTimeout string   `mapstructure:"shutdown_timeout"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	File  string `mapstructure:"file"` // empty = stderr
	Level string `mapstructure:"level"`
}

// Load loads configuration from file and environment. A missing config file
// is only an error when configPath names it explicitly.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("paycompare")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.paycompare")
		v.AddConfigPath("/etc/paycompare")
	}

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range calculatorKeys() {
		if err := v.BindEnv("calculator." + key); err != nil {
			return nil, fmt.Errorf("failed to bind env for calculator.%s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.db", "paycompare.db")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("log.level", "info")
	v.SetDefault("workers", 0)
}

// calculatorKeys lists the mapstructure keys of factory.ScenarioJSON so that
// each one can be overridden from the environment.
func calculatorKeys() []string {
	t := reflect.TypeOf(factory.ScenarioJSON{})
	keys := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if tag := t.Field(i).Tag.Get("mapstructure"); tag != "" {
			keys = append(keys, tag)
		}
	}
	return keys
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	for name, value := range map[string]string{
		"server.read_timeout":     c.Server.ReadTimeout,
		"server.write_timeout":    c.Server.WriteTimeout,
		"server.shutdown_timeout": c.Server.ShutdownTimeout,
	} {
		if value == "" {
			continue
		}
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	if c.Log.Level != "" {
		var lvl zapcore.Level
		if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
			return fmt.Errorf("log.level: %w", err)
		}
	}

	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative")
	}

	if _, err := c.BaseConfiguration(); err != nil {
		return fmt.Errorf("calculator: %w", err)
	}
	return nil
}

// BaseConfiguration returns the built-in defaults with the calculator
// section applied. Every run starts from it.
func (c *Config) BaseConfiguration() (payscheme.Configuration, error) {
	return factory.NewScenarioFactory(payscheme.DefaultConfiguration()).FromJSON(c.Calculator)
}

// GetReadTimeout returns the server read timeout
func (s *ServerConfig) GetReadTimeout() time.Duration {
	return parseDuration(s.ReadTimeout, 15*time.Second)
}

// GetWriteTimeout returns the server write timeout
func (s *ServerConfig) GetWriteTimeout() time.Duration {
	return parseDuration(s.WriteTimeout, 30*time.Second)
}

// GetShutdownTimeout returns how long a graceful shutdown may take
func (s *ServerConfig) GetShutdownTimeout() time.Duration {
	return parseDuration(s.ShutdownTimeout, 10*time.Second)
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
