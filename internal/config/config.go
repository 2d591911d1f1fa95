package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"

	defaultTable       = "articles"
	defaultAddr        = ":3000"
	defaultLogLevel    = "info"
	defaultLogFormat   = "json"
	defaultServiceName = "news-mcp-server"
	defaultEnvironment = "development"

	// ConfigPathEnv задаёт путь к YAML-файлу, если флаг --config не указан.
	ConfigPathEnv = "NEWS_MCP_CONFIG"
)

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Config хранит настройки процесса. Читается один раз при старте и дальше не меняется.
type Config struct {
	Database    DatabaseConfig `yaml:"database"`
	Server      ServerConfig   `yaml:"server"`
	Log         LogConfig      `yaml:"log"`
	Tracing     TracingConfig  `yaml:"tracing"`
	Environment string         `yaml:"environment"`
}

// DatabaseConfig описывает подключение к хранилищу статей.
type DatabaseConfig struct {
	URL   string `yaml:"url"`
	Table string `yaml:"table"`
}

// ServerConfig выбирает транспорт MCP и адрес HTTP-сервера.
type ServerConfig struct {
	Transport string `yaml:"transport"`
	Addr      string `yaml:"addr"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// TracingConfig: пустой Endpoint выключает экспорт трейсов.
type TracingConfig struct {
	Endpoint    string `yaml:"endpoint"`
	ServiceName string `yaml:"service_name"`
}

// Default возвращает конфигурацию со значениями по умолчанию (без URL базы).
func Default() *Config {
	return &Config{
		Database:    DatabaseConfig{Table: defaultTable},
		Server:      ServerConfig{Transport: TransportStdio, Addr: defaultAddr},
		Log:         LogConfig{Level: defaultLogLevel, Format: defaultLogFormat},
		Tracing:     TracingConfig{ServiceName: defaultServiceName},
		Environment: defaultEnvironment,
	}
}

// Validate проверяет URL базы, имя таблицы, транспорт и уровень логирования.
func (cfg *Config) Validate() error {
	if cfg.Database.URL == "" {
		return errors.New("database url is required")
	}
	if _, err := url.Parse(cfg.Database.URL); err != nil {
		return fmt.Errorf("invalid database url: %w", err)
	}
	if !identifierRe.MatchString(cfg.Database.Table) {
		return fmt.Errorf("invalid table name: %q", cfg.Database.Table)
	}
	switch cfg.Server.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("unknown transport: %q", cfg.Server.Transport)
	}
	if cfg.Server.Transport == TransportHTTP && cfg.Server.Addr == "" {
		return errors.New("http transport requires server addr")
	}
	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log level: %q", cfg.Log.Level)
	}
	return nil
}

// LoadConfig читает YAML-файл по пути path (пустой путь допустим, тогда берутся значения
// по умолчанию), затем подгружает .env и применяет переменные окружения.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(ConfigPathEnv)
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	// .env не обязателен; уже выставленные переменные окружения он не перезаписывает.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg.applyEnv()
	cfg.fillDefaults()
	return cfg, nil
}

func (cfg *Config) applyEnv() {
	overrides := []struct {
		env string
		dst *string
	}{
		{"DATABASE_URL", &cfg.Database.URL},
		{"NEWS_TABLE", &cfg.Database.Table},
		{"MCP_TRANSPORT", &cfg.Server.Transport},
		{"MCP_ADDR", &cfg.Server.Addr},
		{"LOG_LEVEL", &cfg.Log.Level},
		{"LOG_FORMAT", &cfg.Log.Format},
		{"OTEL_EXPORTER_OTLP_ENDPOINT", &cfg.Tracing.Endpoint},
		{"ENVIRONMENT", &cfg.Environment},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.dst = v
		}
	}
}

func (cfg *Config) fillDefaults() {
	if cfg.Database.Table == "" {
		cfg.Database.Table = defaultTable
	}
	if cfg.Server.Transport == "" {
		cfg.Server.Transport = TransportStdio
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = defaultLogFormat
	}
	if cfg.Tracing.ServiceName == "" {
		cfg.Tracing.ServiceName = defaultServiceName
	}
	if cfg.Environment == "" {
		cfg.Environment = defaultEnvironment
	}
}
