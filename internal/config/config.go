package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"taskManager/internal/logger"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const envPrefix = "TASKMANAGER"

const (
	RepositoryPostgres = "postgres"
	RepositorySQLite   = "sqlite"
	RepositoryInMemory = "inmemory"

	NotifierNone   = "none"
	NotifierLambda = "lambda"
	NotifierRedis  = "redis"
)

type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Repository RepositoryConfig `mapstructure:"repository"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Notifier   NotifierConfig   `mapstructure:"notifier"`
	AWS        AWSConfig        `mapstructure:"aws"`
	Storage    StorageConfig    `mapstructure:"storage"`
}

type AppConfig struct {
	Name string `mapstructure:"name" validate:"required"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port" validate:"required,numeric"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	RateLimit       int           `mapstructure:"rate_limit" validate:"gt=0"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

type DatabaseConfig struct {
	URL            string        `mapstructure:"url"`
	MaxConnections int32         `mapstructure:"max_connections" validate:"gt=0"`
	MinConnections int32         `mapstructure:"min_connections" validate:"gte=0,ltefield=MaxConnections"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout" validate:"gt=0"`
	SQLitePath     string        `mapstructure:"sqlite_path"`
}

type RepositoryConfig struct {
	Type     string `mapstructure:"type" validate:"required,oneof=postgres sqlite inmemory"`
	SeedDemo bool   `mapstructure:"seed_demo"`
}

type LoggingConfig struct {
	Development bool   `mapstructure:"development"`
	Level       string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

type NotifierConfig struct {
	Type         string        `mapstructure:"type" validate:"required,oneof=none lambda redis"`
	FunctionName string        `mapstructure:"function_name"`
	Timeout      time.Duration `mapstructure:"timeout" validate:"gt=0"`
	QueueSize    int           `mapstructure:"queue_size" validate:"gt=0"`
	RedisAddr    string        `mapstructure:"redis_addr"`
	RedisChannel string        `mapstructure:"redis_channel"`
}

type AWSConfig struct {
	Region   string `mapstructure:"region" validate:"required"`
	Endpoint string `mapstructure:"endpoint"`
}

type StorageConfig struct {
	Bucket   string `mapstructure:"bucket"`
	ProbeKey string `mapstructure:"probe_key" validate:"required"`
}

var validate = validator.New()

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "task-manager")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.request_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 20*time.Second)
	v.SetDefault("server.rate_limit", 100)
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.min_connections", 2)
	v.SetDefault("database.idle_timeout", 5*time.Minute)
	v.SetDefault("database.sqlite_path", "data/taskmanager.db")

	v.SetDefault("repository.type", RepositorySQLite)
	v.SetDefault("repository.seed_demo", false)

	v.SetDefault("logging.development", false)
	v.SetDefault("logging.level", "info")

	v.SetDefault("notifier.type", NotifierNone)
	v.SetDefault("notifier.function_name", "task-notifications")
	v.SetDefault("notifier.timeout", 5*time.Second)
	v.SetDefault("notifier.queue_size", 100)
	v.SetDefault("notifier.redis_addr", "127.0.0.1:6379")
	v.SetDefault("notifier.redis_channel", "task-events")

	v.SetDefault("aws.region", "eu-west-1")
	v.SetDefault("aws.endpoint", "")

	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.probe_key", "diagnostics/probe.txt")
}

// Load собирает конфиг: значения по умолчанию, затем файл (если указан и существует),
// затем переменные окружения TASKMANAGER_* и несколько устаревших имён без префикса
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("чтение .env: %w", err)
		}
		logger.Debug("Config: .env не найден, используются переменные окружения")
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("database.url", envPrefix+"_DATABASE_URL", "DATABASE_URL")
	_ = v.BindEnv("aws.region", envPrefix+"_AWS_REGION", "AWS_REGION")
	_ = v.BindEnv("storage.bucket", envPrefix+"_STORAGE_BUCKET", "S3_BUCKET")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("ошибка парсинга %s: %w", path, err)
			}
			logger.Warn("Config: файл конфигурации не найден", zap.String("path", path))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("разбор конфигурации: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("невалидная конфигурация: %w", err)
	}

	switch c.Repository.Type {
	case RepositoryPostgres:
		if c.Database.URL == "" {
			return errors.New("невалидная конфигурация: database.url обязателен для postgres")
		}
	case RepositorySQLite:
		if c.Database.SQLitePath == "" {
			return errors.New("невалидная конфигурация: database.sqlite_path обязателен для sqlite")
		}
	}

	switch c.Notifier.Type {
	case NotifierLambda:
		if c.Notifier.FunctionName == "" {
			return errors.New("невалидная конфигурация: notifier.function_name обязателен для lambda")
		}
	case NotifierRedis:
		if c.Notifier.RedisAddr == "" || c.Notifier.RedisChannel == "" {
			return errors.New("невалидная конфигурация: notifier.redis_addr и notifier.redis_channel обязательны для redis")
		}
	}

	return nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}
