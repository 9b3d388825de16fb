package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

type Config struct {
	Env      string `env:"APP_ENV" env-default:"development"`
	HTTPAddr string `env:"HTTP_ADDR" env-default:":8080"`
	GinMode  string `env:"GIN_MODE" env-default:"debug"`
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`

	SessionSecret string `env:"SESSION_SECRET" env-default:"default-secret-key-change-me"`

	Database      DatabaseConfig
	Redis         RedisConfig
	RabbitMQ      RabbitMQConfig
	Notifications NotificationConfig
}

type DatabaseConfig struct {
	Driver   string `env:"DB_DRIVER" env-default:"sqlite"`
	Path     string `env:"DB_PATH" env-default:"task_tracker.db"`
	Host     string `env:"DB_HOST" env-default:"localhost"`
	Port     string `env:"DB_PORT"`
	User     string `env:"DB_USER" env-default:"taskuser"`
	Password string `env:"DB_PASSWORD" env-default:"taskpassword"`
	Name     string `env:"DB_NAME" env-default:"task_tracker"`
}

// RedisConfig is optional; an empty Addr disables Redis-backed stores.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" env-default:"0"`
}

// RabbitMQConfig is optional; an empty URL keeps event delivery in-process.
type RabbitMQConfig struct {
	URL      string `env:"RABBITMQ_URL"`
	Exchange string `env:"RABBITMQ_EXCHANGE" env-default:"task_events"`
	Queue    string `env:"RABBITMQ_QUEUE" env-default:"task_tracker_notifications"`
}

type NotificationConfig struct {
	WindowDays    int `env:"NOTIFICATION_WINDOW_DAYS" env-default:"7"`
	InboxCapacity int `env:"INBOX_CAPACITY" env-default:"500"`
}

// Load reads configuration from the environment, after loading a .env file when one exists.
func Load() (*Config, error) {
	// a missing .env file is fine
	_ = godotenv.Load()

	cfg := new(Config)
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values cleanenv cannot express through tags.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres, DriverMySQL:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if c.Notifications.WindowDays < 0 {
		return fmt.Errorf("NOTIFICATION_WINDOW_DAYS must not be negative")
	}
	if c.Notifications.InboxCapacity <= 0 {
		return fmt.Errorf("INBOX_CAPACITY must be positive")
	}
	return nil
}

// IsProduction reports whether gin runs in release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	db := c.Database
	switch db.Driver {
	case DriverMySQL:
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			db.User,
			db.Password,
			db.Host,
			portOrDefault(db.Port, "3306"),
			db.Name,
		)
	case DriverPostgres:
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			db.Host,
			portOrDefault(db.Port, "5432"),
			db.User,
			db.Password,
			db.Name,
		)
	default:
		return db.Path
	}
}

func portOrDefault(port, defaultPort string) string {
	if port == "" {
		return defaultPort
	}
	return port
}
