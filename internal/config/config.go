// Package config предоставялет структуры и функцию для парсинга и загрузки конфига.
//
// Конфиг читается из YAML-файла (CONFIG_PATH, необязателен) и переменных окружения,
// перед этим подгружается .env, если он есть. SECRET_KEY и DATABASE_URL обязательны:
// без них приложение не стартует.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env             string `yaml:"env" env:"ENV" env-default:"local"`
	SecretKey       string `yaml:"secret_key" env:"SECRET_KEY" env-required:"true"`
	DatabaseURL     string `yaml:"database_url" env:"DATABASE_URL" env-required:"true"`
	MigrationsPath  string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
	AMQPURL         string `yaml:"amqp_url" env:"AMQP_URL"`
	HTTPServer      `yaml:"http_server"`
	RedisConnection `yaml:"redis_connection"`
	Session         `yaml:"session"`
	LoginRateLimit  `yaml:"login_rate_limit"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":5000"`
	TimeoutHTTP time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis, где живут сессии
type RedisConnection struct {
	RedisAddress     string        `yaml:"address" env:"REDIS_ADDRESS" env-default:"localhost:6379"`
	RedisPassword    string        `yaml:"password" env:"REDIS_PASSWORD"`
	RedisUser        string        `yaml:"user" env:"REDIS_USER"`
	RedisDB          int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	RedisMaxRetries  int           `yaml:"max_retries" env:"REDIS_MAX_RETRIES" env-default:"3"`
	RedisDialTimeout time.Duration `yaml:"dial_timeout" env:"REDIS_DIAL_TIMEOUT" env-default:"5s"`
	RedisTimeout     time.Duration `yaml:"timeout" env:"REDIS_TIMEOUT" env-default:"3s"`
}

// Session настройки cookie-сессии
type Session struct {
	SessionTTL   time.Duration `yaml:"ttl" env:"SESSION_TTL" env-default:"24h"`
	CookieName   string        `yaml:"cookie_name" env:"SESSION_COOKIE_NAME" env-default:"session"`
	CookieSecure bool          `yaml:"cookie_secure" env:"COOKIE_SECURE" env-default:"false"`
}

// LoginRateLimit ограничение частоты попыток входа
type LoginRateLimit struct {
	RatePerSecond float64 `yaml:"rate" env:"LOGIN_RATE_LIMIT" env-default:"1"`
	Burst         int     `yaml:"burst" env:"LOGIN_RATE_BURST" env-default:"5"`
}

// ErrMissingRequired возвращается, когда обязательная настройка пуста.
var ErrMissingRequired = errors.New("required setting is empty")

// Load читает конфиг и проверяет обязательные поля.
func Load() (*Config, error) {
	const op = "config.Load"

	// .env необязателен
	_ = godotenv.Load()

	var cfg Config
	configPath := os.Getenv("CONFIG_PATH")
	if configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: file %s does not exist", op, configPath)
		}
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// cleanenv пропускает переменные, выставленные в пустую строку
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("%s: SECRET_KEY: %w", op, ErrMissingRequired)
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("%s: DATABASE_URL: %w", op, ErrMissingRequired)
	}
	return &cfg, nil
}

// MustLoad функция для загрузки конфига, при любой ошибке завершает процесс.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

// String печатает конфиг без секретов.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"MigrationsPath: %s\n"+
			"AMQP enabled: %t\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"Redis:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"Session:\n"+
			"  TTL: %s\n"+
			"  Secure: %t\n",
		c.Env,
		c.MigrationsPath,
		c.AMQPURL != "",
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.RedisAddress,
		c.RedisDB,
		c.SessionTTL,
		c.CookieSecure,
	)
}
