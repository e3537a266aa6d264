package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Environment string

const (
	EnvLocal      Environment = "local"
	EnvDev        Environment = "dev"
	EnvStage      Environment = "stage"
	EnvProduction Environment = "production"
)

// TimeZone — таймзона клиники, в ней считаются календарные дни
var TimeZone = time.UTC

type ConfigBasicClient struct {
	Username string
	Password string
}

type Config struct {
	App struct {
		Version  string      `env:"APP_VERSION" envDefault:"local"`
		Env      Environment `env:"APP_ENV" envDefault:"local"`
		Timezone string      `env:"APP_TIMEZONE" envDefault:"UTC"`
		LogLevel string      `env:"APP_LOG_LEVEL" envDefault:"info"`
	}

	HTTP struct {
		Port string `env:"HTTP_SERVER_PORT" envDefault:"8080"`
		Host string `env:"HTTP_SERVER_HOST" envDefault:"localhost"`
	}

	Auth struct {
		BasicClientsString string `env:"AUTH_BASIC_CLIENTS"`
		BasicClients       []ConfigBasicClient
	}

	Schedule struct {
		DayStartHour      int  `env:"SCHEDULE_DAY_START_HOUR" envDefault:"8"`
		DayEndHour        int  `env:"SCHEDULE_DAY_END_HOUR" envDefault:"18"`
		SlotMinutes       int  `env:"SCHEDULE_SLOT_MINUTES" envDefault:"30"`
		WeekBucketMinutes int  `env:"SCHEDULE_WEEK_BUCKET_MINUTES" envDefault:"60"`
		UseDoctorHours    bool `env:"SCHEDULE_USE_DOCTOR_HOURS"`
	}

	Fixtures struct {
		Path string `env:"FIXTURES_PATH"`
	}

	RabbitMQ struct {
		Enabled  bool   `env:"RABBITMQ_ENABLED"`
		URL      string `env:"RABBITMQ_URL"`
		Exchange string `env:"RABBITMQ_EXCHANGE" envDefault:"hospital"`
		Queue    string `env:"RABBITMQ_QUEUE" envDefault:"schedule-viewer.directory"`
		Bind     string `env:"RABBITMQ_BIND" envDefault:"*.schedule-viewer.#"`
	}

	Cache struct {
		Enabled       bool `env:"CACHE_ENABLED" envDefault:"true"`
		DirectorySize int  `env:"CACHE_DIRECTORY_SIZE" envDefault:"1000"`
	}

	Metrics struct {
		Enabled bool `env:"METRICS_ENABLED" envDefault:"true"`
	}
}

func NewConfig() (*Config, error) {
	// .env необязателен: в контейнере переменные приходят из окружения
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	// Приведение окружения к нижнему регистру для унификации
	cfg.App.Env = Environment(strings.ToLower(string(cfg.App.Env)))

	cfg.Auth.BasicClients = parseBasicClients(cfg.Auth.BasicClientsString)

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		return nil, err
	}
	TimeZone = loc

	return cfg, nil
}

func parseBasicClients(str string) []ConfigBasicClient {
	clients := []ConfigBasicClient{}
	if str == "" {
		return clients
	}

	for _, pair := range strings.Split(str, ",") {
		parts := strings.SplitN(pair, ":", 2)
		if len(parts) == 2 && parts[0] != "" {
			clients = append(clients, ConfigBasicClient{
				Username: parts[0],
				Password: parts[1],
			})
		}
	}
	return clients
}

func (c *Config) IsLocal() bool {
	return c.App.Env == EnvLocal
}

func (c *Config) IsNotLocal() bool {
	return c.App.Env == EnvDev || c.App.Env == EnvStage || c.App.Env == EnvProduction
}

func (c *Config) AuthEnabled() bool {
	return len(c.Auth.BasicClients) > 0
}
