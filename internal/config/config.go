// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token          string        `yaml:"token" validate:"required"`
	PublicURL      string        `yaml:"public_url" validate:"omitempty,url"`
	Language       string        `yaml:"language" validate:"oneof=en ru"`
	RequestTimeout time.Duration `yaml:"request_timeout" validate:"gt=0"`
	SendRate       float64       `yaml:"send_rate" validate:"gt=0"` // outbound messages per second
	FetchLimit     int           `yaml:"fetch_limit" validate:"gt=0,lte=100"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type HTTPConfig struct {
	Port int `yaml:"port" validate:"gt=0,lte=65535"`
}

type DatabaseConfig struct {
	URL              string        `yaml:"url"`
	User             string        `yaml:"user"`
	Password         string        `yaml:"password"`
	Name             string        `yaml:"name"`
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	MaxConns         int32         `yaml:"max_conns" validate:"gt=0"`
	ConnectTimeout   time.Duration `yaml:"connect_timeout" validate:"gt=0"`
	StatementTimeout time.Duration `yaml:"statement_timeout" validate:"gt=0"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type Config struct {
	Bot      BotConfig      `yaml:"bot"`
	Log      LogConfig      `yaml:"log"`
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`

	Runtime RuntimeConfig `yaml:"-"`
}

const (
	defaultDBUser     = "user"
	defaultDBPassword = "password"
	defaultDBName     = "mydb"
	// docker-compose service name of the database
	defaultDBHost = "db"
	defaultDBPort = 5432
)

var ErrMissingToken = errors.New("bot.token is required (set TELEGRAM_BOT_TOKEN)")

// LoadConfig reads the optional YAML file at path, loads .env, applies environment
// overrides and defaults, then validates the result. A missing file is not an error.
func LoadConfig(path string, dev bool) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		case errors.Is(err, fs.ErrNotExist):
			// env-only deployment
		default:
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)
	cfg.Runtime.Dev = dev

	if strings.TrimSpace(cfg.Bot.Token) == "" {
		return nil, ErrMissingToken
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	setStr := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	setStr(&cfg.Bot.Token, "TELEGRAM_BOT_TOKEN")
	setStr(&cfg.Bot.PublicURL, "PUBLIC_URL")
	setStr(&cfg.Bot.Language, "BOT_LANGUAGE")
	setStr(&cfg.Database.URL, "DATABASE_URL")
	setStr(&cfg.Database.User, "POSTGRES_USER")
	setStr(&cfg.Database.Password, "POSTGRES_PASSWORD")
	setStr(&cfg.Database.Name, "POSTGRES_DB")
	setStr(&cfg.Database.Host, "POSTGRES_HOST")
	setStr(&cfg.Log.Level, "LOG_LEVEL")
	setStr(&cfg.Redis.URL, "REDIS_URL")
	setStr(&cfg.Redis.Password, "REDIS_PASSWORD")

	if v := os.Getenv("POSTGRES_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = p
		}
	}
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.Port = p
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Bot.Language == "" {
		cfg.Bot.Language = "en"
	}
	if cfg.Bot.RequestTimeout <= 0 {
		cfg.Bot.RequestTimeout = 20 * time.Second
	}
	if cfg.Bot.SendRate <= 0 {
		cfg.Bot.SendRate = 25
	}
	if cfg.Bot.FetchLimit <= 0 {
		cfg.Bot.FetchLimit = 5
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 8000
	}
	if cfg.Database.MaxConns <= 0 {
		cfg.Database.MaxConns = 4
	}
	if cfg.Database.ConnectTimeout <= 0 {
		cfg.Database.ConnectTimeout = 10 * time.Second
	}
	if cfg.Database.StatementTimeout <= 0 {
		cfg.Database.StatementTimeout = 10 * time.Second
	}
	cfg.Redis.TTL = normalizeTTL(cfg.Redis.TTL)
}

func normalizeTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return 24 * time.Hour
	}
	return d
}

// DSN returns database.url when set, otherwise a postgres URL assembled from the
// discrete parts with their defaults.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	user, pass, name, host, port := c.User, c.Password, c.Name, c.Host, c.Port
	if user == "" {
		user = defaultDBUser
	}
	if pass == "" {
		pass = defaultDBPassword
	}
	if name == "" {
		name = defaultDBName
	}
	if host == "" {
		host = defaultDBHost
	}
	if port == 0 {
		port = defaultDBPort
	}
	u := url.URL{
		Scheme: "postgresql",
		User:   url.UserPassword(user, pass),
		Host:   net.JoinHostPort(host, strconv.Itoa(port)),
		Path:   "/" + name,
	}
	return u.String()
}

// Configured reports whether any database setting was supplied explicitly.
// In dev mode an unconfigured database falls back to the in-memory store.
func (c DatabaseConfig) Configured() bool {
	return c.URL != "" || c.User != "" || c.Name != "" || c.Host != ""
}

// WebhookURL is the address Telegram should deliver updates to.
func (c BotConfig) WebhookURL() string {
	return strings.TrimRight(c.PublicURL, "/") + "/webhook"
}
