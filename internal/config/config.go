// Package config loads the service configuration from a YAML file, .env files
// and environment variables. Environment always wins over the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/xavierca1/leadboard/internal/logger"
)

const (
	DefaultAddr                 = ":8080"
	DefaultCRMBaseURL           = "https://anvaya-backend-nu.vercel.app/api"
	DefaultRequestTimeout       = 10 * time.Second
	DefaultNotificationDuration = 3000 * time.Millisecond
	DefaultRefreshInterval      = 5 * time.Minute
	DefaultWriteLimit           = 60
	DefaultWriteWindow          = time.Minute
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	CRM     CRMConfig     `yaml:"crm"`
	Notify  NotifyConfig  `yaml:"notify"`
	Queue   QueueConfig   `yaml:"queue"`
	Mail    MailConfig    `yaml:"mail"`
	Logging logger.Config `yaml:"logging"`
}

type ServerConfig struct {
	Addr           string   `yaml:"addr" env:"SERVER_ADDR"`
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS"`
	// WriteLimit caps mutating requests per client within WriteWindow.
	WriteLimit  int           `yaml:"write_limit" env:"WRITE_RATE_LIMIT"`
	WriteWindow time.Duration `yaml:"write_window" env:"WRITE_RATE_WINDOW"`
	// TrustProxy takes the client address from X-Forwarded-For and
	// X-Real-IP. Enable it only behind a proxy that sets them.
	TrustProxy bool `yaml:"trust_proxy" env:"TRUST_PROXY"`
}

type CRMConfig struct {
	BaseURL         string        `yaml:"base_url" env:"CRM_API_URL"`
	Timeout         time.Duration `yaml:"timeout" env:"CRM_API_TIMEOUT"`
	RefreshInterval time.Duration `yaml:"refresh_interval" env:"CRM_REFRESH_INTERVAL"`
}

type NotifyConfig struct {
	Duration time.Duration `yaml:"duration" env:"NOTIFICATION_DURATION"`
}

// QueueConfig enables lead change fan-out when URL is set.
type QueueConfig struct {
	URL string `yaml:"url" env:"AMQP_URL"`
}

// MailConfig enables agent e-mail notices when Host is set.
type MailConfig struct {
	Host     string `yaml:"host" env:"MAIL_HOST"`
	Port     int    `yaml:"port" env:"MAIL_PORT"`
	User     string `yaml:"user" env:"MAIL_USER"`
	Password string `yaml:"password" env:"MAIL_PASS"`
	From     string `yaml:"from" env:"MAIL_FROM"`
}

// Load reads .env files, the optional YAML file at path, applies defaults and
// then environment overrides. An empty path or a missing file is not an error.
func Load(path string) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, fmt.Errorf("load environment files: %w", err)
	}

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	setDefaults(&cfg)
	if err := applyEnvOverrides(reflect.ValueOf(&cfg).Elem()); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadEnvFiles() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}
	for _, f := range []string{".env.local", ".env"} {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

func setDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultAddr
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"http://localhost:5173"}
	}
	if cfg.Server.WriteLimit == 0 {
		cfg.Server.WriteLimit = DefaultWriteLimit
	}
	if cfg.Server.WriteWindow == 0 {
		cfg.Server.WriteWindow = DefaultWriteWindow
	}
	if cfg.CRM.BaseURL == "" {
		cfg.CRM.BaseURL = DefaultCRMBaseURL
	}
	if cfg.CRM.Timeout == 0 {
		cfg.CRM.Timeout = DefaultRequestTimeout
	}
	if cfg.CRM.RefreshInterval == 0 {
		cfg.CRM.RefreshInterval = DefaultRefreshInterval
	}
	if cfg.Notify.Duration == 0 {
		cfg.Notify.Duration = DefaultNotificationDuration
	}
	if cfg.Mail.Port == 0 {
		cfg.Mail.Port = 587
	}
	if cfg.Mail.From == "" {
		cfg.Mail.From = "no-reply@leadboard.local"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

func applyEnvOverrides(v reflect.Value) error {
	t := v.Type()
	for i := range v.NumField() {
		field := v.Field(i)
		sf := t.Field(i)

		if field.Kind() == reflect.Struct {
			if err := applyEnvOverrides(field); err != nil {
				return err
			}
			continue
		}

		name := sf.Tag.Get("env")
		if name == "" {
			continue
		}
		raw, ok := os.LookupEnv(name)
		if !ok || raw == "" {
			continue
		}
		if err := setField(field, raw); err != nil {
			return fmt.Errorf("env %s: %w", name, err)
		}
	}
	return nil
}

func setField(field reflect.Value, raw string) error {
	switch field.Interface().(type) {
	case time.Duration:
		d, err := time.ParseDuration(raw)
		if err != nil {
			return err
		}
		field.SetInt(int64(d))
		return nil
	case []string:
		parts := strings.Split(raw, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		field.Set(reflect.ValueOf(parts))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Int, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("unsupported kind %s", field.Kind())
	}
	return nil
}
