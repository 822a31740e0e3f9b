package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/iancoleman/strcase"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

// Config holds all application configuration. Values are loaded from an
// optional yaml config file (CONFIG_FILE) and overridden by environment
// variables named after the upper-cased koanf key (e.g. DATABASE_URL).
type Config struct {
	DatabaseURL               string        `koanf:"database_url"`
	DatabaseDebug             bool          `koanf:"database_debug"`
	DatabaseConnectRetryCount int           `koanf:"database_connect_retry_count"`
	DatabaseConnectRetryDelay time.Duration `koanf:"database_connect_retry_delay"`
	DatabaseBusyTimeout       time.Duration `koanf:"database_busy_timeout"`
	DatabaseMaxRetries        int           `koanf:"database_max_retries"`
	Hostname                  string        `koanf:"-"`
	RatingsBaseURL            string        `koanf:"ratings_base_url"`
	RatingsTimeout            time.Duration `koanf:"ratings_timeout"`
	ServerHost                string        `koanf:"server_host"`
	ServerPort                int           `koanf:"server_port"`
	SessionSecret             string        `koanf:"session_secret"`
	SessionTTL                time.Duration `koanf:"session_ttl"`
}

const configFileENV = "CONFIG_FILE"

func defaultConfig() *Config {
	return &Config{
		DatabaseConnectRetryCount: 5,
		DatabaseConnectRetryDelay: 2 * time.Second,
		DatabaseBusyTimeout:       5 * time.Second,
		DatabaseMaxRetries:        3,
		RatingsBaseURL:            "https://www.googleapis.com/books/v1",
		RatingsTimeout:            3 * time.Second,
		ServerHost:                "0.0.0.0",
		ServerPort:                5440,
		SessionTTL:                7 * 24 * time.Hour,
	}
}

func New() (*Config, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	k := koanf.New(".")

	configFile := os.Getenv(configFileENV)
	if configFile == "" {
		configFile = "config.yaml"
	}
	if _, err := os.Stat(configFile); err == nil {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, errors.Wrap(err, "failed to load config file")
		}
	}

	// Environment variables take precedence over the config file.
	for _, key := range configKeys() {
		if value, ok := os.LookupEnv(strings.ToUpper(key)); ok && value != "" {
			if err := k.Set(key, value); err != nil {
				return nil, errors.WithStack(err)
			}
		}
	}

	cfg := defaultConfig()
	cfg.Hostname = hostname
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New(missingRequired("DatabaseURL"))
	}
	if cfg.SessionSecret == "" {
		return nil, errors.New(missingRequired("SessionSecret"))
	}

	return cfg, nil
}

// NewForTest returns a config suitable for package tests: an in-memory
// database and a fixed session secret.
func NewForTest() *Config {
	cfg := defaultConfig()
	cfg.DatabaseURL = ":memory:"
	cfg.Hostname = "test"
	cfg.RatingsTimeout = 100 * time.Millisecond
	cfg.ServerHost = "127.0.0.1"
	cfg.ServerPort = 0
	cfg.SessionSecret = "test-session-secret"
	return cfg
}

// configKeys returns the koanf keys declared on Config.
func configKeys() []string {
	keys := []string{}
	t := reflect.TypeOf(Config{})
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("koanf")
		if tag == "" || tag == "-" {
			continue
		}
		keys = append(keys, tag)
	}
	return keys
}

func missingRequired(field string) string {
	key := toSnakeCase(field)
	return fmt.Sprintf("missing required config: %s (%s)", strings.ToUpper(key), key)
}

func toSnakeCase(s string) string {
	return strcase.ToSnake(s)
}
