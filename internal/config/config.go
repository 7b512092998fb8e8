// Package config manages environment variables.
//
// It reads variables from the `.env` file (when present) and the process
// environment, loads them into structured Go types and validates that the
// required values are present so they can be reused across the application
// runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Apply defaults that match the original deployment of the service.
//   - Validate required values so the app fails fast on bad/missing config.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists it is loaded into the
	// process env before any variable is read below.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
)

/*
	Key mapping:
	- Env vars are read using the prefix BOOKWARM_
	- Keys are lowercased and the prefix is removed
	- A double underscore separates nesting levels, so single underscores
	  can stay inside key names:
	    BOOKWARM_SERVER__READ_TIMEOUT -> server.read_timeout
	    BOOKWARM_DATABASE__URI        -> database.uri

	The original deployment only knew PORT, DB_USER and DB_PASS. Those are
	still read (see legacyKeys) but the prefixed form always wins.
*/

const (
	envPrefix    = "BOOKWARM_"
	envDelimiter = "__"

	// ServiceName tags logs, traces and the New Relic application.
	ServiceName = "bookwarm-api"
)

// listKeys are comma separated in the environment.
var listKeys = map[string]bool{
	"server.cors_allowed_origins": true,
}

// legacyKeys maps unprefixed env var names to koanf keys.
var legacyKeys = map[string]string{
	"PORT":    "server.port",
	"DB_USER": "database.user",
	"DB_PASS": "database.password",
}

// Config is the root configuration object for the application.
//
// Redis and Integration are pointers because they are optional: when either
// is missing the background job worker (welcome emails) is not started.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         *RedisConfig         `koanf:"redis"`
	Integration   *IntegrationConfig   `koanf:"integration"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are expressed in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`
}

// DatabaseConfig contains the MongoDB connection parameters.
//
// Either URI is given verbatim, or it is assembled from Scheme, Host, User
// and Password (the way the original deployment built its Atlas SRV string).
type DatabaseConfig struct {
	URI              string        `koanf:"uri"`
	Scheme           string        `koanf:"scheme" validate:"required_without=URI"`
	Host             string        `koanf:"host" validate:"required_without=URI"`
	User             string        `koanf:"user" validate:"required_without=URI"`
	Password         string        `koanf:"password" validate:"required_without=URI"`
	Name             string        `koanf:"name" validate:"required"`
	AppName          string        `koanf:"app_name"`
	UserCollection   string        `koanf:"user_collection" validate:"required"`
	BookCollection   string        `koanf:"book_collection" validate:"required"`
	ConnectTimeout   time.Duration `koanf:"connect_timeout" validate:"min=1s"`
	OperationTimeout time.Duration `koanf:"operation_timeout" validate:"min=1s"`
}

// ConnectionURI returns the MongoDB connection string.
//
// The password is escaped by url.UserPassword so characters like '@' or ':'
// don't break the URI.
func (d DatabaseConfig) ConnectionURI() string {
	if d.URI != "" {
		return d.URI
	}

	u := url.URL{
		Scheme:   d.Scheme,
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host,
		Path:     "/",
		RawQuery: "retryWrites=true&w=majority",
	}
	return u.String()
}

// RedisConfig contains Redis connection details.
// Address is typically "host:port".
type RedisConfig struct {
	Address string `koanf:"address" validate:"required"`
}

// IntegrationConfig stores credentials for third-party providers.
type IntegrationConfig struct {
	ResendAPIKey string `koanf:"resend_api_key" validate:"required"`
	EmailFrom    string `koanf:"email_from" validate:"required,email"`
}

// JobsEnabled reports whether the background job worker can run.
// It needs a Redis backend and an email provider.
func (c *Config) JobsEnabled() bool {
	return c.Redis != nil && c.Integration != nil
}

// defaultConfig returns the values used when nothing is configured.
// Env values are unmarshalled on top of it.
func defaultConfig() *Config {
	return &Config{
		Primary: Primary{Env: "development"},
		Server: ServerConfig{
			Port:               "3000",
			ReadTimeout:        30,
			WriteTimeout:       30,
			IdleTimeout:        60,
			CORSAllowedOrigins: []string{"https://bookwarmhakimcolor.netlify.app"},
		},
		Database: DatabaseConfig{
			Scheme:           "mongodb+srv",
			Name:             "JoBTask",
			AppName:          ServiceName,
			UserCollection:   "user",
			BookCollection:   "book",
			ConnectTimeout:   10 * time.Second,
			OperationTimeout: 5 * time.Second,
		},
		Observability: DefaultObservabilityConfig(),
	}
}

// LoadConfig loads configuration from environment variables, unmarshals it
// on top of the defaults, validates it and returns the resulting config.
//
// Behavior summary:
//   - Loads legacy unprefixed vars (PORT, DB_USER, DB_PASS)
//   - Loads env vars with prefix BOOKWARM_ (overriding legacy ones)
//   - Unmarshals into Config
//   - Validates required config blocks/fields
//   - Forces observability service name + environment
//   - Validates observability config as well
func LoadConfig() (*Config, error) {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	// "." is the key-path delimiter koanf uses to represent nesting.
	k := koanf.New(".")

	// Returning "" as the key makes the provider skip the variable. Empty
	// values are skipped too so an exported-but-blank var keeps the default.
	err := k.Load(env.ProviderWithValue("", ".", func(key, value string) (string, interface{}) {
		if value == "" {
			return "", nil
		}
		return legacyKeys[key], value
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load legacy env variables: %w", err)
	}

	err = k.Load(env.ProviderWithValue(envPrefix, ".", func(key, value string) (string, interface{}) {
		if value == "" {
			return "", nil
		}
		return envValue(envKey(key), value)
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := defaultConfig()

	// "" means "unmarshal everything from the root".
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Service naming is not configurable; environment follows primary.env.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := Validate(mainConfig); err != nil {
		return nil, err
	}

	logger.Debug().
		Str("env", mainConfig.Primary.Env).
		Str("database", mainConfig.Database.Name).
		Bool("jobs_enabled", mainConfig.JobsEnabled()).
		Msg("configuration loaded")

	return mainConfig, nil
}

// envKey turns BOOKWARM_SERVER__READ_TIMEOUT into server.read_timeout.
func envKey(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(name, envPrefix)), envDelimiter, ".")
}

// envValue splits list keys so "a,b" becomes two entries instead of one.
func envValue(key, value string) (string, interface{}) {
	if !listKeys[key] {
		return key, value
	}
	parts := strings.Split(value, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return key, parts
}

// Validate runs struct-tag validation on the whole config tree followed by
// the observability-specific rules.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if err := cfg.Observability.Validate(); err != nil {
		return fmt.Errorf("invalid observability config: %w", err)
	}

	return nil
}
