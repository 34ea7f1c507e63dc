// Package config provides Viper-based configuration management for nullslot
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config represents the complete nullslot configuration
type Config struct {
	API       APIConfig       `mapstructure:"api" json:"api"`
	Store     StoreConfig     `mapstructure:"store" json:"store"`
	Callback  CallbackConfig  `mapstructure:"callback" json:"callback"`
	Workspace WorkspaceConfig `mapstructure:"workspace" json:"workspace"`
	Logging   LoggingConfig   `mapstructure:"logging" json:"logging"`
	Output    OutputConfig    `mapstructure:"output" json:"output"`
	Telemetry TelemetryConfig `mapstructure:"telemetry" json:"telemetry"`
}

// APIConfig locates the backend
type APIConfig struct {
	BaseURL     string        `mapstructure:"base_url" json:"base_url" validate:"required,url"`
	GraphQLPath string        `mapstructure:"graphql_path" json:"graphql_path" validate:"required,startswith=/"`
	Timeout     time.Duration `mapstructure:"timeout" json:"timeout" validate:"gt=0"`
}

// StoreConfig selects where the session is persisted
type StoreConfig struct {
	Backend string      `mapstructure:"backend" json:"backend" validate:"oneof=file memory redis"`
	Path    string      `mapstructure:"path" json:"path"`
	Redis   RedisConfig `mapstructure:"redis" json:"redis"`
}

// RedisConfig contains the redis store settings
type RedisConfig struct {
	Addr     string `mapstructure:"addr" json:"addr" validate:"omitempty,hostname_port"`
	Password string `mapstructure:"password" json:"-"`
	DB       int    `mapstructure:"db" json:"db" validate:"gte=0"`
	Prefix   string `mapstructure:"prefix" json:"prefix"`
}

// CallbackConfig contains the local redirect server settings
type CallbackConfig struct {
	ListenAddr string `mapstructure:"listen_addr" json:"listen_addr" validate:"required,hostname_port"`
}

// WorkspaceConfig tunes the workspace list cache
type WorkspaceConfig struct {
	CacheTTL  time.Duration `mapstructure:"cache_ttl" json:"cache_ttl" validate:"gt=0"`
	CacheSize int           `mapstructure:"cache_size" json:"cache_size" validate:"gt=0"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" json:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" json:"format" validate:"oneof=text json"`
}

// OutputConfig contains output formatting settings
type OutputConfig struct {
	Colors bool `mapstructure:"colors" json:"colors"`
}

// TelemetryConfig contains OpenTelemetry export settings
type TelemetryConfig struct {
	Enabled     bool    `mapstructure:"enabled" json:"enabled"`
	Endpoint    string  `mapstructure:"endpoint" json:"endpoint" validate:"required_if=Enabled true,omitempty,url"`
	ServiceName string  `mapstructure:"service_name" json:"service_name" validate:"required"`
	SampleRatio float64 `mapstructure:"sample_ratio" json:"sample_ratio" validate:"gte=0,lte=1"`
}

// GraphQLEndpoint is the full URL of the GraphQL endpoint.
func (c *Config) GraphQLEndpoint() string {
	return strings.TrimRight(c.API.BaseURL, "/") + c.API.GraphQLPath
}

// SSOLoginURL is the backend URL that starts the SSO redirect dance.
func (c *Config) SSOLoginURL() string {
	return strings.TrimRight(c.API.BaseURL, "/") + "/auth/oidc/login"
}

// Load reads configuration from .env, the config file and NULLSLOT_*
// environment variables, in increasing priority.
func Load(cfgFile string) (*Config, *viper.Viper, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".nullslot")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/nullslot")
	}

	v.SetEnvPrefix("NULLSLOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, v, nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://localhost:8080")
	v.SetDefault("api.graphql_path", "/graphql")
	v.SetDefault("api.timeout", 10*time.Second)

	v.SetDefault("store.backend", "file")
	v.SetDefault("store.path", defaultStorePath())
	v.SetDefault("store.redis.addr", "")
	v.SetDefault("store.redis.password", "")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("store.redis.prefix", "nullslot")

	v.SetDefault("callback.listen_addr", "127.0.0.1:8765")

	v.SetDefault("workspace.cache_ttl", 5*time.Minute)
	v.SetDefault("workspace.cache_size", 16)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("output.colors", true)

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.endpoint", "http://localhost:4318")
	v.SetDefault("telemetry.service_name", "nullslot")
	v.SetDefault("telemetry.sample_ratio", 1.0)
}

func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".nullslot", "session.json")
	}
	return filepath.Join(home, ".config", "nullslot", "session.json")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report config keys, not Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidationError lists every invalid key.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, len(keys))
	for i, k := range keys {
		msgs[i] = fmt.Sprintf("%s: %s", k, e.Fields[k])
	}
	return strings.Join(msgs, "; ")
}

// Validate checks cfg against its struct tags and the cross-field rules.
func Validate(cfg *Config) error {
	fields := make(map[string]string)

	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			fields[configKey(fe.Namespace())] = describe(fe)
		}
	}

	switch cfg.Store.Backend {
	case "file":
		if cfg.Store.Path == "" {
			fields["store.path"] = "is required for the file backend"
		}
	case "redis":
		if cfg.Store.Redis.Addr == "" {
			fields["store.redis.addr"] = "is required for the redis backend"
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// configKey turns "Config.api.base_url" into "api.base_url".
func configKey(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return "is required"
	case "url":
		return "must be a valid URL"
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "hostname_port":
		return "must be host:port"
	case "startswith":
		return fmt.Sprintf("must start with %q", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte", "lte":
		return fmt.Sprintf("is out of range (%s %s)", fe.Tag(), fe.Param())
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}
