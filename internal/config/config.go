package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config interface {
	EnvConfig
	StoreConfig
	SessionConfig
}

type EnvConfig interface {
	GetEnv() string
	GetAppName() string
	GetAPIBaseURL() string
	GetDataFolder() string
	GetHTTPTimeout() time.Duration
}

// Settings is the decoded form of config.yaml, .env and CONNECTEXE_* variables.
type Settings struct {
	Env                   string        `mapstructure:"env" validate:"required,oneof=DEV TEST PROD"`
	AppName               string        `mapstructure:"app_name" validate:"required"`
	APIBaseURL            string        `mapstructure:"api_base_url" validate:"required,url"`
	DataFolder            string        `mapstructure:"data_folder" validate:"required"`
	Store                 string        `mapstructure:"store" validate:"required,oneof=file redis"`
	RedisAddr             string        `mapstructure:"redis_addr" validate:"required_if=Store redis"`
	RedisPassword         string        `mapstructure:"redis_password"`
	RedisDB               int           `mapstructure:"redis_db" validate:"min=0"`
	StoreKey              string        `mapstructure:"store_key"`
	ReloadDelay           time.Duration `mapstructure:"reload_delay" validate:"min=0"`
	ForceReload           bool          `mapstructure:"force_reload"`
	LegacyIdentitySources bool          `mapstructure:"legacy_identity_sources"`
	HTTPTimeout           time.Duration `mapstructure:"http_timeout" validate:"gt=0"`
}

type mainConfig struct {
	EnvVars
	Store
	Session
}

// New loads configuration from ./config.yaml, ./.env and the environment.
func New() (Config, error) {
	return Load(".")
}

// Load reads config.yaml from the given search paths. A missing file is not an
// error; every key has a default.
func Load(paths ...string) (Config, error) {
	_ = godotenv.Load() // .env is optional

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
	))); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	s.Env = strings.ToUpper(strings.TrimSpace(s.Env))
	if err := validator.New().Struct(s); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return FromSettings(s), nil
}

// FromSettings wraps already-decoded settings, mainly for tests.
func FromSettings(s Settings) Config {
	return mainConfig{
		EnvVars: EnvVars{s: s},
		Store:   Store{s: s},
		Session: Session{s: s},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "DEV")
	v.SetDefault("app_name", "ConnectEXE")
	v.SetDefault("api_base_url", "http://localhost:8080")
	v.SetDefault("data_folder", "./data")
	v.SetDefault("store", "file")
	v.SetDefault("redis_addr", "127.0.0.1:6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("store_key", "")
	v.SetDefault("reload_delay", "100ms")
	v.SetDefault("force_reload", true)
	v.SetDefault("legacy_identity_sources", true)
	v.SetDefault("http_timeout", "15s")
}
