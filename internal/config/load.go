package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"
	// Reference timezones must resolve on hosts without a zoneinfo database.
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "LEXICON"

// Options controls where Load looks for configuration.
type Options struct {
	// ConfigPaths are searched for config.yaml. Defaults to the working directory.
	ConfigPaths []string
	// DotEnvFile is loaded into the environment before reading it.
	// Defaults to ".env"; a missing file is not an error.
	DotEnvFile string
}

// Load reads configuration with default Options.
func Load() (*Config, error) {
	return LoadWithOptions(Options{})
}

// LoadWithOptions reads defaults, the optional config file, the optional
// dotenv file and the environment, then validates the result.
// Environment variables take precedence over values from config files.
func LoadWithOptions(opts Options) (*Config, error) {
	dotenv := opts.DotEnvFile
	if dotenv == "" {
		dotenv = ".env"
	}
	// godotenv never overrides variables that are already set.
	if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", dotenv, err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	paths := opts.ConfigPaths
	if len(paths) == 0 {
		paths = []string{"."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Keys without defaults are only visible to Unmarshal once bound.
	for _, key := range []string{"database.url", "auth.jwt_secret"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(cfg.Learning.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid learning.timezone: %w", err)
	}
	cfg.Learning.location = loc

	return &cfg, nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.max_open_conns", 10)

	v.SetDefault("auth.token_lifetime_minutes", 60)

	v.SetDefault("learning.timezone", "Asia/Ho_Chi_Minh")
	v.SetDefault("learning.correct_threshold", 70)
	v.SetDefault("learning.review_passes", 1)
	v.SetDefault("learning.intervals", []int{1, 3, 7, 14, 30, 60, 120})
	v.SetDefault("learning.session_idle_ttl", 30*time.Minute)
	v.SetDefault("learning.sweep_interval", time.Minute)

	v.SetDefault("worker.count", 2)
	v.SetDefault("worker.queue_size", 100)
	v.SetDefault("worker.stuck_task_age", 10*time.Minute)
	v.SetDefault("worker.requeue_interval", 5*time.Minute)
}
