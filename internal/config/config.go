package config

import (
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Learning LearningConfig `mapstructure:"learning" validate:"required"`
	Worker   WorkerConfig   `mapstructure:"worker" validate:"required"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	URL          string `mapstructure:"url" validate:"required,url"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=1"`
}

// AuthConfig contains token verification settings. Tokens are issued by the
// identity service; the secret is only needed by the HTTP server.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"omitempty,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"gte=1"`
}

// LearningConfig contains the scheduling and grading policy.
type LearningConfig struct {
	// Timezone is the IANA zone every calendar-date decision is made in.
	Timezone         string        `mapstructure:"timezone" validate:"required,timezone"`
	CorrectThreshold int           `mapstructure:"correct_threshold" validate:"gte=1,lte=100"`
	ReviewPasses     int           `mapstructure:"review_passes" validate:"gte=0"`
	Intervals        []int         `mapstructure:"intervals" validate:"required,min=1,dive,gt=0"`
	SessionIdleTTL   time.Duration `mapstructure:"session_idle_ttl" validate:"gt=0"`
	SweepInterval    time.Duration `mapstructure:"sweep_interval" validate:"gt=0"`

	location *time.Location
}

// Location returns the reference timezone. Load resolves it once; configs
// built by hand resolve it on demand.
func (c LearningConfig) Location() (*time.Location, error) {
	if c.location != nil {
		return c.location, nil
	}
	return time.LoadLocation(c.Timezone)
}

// WorkerConfig sizes the background attempt-log workers.
type WorkerConfig struct {
	Count     int `mapstructure:"count" validate:"gte=1"`
	QueueSize int `mapstructure:"queue_size" validate:"gte=1"`
	// StuckTaskAge is how long a persisted task may sit pending or
	// processing before it is queued again.
	StuckTaskAge    time.Duration `mapstructure:"stuck_task_age" validate:"gt=0"`
	RequeueInterval time.Duration `mapstructure:"requeue_interval" validate:"gt=0"`
}
