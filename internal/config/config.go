package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds everything the server needs, loaded once at startup.
type Config struct {
	Env      string `env:"APP_ENV" env-default:"development"`
	Port     string `env:"PORT" env-default:"8080"`
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`

	Mongo     MongoConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Interview InterviewConfig
}

// MongoConfig is the content store connection.
type MongoConfig struct {
	URI      string `env:"MONGO_URI" env-default:"mongodb://localhost:27017"`
	Database string `env:"MONGO_DB" env-default:"coalition"`
}

// RedisConfig is the session store connection.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD" env-default:""`
	DB       int    `env:"REDIS_DB" env-default:"0"`
}

// AuthConfig carries the JWT secret and the single authoring account.
type AuthConfig struct {
	JWTSecret      string `env:"JWT_SECRET" env-required:"true"`
	AuthorUsername string `env:"AUTHOR_USERNAME" env-default:"editor"`
	AuthorPassword string `env:"AUTHOR_PASSWORD" env-required:"true"`
}

// InterviewConfig tunes runtime interview behavior.
type InterviewConfig struct {
	SessionTTLMinutes int     `env:"SESSION_TTL_MINUTES" env-default:"120"`
	FollowUpChance    float64 `env:"FOLLOWUP_CHANCE" env-default:"0.7"`
}

// SessionTTL returns the session expiry as a duration.
func (c InterviewConfig) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

// Load reads configuration from the environment, with an optional .env file.
func Load() (*Config, error) {
	// A missing .env file is fine; the environment still wins.
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if cfg.Interview.FollowUpChance < 0 || cfg.Interview.FollowUpChance > 1 {
		return nil, fmt.Errorf("FOLLOWUP_CHANCE must be in [0,1], got %v", cfg.Interview.FollowUpChance)
	}
	return &cfg, nil
}
