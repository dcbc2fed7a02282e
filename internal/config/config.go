package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingSecret is returned outside the local environment when no token secret is set.
var ErrMissingSecret = errors.New("missing required environment variable TOKEN_SECRET")

const devSecret = "dev_secret_change_me"

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env          string  `mapstructure:"env"`           // local, dev, production
	Port         string  `mapstructure:"port"`          // HTTP listen port
	LogLevel     string  `mapstructure:"log_level"`     // zerolog level name
	ClientOrigin string  `mapstructure:"client_origin"` // allowed CORS origin
	Catalog      Catalog `mapstructure:"catalog"`
	Token        Token   `mapstructure:"token"`
	Game         Game    `mapstructure:"game"`
}

// Catalog selects where questions are read from.
type Catalog struct {
	File string `mapstructure:"file"` // JSON catalog path
	DB   string `mapstructure:"db"`   // SQLite catalog path, wins over File
}

// Token configures player tokens.
type Token struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
	Cookie string        `mapstructure:"cookie"`
}

// Game holds gameplay timing and seeding options.
type Game struct {
	SkipFeedbackDelay time.Duration `mapstructure:"skip_feedback_delay"` // how long "Question Skipped!" stays up
	SessionIdleTTL    time.Duration `mapstructure:"session_idle_ttl"`    // idle sessions are dropped after this
	DailySalt         string        `mapstructure:"daily_salt"`
}

// IsLocal reports whether the app runs in the local environment.
func (c *Config) IsLocal() bool { return c.Env == "local" }

// Load reads .env (if present), an optional config/config.yaml and the
// environment, in increasing order of precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	v.SetDefault("env", "local")
	v.SetDefault("port", "5175")
	v.SetDefault("log_level", "info")
	v.SetDefault("client_origin", "http://localhost:5173")
	v.SetDefault("catalog.file", "")
	v.SetDefault("catalog.db", "")
	v.SetDefault("token.secret", "")
	v.SetDefault("token.ttl", "24h")
	v.SetDefault("token.cookie", "quiz_token")
	v.SetDefault("game.skip_feedback_delay", "5s")
	v.SetDefault("game.session_idle_ttl", "2h")
	v.SetDefault("game.daily_salt", "local_dev_salt")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Short, unprefixed names for the variables people actually set.
	_ = v.BindEnv("env", "APP_ENV")
	_ = v.BindEnv("catalog.file", "CATALOG_FILE")
	_ = v.BindEnv("catalog.db", "CATALOG_DB")
	_ = v.BindEnv("token.secret", "TOKEN_SECRET")
	_ = v.BindEnv("token.ttl", "TOKEN_TTL")
	_ = v.BindEnv("game.skip_feedback_delay", "SKIP_FEEDBACK_DELAY")
	_ = v.BindEnv("game.session_idle_ttl", "SESSION_IDLE_TTL")
	_ = v.BindEnv("game.daily_salt", "DAILY_SALT")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if cfg.Token.Secret == "" {
		if !cfg.IsLocal() {
			return nil, ErrMissingSecret
		}
		cfg.Token.Secret = devSecret
	}
	return &cfg, nil
}
