package config

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	sslModeDisable = "disable"
	sslModeRequire = "require"
)

type (
	Config struct {
		Host       string `mapstructure:"HOST"`
		Port       string `mapstructure:"PORT"`
		DBHost     string `mapstructure:"DB_HOST"`
		DBPort     string `mapstructure:"DB_PORT"`
		DBUser     string `mapstructure:"DB_USER"`
		DBPassword string `mapstructure:"DB_PASSWORD"`
		DBName     string `mapstructure:"DB_NAME"`
		DBSSLMode  string `mapstructure:"DB_SSL_MODE"`

		// RedisURL is optional; an empty value disables caching entirely.
		RedisURL string `mapstructure:"REDIS_URL"`

		GiphyAPIKey     string `mapstructure:"GIPHY_API_KEY"`
		RedditSubreddit string `mapstructure:"REDDIT_SUBREDDIT"`
		RedditUserAgent string `mapstructure:"REDDIT_USER_AGENT"`

		TrendingCacheTTL int `mapstructure:"TRENDING_CACHE_TTL"`
		GifCacheTTL      int `mapstructure:"GIF_CACHE_TTL"`

		UpstreamMaxRetries     int `mapstructure:"UPSTREAM_MAX_RETRIES"`
		UpstreamBackoffSeconds int `mapstructure:"UPSTREAM_BACKOFF_SECONDS"`
	}
)

func NewConfig() (*Config, error) {
	viper.SetEnvPrefix("MEMEBUILDER")

	viper.SetDefault("HOST", "0.0.0.0")
	viper.SetDefault("PORT", "1323")
	viper.SetDefault("DB_HOST", "0.0.0.0")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "db")
	viper.SetDefault("DB_SSL_MODE", sslModeDisable)
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("GIPHY_API_KEY", "")
	viper.SetDefault("REDDIT_SUBREDDIT", "memes")
	viper.SetDefault("REDDIT_USER_AGENT", "Mozilla/5.0 (Linux; Android 10) AppleWebKit/537.36")
	viper.SetDefault("TRENDING_CACHE_TTL", 3600)
	viper.SetDefault("GIF_CACHE_TTL", 1800)
	viper.SetDefault("UPSTREAM_MAX_RETRIES", 3)
	viper.SetDefault("UPSTREAM_BACKOFF_SECONDS", 1)

	envs := []string{
		"HOST", "PORT",
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSL_MODE",
		"REDIS_URL", "GIPHY_API_KEY",
		"REDDIT_SUBREDDIT", "REDDIT_USER_AGENT",
		"TRENDING_CACHE_TTL", "GIF_CACHE_TTL",
		"UPSTREAM_MAX_RETRIES", "UPSTREAM_BACKOFF_SECONDS",
	}
	for _, key := range envs {
		if err := viper.BindEnv(key); err != nil {
			return nil, err
		}
	}

	cfg := Config{}
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	validSSLValues := []string{sslModeDisable, sslModeRequire}
	sslOK := false
	for _, validValue := range validSSLValues {
		if cfg.DBSSLMode == validValue {
			sslOK = true
			break
		}
	}
	if !sslOK {
		return errors.New(fmt.Sprintf("DB SSL mode is invalid: %s", cfg.DBSSLMode))
	}
	if cfg.RedditSubreddit == "" {
		return errors.New("reddit subreddit must not be empty")
	}
	if cfg.TrendingCacheTTL <= 0 || cfg.GifCacheTTL <= 0 {
		return errors.New("cache TTLs must be positive")
	}
	if cfg.UpstreamMaxRetries < 1 {
		return errors.New("upstream max retries must be at least 1")
	}
	return nil
}
