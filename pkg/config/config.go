package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config is the full ambient configuration surface this module reads at
// startup. Trimmed from the teacher's config (which also carried
// Database, JWT, Analytics, Dashboard, Cutover, Reports, Mutations,
// Archives, Homerooms, Aliases and Configuration-API blocks) down to the
// blocks the scheduling domain actually uses — see DESIGN.md.
type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Redis     RedisConfig
	CORS      CORSConfig
	Log       LogConfig
	Scheduler SchedulerConfig
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SchedulerConfig governs the engine's default run parameters; requests
// may override any of these per-call (SPEC_FULL.md §6.1 Config).
type SchedulerConfig struct {
	DefaultAlgorithm     string
	DefaultTimeout       time.Duration
	MaxConsecutiveTheory int
	PeriodsPerDay        int
	ProposalTTL          time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Scheduler = SchedulerConfig{
		DefaultAlgorithm:     v.GetString("SCHEDULER_DEFAULT_ALGORITHM"),
		DefaultTimeout:       parseDuration(v.GetString("SCHEDULER_DEFAULT_TIMEOUT"), 30*time.Second),
		MaxConsecutiveTheory: v.GetInt("SCHEDULER_MAX_CONSECUTIVE_THEORY"),
		PeriodsPerDay:        v.GetInt("SCHEDULER_PERIODS_PER_DAY"),
		ProposalTTL:          parseDuration(v.GetString("SCHEDULER_PROPOSAL_TTL"), 30*time.Minute),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SCHEDULER_DEFAULT_ALGORITHM", "hybrid")
	v.SetDefault("SCHEDULER_DEFAULT_TIMEOUT", "30s")
	v.SetDefault("SCHEDULER_MAX_CONSECUTIVE_THEORY", 2)
	v.SetDefault("SCHEDULER_PERIODS_PER_DAY", 9)
	v.SetDefault("SCHEDULER_PROPOSAL_TTL", "30m")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
