package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds application configuration from environment.
type Config struct {
	HTTPPort         string        `env:"HTTP_PORT" env-default:"8080"`
	HTTPReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	HTTPWriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"30s"`
	HTTPIdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"120s"`
	CORSAllowOrigins []string      `env:"CORS_ALLOW_ORIGINS" env-default:"*"`

	DatabaseURL string `env:"DATABASE_URL"`
	DBPoolSize  int    `env:"DB_POOL_SIZE" env-default:"20"`

	// Empty RedisURL disables the read cache.
	RedisURL      string        `env:"REDIS_URL"`
	RedisPoolSize int           `env:"REDIS_POOL_SIZE" env-default:"50"`
	CacheTTL      time.Duration `env:"CACHE_TTL" env-default:"5m"`

	// Empty KafkaBrokers makes writes synchronous.
	KafkaBrokers    []string `env:"KAFKA_BROKERS" env-separator:","`
	KafkaTopic      string   `env:"KAFKA_COMMAND_TOPIC" env-default:"syfw-commands"`
	KafkaPartitions int      `env:"KAFKA_PARTITIONS" env-default:"8"`
	KafkaGroupID    string   `env:"KAFKA_GROUP_ID" env-default:"syfw-workers"`

	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL" env-default:"info"`
}

// Load reads envFile (if present) into the process environment without
// overriding variables that are already set, then parses Config from env.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		// missing .env is fine; a malformed one is not
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}
	cfg.KafkaBrokers = compact(cfg.KafkaBrokers)
	cfg.CORSAllowOrigins = compact(cfg.CORSAllowOrigins)
	return cfg, nil
}

// AsyncWrites reports whether updates and deletes go through Kafka.
func (c Config) AsyncWrites() bool {
	return len(c.KafkaBrokers) > 0
}

func compact(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
