// Package config builds runtime configuration from environment variables so
// main stays lean.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures everything cmd/server needs to wire the service.
type Config struct {
	Addr            string
	ShutdownTimeout time.Duration

	// DatabaseURL is a lib/pq connection string. Empty means the in-memory
	// stores are used, which is only suitable for local development.
	DatabaseURL string

	Redis RedisConfig
	Kafka KafkaConfig

	JWTSigningKey string
	JWTIssuer     string

	// LooseCertMatch enables the legacy substring match between certification
	// names and required product codes. Off by default; exact product-code
	// matching is the supported behavior.
	LooseCertMatch bool

	// EligibleCacheTTL bounds staleness of the cached eligible-partner
	// listing. The listing is display-only; authorization always recomputes.
	EligibleCacheTTL time.Duration
}

// RedisConfig holds connection settings for the optional Redis cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig holds settings for the notification relay. Empty brokers
// disable publishing; outbox rows then stay queued until a relay runs.
type KafkaConfig struct {
	Brokers           []string
	NotificationTopic string
}

// FromEnv builds a Config from environment variables with development
// defaults.
func FromEnv() Config {
	return Config{
		Addr:             getEnv("PARTNERDESK_ADDR", ":8080"),
		ShutdownTimeout:  getDuration("PARTNERDESK_SHUTDOWN_TIMEOUT", 10*time.Second),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		JWTSigningKey:    getEnv("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		JWTIssuer:        getEnv("JWT_ISSUER", "partnerdesk"),
		LooseCertMatch:   os.Getenv("COMPLIANCE_LOOSE_MATCH") == "true",
		EligibleCacheTTL: getDuration("ELIGIBLE_CACHE_TTL", 2*time.Minute),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:           splitList(os.Getenv("KAFKA_BROKERS")),
			NotificationTopic: getEnv("KAFKA_NOTIFICATION_TOPIC", "partnerdesk.notifications"),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
