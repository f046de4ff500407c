// Package config builds runtime configuration from environment variables so
// main stays lean. Every knob has a development default; production overrides
// via env.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures all server-level configuration.
type Config struct {
	Addr          string
	AdminToken    string
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string

	HTTP     HTTPConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Kafka    KafkaConfig

	// GraceWindow is how long prior benefits survive after a required method
	// expires. The product default is seven days.
	GraceWindow time.Duration

	// ExpiryWarningWindow is how far ahead of expiration a profile is flagged
	// as expiring soon.
	ExpiryWarningWindow time.Duration

	// StatusCacheTTL bounds staleness of cached verification status reads.
	StatusCacheTTL time.Duration

	// SweepInterval is how often the expiration sweeper runs. Zero disables
	// the background sweep; statuses are still recomputed lazily on read.
	SweepInterval time.Duration

	Campus CampusConfig
}

// CampusConfig tunes the development evidence checkers.
type CampusConfig struct {
	// EmailDomains lists accepted university email suffixes.
	EmailDomains []string

	// Latitude, Longitude, and RadiusKM define the area accepted by the
	// location check.
	Latitude  float64
	Longitude float64
	RadiusKM  float64
}

// HTTPConfig holds the listener timeouts.
type HTTPConfig struct {
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
}

// PostgresConfig holds connection settings for the relational stores.
type PostgresConfig struct {
	// DSN is empty when postgres is not configured; stores fall back to the
	// in-memory implementations (dev mode).
	DSN string
}

// RedisConfig holds connection settings for the status cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig holds settings for the audit event pipeline.
type KafkaConfig struct {
	// Brokers is empty when Kafka is not configured; audit events are kept in
	// the in-memory store instead.
	Brokers []string
	Topic   string
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	return Config{
		Addr:          getEnv("CAMPUSTRUST_ADDR", ":8080"),
		AdminToken:    getEnv("CAMPUSTRUST_ADMIN_TOKEN", ""),
		JWTSigningKey: getEnv("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		JWTIssuer:     getEnv("JWT_ISSUER", "campustrust"),
		JWTAudience:   getEnv("JWT_AUDIENCE", "campustrust-api"),
		HTTP: HTTPConfig{
			ReadHeaderTimeout: getEnvDuration("HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
			WriteTimeout:      getEnvDuration("HTTP_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:       getEnvDuration("HTTP_IDLE_TIMEOUT", 2*time.Minute),
		},
		Postgres: PostgresConfig{
			DSN: getEnv("POSTGRES_DSN", ""),
		},
		Redis: RedisConfig{
			URL:          getEnv("REDIS_URL", ""),
			PoolSize:     getEnvInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getEnvDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getEnvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers: splitNonEmpty(getEnv("KAFKA_BROKERS", "")),
			Topic:   getEnv("KAFKA_AUDIT_TOPIC", "campustrust.audit"),
		},
		GraceWindow:         getEnvDuration("VERIFICATION_GRACE_WINDOW", 7*24*time.Hour),
		ExpiryWarningWindow: getEnvDuration("VERIFICATION_EXPIRY_WARNING", 30*24*time.Hour),
		StatusCacheTTL:      getEnvDuration("STATUS_CACHE_TTL", 5*time.Minute),
		SweepInterval:       getEnvDuration("EXPIRATION_SWEEP_INTERVAL", time.Hour),
		Campus: CampusConfig{
			EmailDomains: splitNonEmpty(getEnv("CAMPUS_EMAIL_DOMAINS", ".edu")),
			Latitude:     getEnvFloat("CAMPUS_LATITUDE", 40.8075),
			Longitude:    getEnvFloat("CAMPUS_LONGITUDE", -73.9626),
			RadiusKM:     getEnvFloat("CAMPUS_RADIUS_KM", 5),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
