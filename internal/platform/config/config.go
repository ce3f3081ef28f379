package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures process-level configuration so main stays lean. Optional
// backends (postgres, redis, kafka) stay disabled when their URLs are empty.
type Server struct {
	Addr          string
	JWTSigningKey string

	PostgresURL string
	RedisAddr   string

	KafkaBrokers    string
	KafkaAuditTopic string

	AIRateLimit  int
	AIRateWindow time.Duration

	ShutdownTimeout time.Duration
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	addr := os.Getenv("SANCTUM_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default; override in production.
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	topic := os.Getenv("KAFKA_AUDIT_TOPIC")
	if topic == "" {
		topic = "sanctum.audit"
	}

	return Server{
		Addr:            addr,
		JWTSigningKey:   jwtSigningKey,
		PostgresURL:     os.Getenv("POSTGRES_URL"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		KafkaBrokers:    os.Getenv("KAFKA_BROKERS"),
		KafkaAuditTopic: topic,
		AIRateLimit:     intFromEnv("AI_RATE_LIMIT", 60),
		AIRateWindow:    durationFromEnv("AI_RATE_WINDOW", time.Minute),
		ShutdownTimeout: durationFromEnv("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func intFromEnv(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func durationFromEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
