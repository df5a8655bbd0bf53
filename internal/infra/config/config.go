package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config aggregates application configuration loaded from environment
// variables. Hosted collaborators (NATS, Kafka, Redis, Beams) are optional;
// an empty setting disables the integration rather than failing startup.
type Config struct {
	Env      string
	HTTPAddr string

	StoreMode string
	MongoURI  string
	MongoDB   string

	NATSURL string

	RedisAddr     string
	RedisPassword string

	KafkaBrokers []string
	AuditTopic   string

	BeamsInstanceID string
	BeamsSecretKey  string

	SessionTTL    time.Duration
	StaffFixtures string
}

const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"
)

// Load parses configuration from the current environment.
func Load() (Config, error) {
	cfg := Config{
		Env:             getEnv("APP_ENV", "dev"),
		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		StoreMode:       strings.ToLower(getEnv("STORE_MODE", StoreMemory)),
		MongoURI:        os.Getenv("MONGO_URI"),
		MongoDB:         getEnv("MONGO_DB", "dapur"),
		NATSURL:         os.Getenv("NATS_URL"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		AuditTopic:      getEnv("KAFKA_AUDIT_TOPIC", "chat.messages"),
		BeamsInstanceID: os.Getenv("BEAMS_INSTANCE_ID"),
		BeamsSecretKey:  os.Getenv("BEAMS_SECRET_KEY"),
		StaffFixtures:   os.Getenv("STAFF_FIXTURES"),
	}
	brokers := getEnv("KAFKA_BROKERS", "")
	if brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if trimmed := strings.TrimSpace(b); trimmed != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, trimmed)
			}
		}
	}

	ttl, err := parseDurationEnv("SESSION_TTL", 24*time.Hour)
	if err != nil {
		return Config{}, err
	}
	cfg.SessionTTL = ttl

	switch cfg.StoreMode {
	case StoreMemory:
	case StoreMongo:
		if cfg.MongoURI == "" {
			return Config{}, fmt.Errorf("MONGO_URI is required when STORE_MODE=%s", StoreMongo)
		}
	default:
		return Config{}, fmt.Errorf("invalid STORE_MODE %q", cfg.StoreMode)
	}
	if cfg.BeamsInstanceID != "" && cfg.BeamsSecretKey == "" {
		return Config{}, fmt.Errorf("BEAMS_SECRET_KEY is required when BEAMS_INSTANCE_ID is set")
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", key, err)
	}
	return d, nil
}
