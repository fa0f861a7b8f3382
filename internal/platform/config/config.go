package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr      string
	LogLevel  string
	LogFormat string
	DraftTTL  time.Duration
	// CleanupInterval paces eviction of expired entries from the in-memory
	// draft store and geolocation cache.
	CleanupInterval time.Duration
	// DraftSealKey seals draft passwords in Redis. Nil means a per-process
	// random key.
	DraftSealKey []byte
	Redis        RedisConfig
	Postgres     PostgresConfig
	GeoIP        GeoIPConfig
	Kafka        KafkaConfig
}

// RedisConfig configures the draft store and geolocation cache. An empty URL
// keeps both in memory.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// PostgresConfig configures the registration store. An empty URL keeps
// registrations in memory.
type PostgresConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
}

type GeoIPConfig struct {
	Enabled  bool
	URL      string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// KafkaConfig enables event publishing when Brokers is non-empty.
type KafkaConfig struct {
	Brokers           []string
	Topic             string
	Partitions        int32
	ReplicationFactor int16
}

const defaultGeoIPURL = "https://ipapi.com/ip_api.php?type=json"

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	var errs []string
	duration := func(key string, def time.Duration) time.Duration {
		v := os.Getenv(key)
		if v == "" {
			return def
		}
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			errs = append(errs, fmt.Sprintf("%s: invalid duration %q", key, v))
			return def
		}
		return d
	}
	integer := func(key string, def int) int {
		v := os.Getenv(key)
		if v == "" {
			return def
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			errs = append(errs, fmt.Sprintf("%s: invalid integer %q", key, v))
			return def
		}
		return n
	}

	sealKey := func(key string) []byte {
		v := os.Getenv(key)
		if v == "" {
			return nil
		}
		b, err := base64.StdEncoding.DecodeString(v)
		if err != nil || len(b) != 32 {
			errs = append(errs, fmt.Sprintf("%s: want base64 of 32 bytes", key))
			return nil
		}
		return b
	}

	cfg := Server{
		Addr:      getenv("SIGNUP_ADDR", ":8080"),
		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogFormat: getenv("LOG_FORMAT", "json"),
		DraftTTL:  duration("DRAFT_TTL", 30*time.Minute),

		CleanupInterval: duration("CLEANUP_INTERVAL", time.Minute),
		DraftSealKey:    sealKey("DRAFT_SEAL_KEY"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     integer("REDIS_POOL_SIZE", 10),
			MinIdleConns: integer("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  duration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  duration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: duration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Postgres: PostgresConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: integer("DATABASE_MAX_OPEN_CONNS", 10),
			MaxIdleConns: integer("DATABASE_MAX_IDLE_CONNS", 5),
		},
		GeoIP: GeoIPConfig{
			Enabled:  os.Getenv("GEOIP_ENABLED") != "false",
			URL:      getenv("GEOIP_URL", defaultGeoIPURL),
			Timeout:  duration("GEOIP_TIMEOUT", 3*time.Second),
			CacheTTL: duration("GEOIP_CACHE_TTL", time.Hour),
		},
		Kafka: KafkaConfig{
			Brokers:           splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:             getenv("KAFKA_TOPIC", "signup.registrations"),
			Partitions:        int32(integer("KAFKA_PARTITIONS", 3)),
			ReplicationFactor: int16(integer("KAFKA_REPLICATION_FACTOR", 1)),
		},
	}
	if len(errs) > 0 {
		return Server{}, fmt.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
