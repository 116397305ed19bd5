package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	strs "idcheck/pkg/platform/strings"
)

// Cache backends for BGC results.
const (
	CacheNone     = "none"
	CacheMemory   = "memory"
	CacheRedis    = "redis"
	CachePostgres = "postgres"
)

// ResultCacheTTL bounds how long identity results may be retained.
var ResultCacheTTL = 5 * time.Minute

const defaultPurgeInterval = 10 * time.Minute

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config is the complete process configuration.
type Config struct {
	Server   Server
	Log      Log
	BGC      BGC
	Cache    Cache
	Redis    RedisConfig
	Postgres PostgresConfig
	Kafka    KafkaConfig
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string `validate:"required"`
	RegulatedMode bool
	// SubjectHashKey keys the hash that replaces SSNs in audit events and
	// cache keys.
	SubjectHashKey string `validate:"max=64"`
}

type Log struct {
	Level  string `validate:"oneof=debug info warn error"`
	Format string `validate:"oneof=json text"`
}

// BGC holds the vendor connections. The first entry is the default one.
type BGC struct {
	Connections []BGCConnection `validate:"required,min=1,dive"`
	Timeout     time.Duration   `validate:"gt=0"`
}

type BGCConnection struct {
	Name     string `validate:"required"`
	Host     string `validate:"required,url"`
	User     string `validate:"required"`
	Password string `validate:"required"`
	Account  string `validate:"required"`
}

type Cache struct {
	Backend string        `validate:"oneof=none memory redis postgres"`
	TTL     time.Duration `validate:"gte=0"`
	// PurgeInterval paces removal of expired rows from the postgres backend.
	PurgeInterval time.Duration `validate:"gt=0"`
}

type RedisConfig struct {
	URL          string `validate:"required_if=Enabled true"`
	Enabled      bool
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type PostgresConfig struct {
	DSN             string `validate:"required_if=Enabled true"`
	Enabled         bool
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type KafkaConfig struct {
	Brokers    []string
	AuditTopic string `validate:"required_with=Brokers"`
}

// Load reads the optional env files into the environment without
// overriding variables already set, then builds the config from it.
func Load(envFiles ...string) (Config, error) {
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", file, err)
		}
	}
	return FromEnv()
}

// FromEnv builds and validates the config from environment variables.
func FromEnv() (Config, error) {
	cache := Cache{
		Backend:       envOr("CACHE_BACKEND", CacheMemory),
		TTL:           durationOr("CACHE_TTL", ResultCacheTTL),
		PurgeInterval: durationOr("CACHE_PURGE_INTERVAL", defaultPurgeInterval),
	}
	cfg := Config{
		Server: Server{
			Addr:           envOr("IDCHECK_ADDR", ":8080"),
			RegulatedMode:  os.Getenv("REGULATED_MODE") == "true",
			SubjectHashKey: os.Getenv("SUBJECT_HASH_KEY"),
		},
		Log: Log{
			Level:  envOr("LOG_LEVEL", "info"),
			Format: envOr("LOG_FORMAT", "json"),
		},
		BGC: BGC{
			Connections: bgcConnections(),
			Timeout:     durationOr("BGC_TIMEOUT", 30*time.Second),
		},
		Cache: cache,
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			Enabled:      cache.Backend == CacheRedis,
			PoolSize:     intOr("REDIS_POOL_SIZE", 10),
			MinIdleConns: intOr("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  durationOr("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  durationOr("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: durationOr("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Postgres: PostgresConfig{
			DSN:             os.Getenv("DATABASE_URL"),
			Enabled:         cache.Backend == CachePostgres,
			MaxOpenConns:    intOr("DATABASE_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    intOr("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: durationOr("DATABASE_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Kafka: KafkaConfig{
			Brokers:    strs.SplitList(os.Getenv("KAFKA_BROKERS")),
			AuditTopic: envOr("KAFKA_AUDIT_TOPIC", "idcheck.audit"),
		},
	}
	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// bgcConnections reads the default connection from BGC_HOST, BGC_USER,
// BGC_PASSWORD and BGC_ACCOUNT, and each extra name listed in
// BGC_CONNECTIONS from BGC_<NAME>_HOST and so on.
func bgcConnections() []BGCConnection {
	conns := []BGCConnection{readConnection("default", "BGC_")}
	for _, name := range strs.SplitListLower(os.Getenv("BGC_CONNECTIONS")) {
		prefix := "BGC_" + strings.ToUpper(name) + "_"
		conns = append(conns, readConnection(name, prefix))
	}
	return conns
}

func readConnection(name, prefix string) BGCConnection {
	return BGCConnection{
		Name:     name,
		Host:     os.Getenv(prefix + "HOST"),
		User:     os.Getenv(prefix + "USER"),
		Password: os.Getenv(prefix + "PASSWORD"),
		Account:  os.Getenv(prefix + "ACCOUNT"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intOr(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return fallback
}
