package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Server captures process level configuration.
type Server struct {
	Addr           string
	DatabaseURL    string
	Redis          RedisConfig
	Kafka          KafkaConfig
	JWTSigningKey  string
	FileRoot       string
	StorageTimeout time.Duration
	StorageRetries int
	PolicyFile     string
	LogLevel       string
	// ReviewToken gates the compliance review routes. Empty disables them.
	ReviewToken string
	// LockTTL bounds how long one submission may hold the per-user lock.
	LockTTL time.Duration
	// SubmitRateLimit caps submissions per user per SubmitRateWindow. Zero
	// disables the limit.
	SubmitRateLimit  int
	SubmitRateWindow time.Duration
}

// RedisConfig configures the optional Redis client used for the submission
// lock and the AML watchlist.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	WatchlistKey string
}

// KafkaConfig configures the optional approval notifier.
type KafkaConfig struct {
	Brokers       []string
	ApprovedTopic string
}

// Enabled reports whether brokers are configured.
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

const (
	defaultAddr           = ":8080"
	defaultFileRoot       = "./uploads"
	defaultStorageTimeout = 3 * time.Second
	defaultStorageRetries = 2
	defaultApprovedTopic  = "kyc.verification.approved"
	defaultLockTTL        = 2 * time.Minute
	defaultWatchlistKey   = "kyc:aml:watchlist"
	defaultSubmitLimit    = 10
	defaultSubmitWindow   = time.Hour
)

// FromEnv builds a Server config from environment variables so main stays
// lean. A .env file in the working directory is loaded first when present;
// variables already set in the environment win.
func FromEnv() (Server, error) {
	_ = godotenv.Load()

	cfg := Server{
		Addr:          getEnv("KYC_ADDR", defaultAddr),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSigningKey: os.Getenv("JWT_SIGNING_KEY"),
		FileRoot:      getEnv("KYC_FILE_ROOT", defaultFileRoot),
		PolicyFile:    os.Getenv("KYC_POLICY_FILE"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		ReviewToken:   os.Getenv("KYC_REVIEW_TOKEN"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			WatchlistKey: getEnv("KYC_WATCHLIST_KEY", defaultWatchlistKey),
		},
		Kafka: KafkaConfig{
			Brokers:       splitList(os.Getenv("KAFKA_BROKERS")),
			ApprovedTopic: getEnv("KYC_APPROVED_TOPIC", defaultApprovedTopic),
		},
	}

	if cfg.JWTSigningKey == "" {
		// Use a default for development - should be overridden in production
		cfg.JWTSigningKey = "dev-secret-key-change-in-production"
	}

	timeout, err := getDuration("KYC_STORAGE_TIMEOUT", defaultStorageTimeout)
	if err != nil {
		return Server{}, err
	}
	cfg.StorageTimeout = timeout

	retries, err := getInt("KYC_STORAGE_RETRIES", defaultStorageRetries)
	if err != nil {
		return Server{}, err
	}
	if retries < 0 {
		return Server{}, fmt.Errorf("KYC_STORAGE_RETRIES must not be negative")
	}
	cfg.StorageRetries = retries

	lockTTL, err := getDuration("KYC_LOCK_TTL", defaultLockTTL)
	if err != nil {
		return Server{}, err
	}
	cfg.LockTTL = lockTTL

	submitLimit, err := getInt("KYC_SUBMIT_RATE_LIMIT", defaultSubmitLimit)
	if err != nil {
		return Server{}, err
	}
	if submitLimit < 0 {
		return Server{}, fmt.Errorf("KYC_SUBMIT_RATE_LIMIT must not be negative")
	}
	cfg.SubmitRateLimit = submitLimit

	submitWindow, err := getDuration("KYC_SUBMIT_RATE_WINDOW", defaultSubmitWindow)
	if err != nil {
		return Server{}, err
	}
	cfg.SubmitRateWindow = submitWindow

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
