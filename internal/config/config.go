package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	// Environment
	RunMode string // Set via flag, not env

	// MongoDB
	MongoURI    string
	MongoDbName string

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// JWT
	JwtSecret string
	JwtTTL    time.Duration

	// Server
	ApiPort    string
	CorsOrigin string

	// Notification queue
	NotifyMaxAttempts       int           // total delivery attempts per job
	NotifyBackoffBase       time.Duration // exponential backoff base delay
	NotifyConcurrency       int           // simultaneous in-flight jobs per worker process
	NotifyDeliveryTimeout   time.Duration // time bound on a single delivery attempt
	NotifyCompletedMaxCount int           // completed jobs kept for observability
	NotifyCompletedMaxAge   time.Duration
	NotifyDeadMaxCount      int // jobs kept in the dead bucket
	NotifyDeadMaxAge        time.Duration
	NotifyJanitorInterval   time.Duration

	// Email
	SmtpHost        string
	SmtpPort        int
	SmtpUsername    string
	SmtpPassword    string
	SmtpFromAddress string

	// Cloudflare Turnstile (optional; public submission form protection)
	CloudflareTurnstileSecretKey string
	CloudflareSiteVerifyURL      string

	// AWS S3 (catalog images)
	AwsAccessKeyID     string
	AwsSecretAccessKey string
	AwsRegion          string
	AwsS3Bucket        string
	ImageBaseS3URL     string
	ImageMaxDimension  int
	ImageMaxSizeMB     int

	// App Defaults
	AppName string

	// Rate Limiting Defaults
	RateLimitBucketSize         int
	RateLimitRefillRate         int // tokens per second
	RateLimitSubmitBucketSize   int // tighter bucket for POST /v1/submission
	RateLimitSubmitRefillPerMin int // tokens per minute
}

// Load configuration from environment variables.
// RunMode needs to be passed in as it comes from command-line flags.
func Load(runMode string) (*Config, error) {
	// Load .env file, ignoring errors if it doesn't exist
	godotenv.Load()

	cfg := &Config{
		RunMode: runMode, // Set from flag
	}

	var err error

	getEnv := func(key, defaultValue string) string {
		if value, exists := os.LookupEnv(key); exists {
			return value
		}
		return defaultValue
	}

	getRequiredEnv := func(key string) (string, error) {
		value, exists := os.LookupEnv(key)
		if !exists {
			return "", fmt.Errorf("missing required environment variable: %s", key)
		}
		return value, nil
	}

	getIntEnv := func(key string, defaultValue int) (int, error) {
		v, err := strconv.Atoi(getEnv(key, strconv.Itoa(defaultValue)))
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", key, err)
		}
		return v, nil
	}

	getDurationEnv := func(key string, defaultSeconds int64) (time.Duration, error) {
		secs, err := strconv.ParseInt(getEnv(key, strconv.FormatInt(defaultSeconds, 10)), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", key, err)
		}
		return time.Duration(secs) * time.Second, nil
	}

	cfg.MongoURI, err = getRequiredEnv("MONGO_URI")
	if err != nil {
		return nil, err
	}
	cfg.MongoDbName = getEnv("MONGO_DB_NAME", "storefront")
	cfg.RedisAddr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	cfg.JwtSecret, err = getRequiredEnv("JWT_SECRET")
	if err != nil {
		return nil, err
	}
	cfg.ApiPort = getEnv("API_PORT", "8080")
	cfg.CorsOrigin = getEnv("CORS_ORIGIN", "*")
	cfg.SmtpHost = getEnv("SMTP_HOST", "")
	cfg.SmtpUsername = getEnv("SMTP_USERNAME", "")
	cfg.SmtpPassword = getEnv("SMTP_PASSWORD", "")
	cfg.SmtpFromAddress = getEnv("SMTP_FROM_ADDRESS", "noreply@storefront.example.com")
	cfg.CloudflareTurnstileSecretKey = getEnv("CLOUDFLARE_TURNSTILE_SECRET_KEY", "")
	cfg.CloudflareSiteVerifyURL = getEnv("CLOUDFLARE_SITEVERIFY_URL", "https://challenges.cloudflare.com/turnstile/v0/siteverify")
	cfg.AwsAccessKeyID = getEnv("AWS_ACCESS_KEY_ID", "")
	cfg.AwsSecretAccessKey = getEnv("AWS_SECRET_ACCESS_KEY", "")
	cfg.AwsRegion = getEnv("AWS_REGION", "")
	cfg.AwsS3Bucket = getEnv("AWS_S3_BUCKET", "")
	cfg.ImageBaseS3URL = getEnv("IMAGE_BASE_S3_URL", "")
	cfg.AppName = getEnv("APP_NAME", "Storefront")

	cfg.RedisDB, err = getIntEnv("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}

	cfg.JwtTTL, err = getDurationEnv("JWT_TTL_SECONDS", 3600)
	if err != nil {
		return nil, err
	}

	cfg.SmtpPort, err = getIntEnv("SMTP_PORT", 587)
	if err != nil {
		return nil, err
	}

	// Notification dispatch policy: 3 attempts, 2s exponential backoff base,
	// 5 concurrent workers, completed jobs kept 24h/newest 100, dead jobs
	// kept 7d/newest 1000.
	cfg.NotifyMaxAttempts, err = getIntEnv("NOTIFY_MAX_ATTEMPTS", 3)
	if err != nil {
		return nil, err
	}
	if cfg.NotifyMaxAttempts < 1 {
		return nil, fmt.Errorf("NOTIFY_MAX_ATTEMPTS must be >= 1, got %d", cfg.NotifyMaxAttempts)
	}

	backoffMs, err := getIntEnv("NOTIFY_BACKOFF_BASE_MS", 2000)
	if err != nil {
		return nil, err
	}
	cfg.NotifyBackoffBase = time.Duration(backoffMs) * time.Millisecond

	cfg.NotifyConcurrency, err = getIntEnv("NOTIFY_CONCURRENCY", 5)
	if err != nil {
		return nil, err
	}

	cfg.NotifyDeliveryTimeout, err = getDurationEnv("NOTIFY_DELIVERY_TIMEOUT_SECONDS", 30)
	if err != nil {
		return nil, err
	}

	cfg.NotifyCompletedMaxCount, err = getIntEnv("NOTIFY_COMPLETED_MAX_COUNT", 100)
	if err != nil {
		return nil, err
	}
	cfg.NotifyCompletedMaxAge, err = getDurationEnv("NOTIFY_COMPLETED_MAX_AGE_SECONDS", 24*3600)
	if err != nil {
		return nil, err
	}
	cfg.NotifyDeadMaxCount, err = getIntEnv("NOTIFY_DEAD_MAX_COUNT", 1000)
	if err != nil {
		return nil, err
	}
	cfg.NotifyDeadMaxAge, err = getDurationEnv("NOTIFY_DEAD_MAX_AGE_SECONDS", 7*24*3600)
	if err != nil {
		return nil, err
	}
	cfg.NotifyJanitorInterval, err = getDurationEnv("NOTIFY_JANITOR_INTERVAL_SECONDS", 600)
	if err != nil {
		return nil, err
	}

	cfg.ImageMaxDimension, err = getIntEnv("IMAGE_MAX_DIMENSION", 1600)
	if err != nil {
		return nil, err
	}
	cfg.ImageMaxSizeMB, err = getIntEnv("IMAGE_MAX_SIZE_MB", 10)
	if err != nil {
		return nil, err
	}

	cfg.RateLimitBucketSize, err = getIntEnv("RATE_LIMIT_BUCKET_SIZE", 50)
	if err != nil {
		return nil, err
	}
	cfg.RateLimitRefillRate, err = getIntEnv("RATE_LIMIT_REFILL_RATE", 5)
	if err != nil {
		return nil, err
	}
	cfg.RateLimitSubmitBucketSize, err = getIntEnv("RATE_LIMIT_SUBMIT_BUCKET_SIZE", 10)
	if err != nil {
		return nil, err
	}
	cfg.RateLimitSubmitRefillPerMin, err = getIntEnv("RATE_LIMIT_SUBMIT_REFILL_PER_MIN", 1)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
