package config

import (
	"fmt"
	"log"
	"time"

	"github.com/SscSPs/cancha_booking_app/internal/core/domain"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL     string
	Port            string
	IsProduction    bool
	EnableDBCheck   bool
	JWTSecret       string
	JWTIssuer       string
	ShutdownTimeout time.Duration

	// Logging
	LogLevel      string
	LogFile       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int

	// Slot generation
	DefaultGrid  domain.DefaultGrid
	SlotCacheTTL time.Duration

	// Redis backs the slot cache and the rate limiter. Empty disables both stores.
	RedisURL  string
	RateLimit string

	// Reservation events
	AMQPURL              string
	AMQPReservationQueue string

	// Receipt storage, "local" or "s3"
	ReceiptStorage    string
	ReceiptDir        string
	ReceiptBaseURL    string
	S3Endpoint        string
	S3Region          string
	S3Bucket          string
	S3AccessKeyID     string
	S3SecretAccessKey string

	CompletionSweepCron string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	v.SetDefault("JWT_ISSUER", "cancha-booking-app")
	v.SetDefault("SHUTDOWN_TIMEOUT", "15s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("LOG_MAX_SIZE_MB", 50)
	v.SetDefault("LOG_MAX_BACKUPS", 5)
	v.SetDefault("LOG_MAX_AGE_DAYS", 28)
	v.SetDefault("SLOT_DEFAULT_OPEN", "06:00")
	v.SetDefault("SLOT_DEFAULT_CLOSE", "23:00")
	v.SetDefault("SLOT_DURATION", "1h")
	v.SetDefault("SLOT_CACHE_TTL", "60s")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("RATE_LIMIT", "100-M")
	v.SetDefault("AMQP_URL", "")
	v.SetDefault("AMQP_RESERVATION_QUEUE", "reservation_events")
	v.SetDefault("RECEIPT_STORAGE", "local")
	v.SetDefault("RECEIPT_DIR", "./uploads")
	v.SetDefault("RECEIPT_BASE_URL", "/uploads")
	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_BUCKET", "")
	v.SetDefault("S3_ACCESS_KEY_ID", "")
	v.SetDefault("S3_SECRET_ACCESS_KEY", "")
	v.SetDefault("COMPLETION_SWEEP_CRON", "*/15 * * * *")
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{}

	cfg.DatabaseURL = v.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = v.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.JWTSecret = v.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTIssuer = v.GetString("JWT_ISSUER")

	cfg.ShutdownTimeout = durationOr(v, "SHUTDOWN_TIMEOUT", 15*time.Second)
	cfg.SlotCacheTTL = durationOr(v, "SLOT_CACHE_TTL", time.Minute)

	grid, err := parseGrid(v.GetString("SLOT_DEFAULT_OPEN"), v.GetString("SLOT_DEFAULT_CLOSE"), v.GetString("SLOT_DURATION"))
	if err != nil {
		return nil, err
	}
	cfg.DefaultGrid = grid

	switch storage := v.GetString("RECEIPT_STORAGE"); storage {
	case "local", "s3":
		cfg.ReceiptStorage = storage
	default:
		return nil, fmt.Errorf("RECEIPT_STORAGE must be local or s3, got %q", storage)
	}
	if cfg.ReceiptStorage == "s3" && v.GetString("S3_BUCKET") == "" {
		return nil, fmt.Errorf("S3_BUCKET is required when RECEIPT_STORAGE is s3")
	}

	cfg.IsProduction = v.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = v.GetBool("ENABLE_DB_CHECK")
	cfg.LogLevel = v.GetString("LOG_LEVEL")
	cfg.LogFile = v.GetString("LOG_FILE")
	cfg.LogMaxSizeMB = v.GetInt("LOG_MAX_SIZE_MB")
	cfg.LogMaxBackups = v.GetInt("LOG_MAX_BACKUPS")
	cfg.LogMaxAgeDays = v.GetInt("LOG_MAX_AGE_DAYS")
	cfg.RedisURL = v.GetString("REDIS_URL")
	cfg.RateLimit = v.GetString("RATE_LIMIT")
	cfg.AMQPURL = v.GetString("AMQP_URL")
	cfg.AMQPReservationQueue = v.GetString("AMQP_RESERVATION_QUEUE")
	cfg.ReceiptDir = v.GetString("RECEIPT_DIR")
	cfg.ReceiptBaseURL = v.GetString("RECEIPT_BASE_URL")
	cfg.S3Endpoint = v.GetString("S3_ENDPOINT")
	cfg.S3Region = v.GetString("S3_REGION")
	cfg.S3Bucket = v.GetString("S3_BUCKET")
	cfg.S3AccessKeyID = v.GetString("S3_ACCESS_KEY_ID")
	cfg.S3SecretAccessKey = v.GetString("S3_SECRET_ACCESS_KEY")
	cfg.CompletionSweepCron = v.GetString("COMPLETION_SWEEP_CRON")

	return cfg, nil
}

func durationOr(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		}
		return fallback
	}
	return d
}

// parseGrid builds the default slot grid. Open must be before close and the
// step must fit at least once.
func parseGrid(open, closeAt, step string) (domain.DefaultGrid, error) {
	o, err := domain.ParseClock(open)
	if err != nil {
		return domain.DefaultGrid{}, fmt.Errorf("SLOT_DEFAULT_OPEN: %w", err)
	}
	c, err := domain.ParseClock(closeAt)
	if err != nil {
		return domain.DefaultGrid{}, fmt.Errorf("SLOT_DEFAULT_CLOSE: %w", err)
	}
	d, err := time.ParseDuration(step)
	if err != nil {
		return domain.DefaultGrid{}, fmt.Errorf("SLOT_DURATION: %w", err)
	}
	if d < time.Minute || d%time.Minute != 0 {
		return domain.DefaultGrid{}, fmt.Errorf("SLOT_DURATION must be a whole number of minutes, got %s", step)
	}
	if o >= c || o.Add(d) > c {
		return domain.DefaultGrid{}, fmt.Errorf("default grid %s-%s cannot fit a %s slot", o, c, d)
	}
	return domain.DefaultGrid{Open: o, Close: c, Step: d}, nil
}
