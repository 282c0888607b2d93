package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string
	ClientURL     string

	// Redis configuration (cache store + queue backing store)
	RedisURL string

	// MongoDB configuration (durable store)
	MongoURI      string
	MongoDatabase string

	// Job queue policy. These are the explicit knobs behind every queue:
	// total attempts per job, fixed delay between attempts, and the number
	// of jobs a worker processes concurrently.
	JobAttempts       int
	JobRetryDelay     time.Duration
	WorkerConcurrency int

	// SMTP configuration
	SMTPHost   string
	SMTPPort   int
	SMTPUser   string
	SMTPPass   string
	SenderMail string

	// Authentication
	JWTSecret string
	JWTIssuer string

	// Logging and features
	LogLevel      string
	EnableMetrics bool
	EnableCORS    bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":5000"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		ClientURL:     getEnv("CLIENT_URL", "http://localhost:3000"),

		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),

		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "wechat"),

		JobAttempts:       getEnvInt("JOB_ATTEMPTS", 3),
		JobRetryDelay:     time.Duration(getEnvInt("JOB_RETRY_DELAY_MS", 5000)) * time.Millisecond,
		WorkerConcurrency: getEnvInt("WORKER_CONCURRENCY", 5),

		SMTPHost:   getEnv("SMTP_HOST", "localhost"),
		SMTPPort:   getEnvInt("SMTP_PORT", 587),
		SMTPUser:   getEnv("SMTP_USER", ""),
		SMTPPass:   getEnv("SMTP_PASS", ""),
		SenderMail: getEnv("SENDER_MAIL", "no-reply@wechat.local"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTIssuer: getEnv("JWT_ISSUER", "wechat-backend"),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		EnableMetrics: getEnvBool("ENABLE_METRICS", false),
		EnableCORS:    getEnvBool("ENABLE_CORS", true),
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.JobAttempts < 1 {
		return fmt.Errorf("JOB_ATTEMPTS must be at least 1")
	}
	if c.WorkerConcurrency < 1 {
		return fmt.Errorf("WORKER_CONCURRENCY must be at least 1")
	}
	if c.Environment == "production" {
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required")
		}
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required")
		}
	}

	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
