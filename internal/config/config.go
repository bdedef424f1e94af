package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds every runtime setting the server needs. Values come from the
// environment, with a .env file loaded first when present.
type Config struct {
	Port        string
	Env         string
	MongoURI    string
	MongoDB     string
	JWTSecret   string
	TokenExpiry time.Duration
	AdminExpiry time.Duration
	AdminEmail  string

	CORSOrigin string

	RedisAddr      string
	RateLimit      int
	RateLimitBurst time.Duration

	SMTPHost     string
	SMTPPort     string
	SMTPSender   string
	SMTPPassword string

	S3Region string
	S3Bucket string
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, relying on environment")
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:     getEnv("MONGO_DB", "campuslink"),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		TokenExpiry: getDuration("TOKEN_EXPIRY", 7*24*time.Hour),
		AdminExpiry: getDuration("ADMIN_TOKEN_EXPIRY", 24*time.Hour),
		AdminEmail:  getEnv("ADMIN_EMAIL", ""),

		CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:3000"),

		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RateLimit:      getInt("RATE_LIMIT", 20),
		RateLimitBurst: getDuration("RATE_LIMIT_WINDOW", time.Minute),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPSender:   getEnv("SMTP_SENDER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		S3Region: getEnv("S3_REGION", "us-east-1"),
		S3Bucket: getEnv("S3_BUCKET", ""),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
