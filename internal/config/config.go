package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server settings
	Port string
	Host string
	Env  string

	// MongoDB settings
	MongoURI     string
	DatabaseName string
	MongoTimeout int

	// JWT settings
	JWTSecret     string
	JWTExpiration int

	// Matching engine settings
	MatchThreshold       int
	NotificationDailyCap int

	// Push webhook, empty disables push delivery
	PushWebhookURL string

	// Rate limiting
	RateLimitRequests int
	RateLimitWindow   int

	// CORS
	AllowedOrigins string
}

func Load() *Config {
	// Load variables from .env when present
	if err := godotenv.Load(); err != nil {
		log.Printf("Could not load .env file: %v", err)
	}

	config := &Config{
		Port:                 getEnv("PORT", "8080"),
		Host:                 getEnv("HOST", "0.0.0.0"),
		Env:                  getEnv("ENV", "development"),
		MongoURI:             getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DatabaseName:         getEnv("DATABASE_NAME", "lostfound"),
		MongoTimeout:         getEnvAsInt("MONGO_TIMEOUT", 10),
		JWTSecret:            getEnv("JWT_SECRET", "your-secret-key"),
		JWTExpiration:        getEnvAsInt("JWT_EXPIRATION", 24), // hours
		MatchThreshold:       getEnvAsInt("MATCH_THRESHOLD", 60),
		NotificationDailyCap: getEnvAsInt("NOTIFICATION_DAILY_CAP", 10),
		PushWebhookURL:       getEnv("PUSH_WEBHOOK_URL", ""),
		RateLimitRequests:    getEnvAsInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:      getEnvAsInt("RATE_LIMIT_WINDOW", 60), // seconds
		AllowedOrigins:       getEnv("ALLOWED_ORIGINS", "*"),
	}

	return config
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
