// internal/infrastructure/config/config.go
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string

	// Server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// MongoDB
	MongoURI      string
	MongoDB       string
	MongoUser     string
	MongoPassword string

	// Search pipeline
	Currency        string
	ProviderTimeout time.Duration
	DedupTTL        time.Duration
	RouteTTL        time.Duration
	SearchTTL       time.Duration

	// Providers
	FlixBusSearchURL  string
	BlaBlaCarBaseURL  string
	BlaBlaCarLogin    string
	BlaBlaCarPassword string
	EnableMockCarrier bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	// Set defaults and override with env vars
	config := &Config{
		AppVersion:   getEnv("APP_VERSION", "1.0.0"),
		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,

		MongoURI:      getEnv("MONGODB_DSN", "mongodb://localhost:27017"),
		MongoDB:       getEnv("MONGO_DB", "eurotours"),
		MongoUser:     getEnv("MONGO_USER", ""),
		MongoPassword: getEnv("MONGO_PASSWORD", ""),

		Currency:        getEnv("CURRENCY", "EUR"),
		ProviderTimeout: time.Duration(getEnvAsInt("PROVIDER_TIMEOUT", 15)) * time.Second,
		DedupTTL:        time.Duration(getEnvAsInt("DEDUP_TTL", 10)) * time.Second,
		RouteTTL:        time.Duration(getEnvAsInt("ROUTE_TTL", 3600)) * time.Second,
		SearchTTL:       time.Duration(getEnvAsInt("SEARCH_TTL", 86400)) * time.Second,

		FlixBusSearchURL:  getEnv("FLIXBUS_SEARCH_URL", "https://global.api.flixbus.com/search/service/v4/search"),
		BlaBlaCarBaseURL:  getEnv("BLABLACAR_BASE_URL", "https://bus-api.blablacar.com/v3/"),
		BlaBlaCarLogin:    getEnv("BLABLACAR_LOGIN", ""),
		BlaBlaCarPassword: getEnv("BLABLACAR_PASSWORD", ""),
		EnableMockCarrier: getEnvAsBool("ENABLE_MOCK_CARRIER", false),
	}

	return config, nil
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
