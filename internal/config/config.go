package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Env      string
	LogLevel string

	// Booking client
	BackendBaseURL  string
	HostAppID       string
	AddFriendURL    string
	ContactBasicID  string
	SubmitTimeout   time.Duration
	CloseDelay      time.Duration
	BookingTimezone string

	// Console host identity, used when running outside the host container
	HostIDToken     string
	HostUserID      string
	HostDisplayName string
	HostPictureURL  string

	// Development backend
	Port             string
	StoreBackend     string
	RedisAddr        string
	RedisPassword    string
	RedisTLS         bool
	DatabaseURL      string
	SeedServicesJSON string
	APIRatePerMin    int
	CORSOrigins      []string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		BackendBaseURL:  strings.TrimRight(getEnv("BACKEND_BASE_URL", "http://localhost:8080"), "/"),
		HostAppID:       getEnv("HOST_APP_ID", ""),
		AddFriendURL:    strings.TrimSpace(getEnv("CONTACT_ADD_FRIEND_URL", "")),
		ContactBasicID:  strings.TrimSpace(getEnv("CONTACT_BASIC_ID", "")),
		SubmitTimeout:   getEnvAsDuration("BOOKING_SUBMIT_TIMEOUT", 15*time.Second),
		CloseDelay:      getEnvAsDuration("BOOKING_CLOSE_DELAY", 300*time.Millisecond),
		BookingTimezone: getEnv("BOOKING_TIMEZONE", "Asia/Taipei"),

		HostIDToken:     getEnv("HOST_ID_TOKEN", ""),
		HostUserID:      getEnv("HOST_USER_ID", ""),
		HostDisplayName: getEnv("HOST_DISPLAY_NAME", ""),
		HostPictureURL:  getEnv("HOST_PICTURE_URL", ""),

		Port:             getEnv("PORT", "8080"),
		StoreBackend:     strings.ToLower(strings.TrimSpace(getEnv("STORE_BACKEND", "redis"))),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisTLS:         getEnvAsBool("REDIS_TLS", false),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		SeedServicesJSON: getEnv("SEED_SERVICES_JSON", ""),
		APIRatePerMin:    getEnvAsInt("API_RATE_PER_MIN", 60),
		CORSOrigins:      splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}
}

// Location resolves BookingTimezone, falling back to UTC when the zone is unknown.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.BookingTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// splitList parses a comma-separated list, dropping blank entries.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
