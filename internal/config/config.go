package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	Port        string
	Env         string
	APIUrl      string
	FrontendURL string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// JWT
	JWTSecret               string
	JWTAccessTokenDuration  time.Duration
	JWTRefreshTokenDuration time.Duration

	// Admin
	AdminUsername string
	AdminPassword string

	// Execution engine (external collaborator)
	EngineURL           string
	EngineTimeout       time.Duration
	EngineCallbackToken string

	// Plugin registry (external collaborator)
	PluginRegistryURL     string
	PluginRegistryTimeout time.Duration

	// Artifact S3 - mirror of run artifacts for restore downloads
	ArtifactS3Endpoint        string
	ArtifactS3Region          string
	ArtifactS3AccessKeyID     string
	ArtifactS3SecretAccessKey string
	ArtifactS3UsePathStyle    bool
	ArtifactBucket            string

	// Local import of backup archives found on disk
	ImportPath string

	// Security
	BcryptCost        int
	RateLimitRequests int
	RateLimitDuration time.Duration

	// CORS
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

func New() *Config {
	return &Config{
		// Server
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		APIUrl:      getEnv("API_URL", "http://localhost:8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "packrat"),
		DBPassword: getEnv("DB_PASSWORD", "password"),
		DBName:     getEnv("DB_NAME", "packrat_db"),
		DBSSLMode:  getEnv("DB_SSL_MODE", "disable"),

		// Redis
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		// JWT
		JWTSecret:               getEnv("JWT_SECRET", "your-secret-key"),
		JWTAccessTokenDuration:  getEnvAsDuration("JWT_ACCESS_TOKEN_DURATION", "1h"),
		JWTRefreshTokenDuration: getEnvAsDuration("JWT_REFRESH_TOKEN_DURATION", "168h"),

		// Admin
		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),

		// Execution engine
		EngineURL:           getEnv("ENGINE_URL", "http://localhost:9090"),
		EngineTimeout:       getEnvAsDuration("ENGINE_TIMEOUT", "30s"),
		EngineCallbackToken: getEnv("ENGINE_CALLBACK_TOKEN", ""),

		// Plugin registry
		PluginRegistryURL:     getEnv("PLUGIN_REGISTRY_URL", "http://localhost:9090"),
		PluginRegistryTimeout: getEnvAsDuration("PLUGIN_REGISTRY_TIMEOUT", "15s"),

		// Artifact S3
		ArtifactS3Endpoint:        getEnv("ARTIFACT_S3_ENDPOINT", ""),
		ArtifactS3Region:          getEnv("ARTIFACT_S3_REGION", "us-east-1"),
		ArtifactS3AccessKeyID:     getEnv("ARTIFACT_S3_ACCESS_KEY_ID", ""),
		ArtifactS3SecretAccessKey: getEnv("ARTIFACT_S3_SECRET_ACCESS_KEY", ""),
		ArtifactS3UsePathStyle:    getEnv("ARTIFACT_S3_USE_PATH_STYLE", "true") == "true",
		ArtifactBucket:            getEnv("ARTIFACT_BUCKET", "packrat-artifacts"),

		// Local import
		ImportPath: getEnv("IMPORT_PATH", "/data/import"),

		// Security
		BcryptCost:        getEnvAsInt("BCRYPT_COST", 12),
		RateLimitRequests: getEnvAsInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitDuration: getEnvAsDuration("RATE_LIMIT_DURATION", "1m"),

		// CORS
		AllowedOrigins: getEnvAsSlice("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		AllowedMethods: getEnvAsSlice("ALLOWED_METHODS", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		AllowedHeaders: getEnvAsSlice("ALLOWED_HEADERS", []string{"Content-Type", "Authorization"}),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	if duration, err := time.ParseDuration(defaultValue); err == nil {
		return duration
	}
	return time.Hour
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
