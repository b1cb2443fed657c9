package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	NodeEnv   string
	Port      string
	JWTSecret string
	StoreMode string
	DataDir   string
	// DisableRegistration closes self-service signup; new accounts
	// then require an admin token on the register call.
	DisableRegistration bool
	Database            DatabaseConfig
	Company             CompanyConfig
	AI                  AIConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
	Alter    bool
}

// CompanyConfig holds the seller identity printed on invoices
type CompanyConfig struct {
	Name    string
	TRN     string
	Address string
	Phone   string
}

// AIConfig holds the assistant configuration
type AIConfig struct {
	GeminiAPIKey string
	GeminiModel  string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	storeMode := getEnv("POS_STORE", "postgres")
	if storeMode != "postgres" && storeMode != "memory" {
		return nil, fmt.Errorf("unknown POS_STORE %q (want postgres or memory)", storeMode)
	}

	return &Config{
		NodeEnv:   getEnv("NODE_ENV", "development"),
		Port:      getEnv("PORT", "3001"),
		JWTSecret: jwtSecret,
		StoreMode: storeMode,
		DataDir:   getEnv("POS_DATA_DIR", "./data"),

		DisableRegistration: getEnv("DISABLE_REGISTRATION", "false") == "true",
		Database: DatabaseConfig{
			Host:     getEnv("PG_HOST", "localhost"),
			Port:     getEnv("PG_PORT", "5432"),
			Username: getEnv("PG_USERNAME", "postgres"),
			Password: os.Getenv("PG_PASSWORD"),
			Database: getEnv("PG_DATABASE", "gulfpos"),
			Alter:    getEnv("DB_ALTER", "false") == "true",
		},
		Company: CompanyConfig{
			Name:    getEnv("COMPANY_NAME", "Gulf Retail Trading LLC"),
			TRN:     os.Getenv("COMPANY_TRN"),
			Address: os.Getenv("COMPANY_ADDRESS"),
			Phone:   os.Getenv("COMPANY_PHONE"),
		},
		AI: AIConfig{
			GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
			GeminiModel:  getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		},
	}, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
