package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const defaultOpenFDAURL = "https://api.fda.gov/drug/label.json"

// Config holds application configuration values.
type Config struct {
	AppEnv       string
	Secret       string
	DatabaseDSN  string
	HTTPPort     string
	UploadDir    string
	OpenFDAURL   string
	SeedStockCSV string
	OCRLanguage  string
	Mail         MailConfig
}

// MailConfig describes the SMTP relay used by the contact form.
type MailConfig struct {
	Host     string
	Port     int
	UseSSL   bool
	Username string
	Password string
	Operator string
}

// Load reads configuration from an optional .env file and environment
// variables with reasonable defaults.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("unable to read .env file: %v", err)
	}

	port := getEnv("HTTP_PORT", "8080")
	// Validate that port is numeric.
	if _, err := strconv.Atoi(port); err != nil {
		log.Printf("invalid HTTP_PORT value %q, defaulting to 8080", port)
		port = "8080"
	}

	username := getEnv("MAIL_USERNAME", "")
	return Config{
		AppEnv:       getEnv("APP_ENV", "development"),
		Secret:       getEnv("SECRET", "dev_secret"),
		DatabaseDSN:  getEnv("DATABASE_DSN", "pharmacy.db"),
		HTTPPort:     port,
		UploadDir:    getEnv("UPLOAD_DIR", "uploads"),
		OpenFDAURL:   getEnv("OPENFDA_URL", defaultOpenFDAURL),
		SeedStockCSV: getEnv("SEED_STOCK_CSV", ""),
		OCRLanguage:  getEnv("OCR_LANGUAGE", "eng"),
		Mail: MailConfig{
			Host:     getEnv("MAIL_HOST", "smtp.gmail.com"),
			Port:     getEnvInt("MAIL_PORT", 465),
			UseSSL:   getEnvBool("MAIL_USE_SSL", true),
			Username: username,
			Password: getEnv("MAIL_PASSWORD", ""),
			Operator: getEnv("MAIL_OPERATOR", username),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
		log.Printf("invalid %s value %q, defaulting to %d", key, value, fallback)
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
		log.Printf("invalid %s value %q, defaulting to %t", key, value, fallback)
	}
	return fallback
}
