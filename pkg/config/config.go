package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	Port                    string
	Env                     string
	DatabaseURL             string // Postgres DSN; empty selects SQLite
	SQLitePath              string
	MongoURI                string
	MongoDatabase           string
	FirebaseCredentialsPath string
	SessionSecret           string
	JWTSecret               string
	LogLevel                string
	LogFormat               string
	BcryptCost              int
}

// Load reads .env (when present) and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, assuming environment variables are set.")
	}

	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		DatabaseURL:             getEnv("DATABASE_URL", ""),
		SQLitePath:              getEnv("SQLITE_PATH", "warbler.db"),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "warbler"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		SessionSecret:           getEnv("SESSION_SECRET", "warbler-dev-session-secret"),
		JWTSecret:               getEnv("JWT_SECRET", "supersecretjwtkey"),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		LogFormat:               getEnv("LOG_FORMAT", "json"),
		BcryptCost:              getEnvInt("BCRYPT_COST", bcrypt.DefaultCost),
	}
}

// IsProduction reports whether cookies should be marked Secure.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		logrus.WithFields(logrus.Fields{"key": key, "value": value}).Warn("Invalid integer in environment, using default")
		return defaultValue
	}
	return n
}
