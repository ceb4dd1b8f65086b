package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/grahmind/careers-waitlist/internal/log"
	"github.com/joho/godotenv"
)

const AppEnvKey = "APP_ENV"

// devEnvs are the APP_ENV values that may run --auto-migrate.
var devEnvs = []string{"", "dev", "development", "local", "test", "testing"}

// InitializeEnvFile loads .env when present; SKIP_DOTENV=true disables it for
// deployments that inject the environment directly.
func InitializeEnvFile(logger *log.Logger) {
	if os.Getenv("SKIP_DOTENV") == "true" {
		logger.Info("Skipping .env file load (SKIP_DOTENV=true)")
		return
	}

	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file loaded", "error", err.Error())
		return
	}

	logger.Info("Environment variables loaded from .env")
}

func GetValueFromEnvironmentVariable(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultValue
}

func GetAppEnv() string {
	return normalizeEnv(os.Getenv(AppEnvKey))
}

func normalizeEnv(env string) string {
	return strings.ToLower(strings.TrimSpace(env))
}

// IsProductionEnv decides defaults that must be strict in production, such as
// Secure admin cookies.
func IsProductionEnv(env string) bool {
	switch normalizeEnv(env) {
	case "prod", "production":
		return true
	default:
		return false
	}
}

func ValidateAutoMigrateAllowed(appEnv string) error {
	env := normalizeEnv(appEnv)

	for _, allowed := range devEnvs {
		if env == allowed {
			return nil
		}
	}

	return fmt.Errorf("--auto-migrate is not allowed when %s=%q (allowed: %q)", AppEnvKey, env, devEnvs)
}
