package config

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/grahmind/careers-waitlist/internal/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DBConfig tunes the session database pool. Zero fields take the defaults
// of DefaultDBConfig.
type DBConfig struct {
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	SSLMode         string
}

func DefaultDBConfig() DBConfig {
	return DBConfig{
		MaxIdleConns:    2,
		MaxOpenConns:    10,
		ConnMaxLifetime: 5 * time.Minute,
		SSLMode:         "require",
	}
}

func (c DBConfig) withDefaults() DBConfig {
	d := DefaultDBConfig()
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = d.MaxIdleConns
	}
	if c.MaxOpenConns <= 0 {
		c.MaxOpenConns = d.MaxOpenConns
	}
	if c.ConnMaxLifetime <= 0 {
		c.ConnMaxLifetime = d.ConnMaxLifetime
	}
	if c.SSLMode == "" {
		c.SSLMode = d.SSLMode
	}
	return c
}

// postgresEnv is the discrete POSTGRES_* form of the connection settings.
type postgresEnv struct {
	Host, Port, User, Password, Name, SSLMode string
}

func readPostgresEnv() postgresEnv {
	return postgresEnv{
		Host:     dbEnv("POSTGRES_HOST", ""),
		Port:     dbEnv("POSTGRES_PORT", "5432"),
		User:     dbEnv("POSTGRES_USER", ""),
		Password: dbEnv("POSTGRES_PASSWORD", ""),
		Name:     dbEnv("POSTGRES_DB_NAME", ""),
		SSLMode:  dbEnv("POSTGRES_SSLMODE", ""),
	}
}

// dsn validates the settings and renders a key/value connection string.
func (p postgresEnv) dsn(defaultSSLMode string) (string, error) {
	var missing []string
	for name, value := range map[string]string{
		"POSTGRES_HOST":    p.Host,
		"POSTGRES_USER":    p.User,
		"POSTGRES_DB_NAME": p.Name,
	} {
		if value == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return "", fmt.Errorf("missing database settings: %s", strings.Join(missing, ", "))
	}

	port, err := strconv.Atoi(p.Port)
	if err != nil || port <= 0 {
		return "", fmt.Errorf("invalid POSTGRES_PORT %q", p.Port)
	}

	ssl := p.SSLMode
	if ssl == "" {
		ssl = defaultSSLMode
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, port, p.User, p.Password, p.Name, ssl), nil
}

// DatabaseDSN prefers APP_DATABASE_URL and falls back to the POSTGRES_* variables.
func DatabaseDSN(cfg DBConfig) (string, error) {
	if url := dbEnv("APP_DATABASE_URL", ""); url != "" {
		return url, nil
	}
	return readPostgresEnv().dsn(cfg.withDefaults().SSLMode)
}

// IsDatabaseConfigured reports whether a connection string or host was provided.
func IsDatabaseConfigured() bool {
	return dbEnv("APP_DATABASE_URL", "") != "" || dbEnv("POSTGRES_HOST", "") != ""
}

var errNoDatabase = errors.New("database handle is nil")

// NewDatabase opens and pings the session database.
func NewDatabase(logger *log.Logger, cfg DBConfig) (*gorm.DB, error) {
	cfg = cfg.withDefaults()

	dsn, err := DatabaseDSN(cfg)
	if err != nil {
		logger.Error("Database settings are incomplete", "error", err)
		return nil, err
	}

	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("Database connected", "max_open_conns", cfg.MaxOpenConns)
	return gdb, nil
}

func AutoMigrate(logger *log.Logger, db *gorm.DB, models ...any) error {
	if db == nil {
		return errNoDatabase
	}
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	logger.Info("Database auto-migration completed", "models", len(models))
	return nil
}

func CloseDatabase(db *gorm.DB, logger *log.Logger) {
	if db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err == nil {
		err = sqlDB.Close()
	}
	if err != nil {
		logger.Error("Failed to close database", "error", err)
	}
}

// dbEnv reads key, trimming whitespace and one pair of surrounding quotes.
// Blank values yield defaultValue.
func dbEnv(key, defaultValue string) string {
	s := strings.TrimSpace(GetValueFromEnvironmentVariable(key, ""))
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		s = s[1 : len(s)-1]
	}
	if s == "" {
		return defaultValue
	}
	return s
}
