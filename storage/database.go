package storage

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DatabaseConfig holds the PostgreSQL connection settings. The connection
// string is carried whole; pool sizing and SQL logging are decided here, at
// construction, not read back from the environment by the connector.
type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	LogSQL          bool
}

// DatabaseConfigFromEnv builds a configuration from PDP_DB_* environment
// variables. PDP_DB_DSN wins when set; otherwise the DSN is assembled from
// the individual PDP_DB_HOST/PORT/USER/PASSWORD/NAME/SSLMODE variables.
func DatabaseConfigFromEnv() *DatabaseConfig {
	dsn := os.Getenv("PDP_DB_DSN")
	if dsn == "" {
		dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			envOr("PDP_DB_HOST", "localhost"),
			envOr("PDP_DB_USER", "postgres"),
			envOr("PDP_DB_PASSWORD", "postgres"),
			envOr("PDP_DB_NAME", "pdp"),
			envOr("PDP_DB_PORT", "5432"),
			envOr("PDP_DB_SSLMODE", "disable"))
	}
	return &DatabaseConfig{
		DSN:             dsn,
		MaxIdleConns:    envOrInt("PDP_DB_MAX_IDLE_CONNS", 10),
		MaxOpenConns:    envOrInt("PDP_DB_MAX_OPEN_CONNS", 100),
		ConnMaxLifetime: time.Duration(envOrInt("PDP_DB_CONN_MAX_LIFETIME_SECONDS", 3600)) * time.Second,
		LogSQL:          os.Getenv("PDP_DB_LOG_SQL") == "true",
	}
}

// NewDatabaseConnection opens a gorm connection with the configured pool.
func NewDatabaseConnection(config *DatabaseConfig) (*gorm.DB, error) {
	if config == nil {
		config = DatabaseConfigFromEnv()
	}

	gormLogger := logger.Default.LogMode(logger.Silent)
	if config.LogSQL {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(postgres.Open(config.DSN), &gorm.Config{
		Logger: gormLogger,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(config.ConnMaxLifetime)

	return db, nil
}

func envOr(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func envOrInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
