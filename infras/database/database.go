package database

import (
	"time"
	"vcardops/config"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Connection holds the read and write pools for the configured driver.
type Connection struct {
	Read   *sqlx.DB
	Write  *sqlx.DB
	Driver string
}

func New(cfg *config.Config) *Connection {
	switch cfg.DB.Driver {
	case DriverMySQL:
		return &Connection{
			Read:   CreateMySQLConnection("read", cfg.DB.MySQL.Read, *cfg),
			Write:  CreateMySQLConnection("write", cfg.DB.MySQL.Write, *cfg),
			Driver: DriverMySQL,
		}
	default:
		return &Connection{
			Read:   CreatePostgresConnection("read", cfg.DB.Postgres.Read, *cfg),
			Write:  CreatePostgresConnection("write", cfg.DB.Postgres.Write, *cfg),
			Driver: DriverPostgres,
		}
	}
}

// getDBName returns the database name with prefix if configured
func getDBName(cfg config.Config, baseName string) string {
	if cfg.DB.Prefix != "" {
		return cfg.DB.Prefix + baseName
	}

	return baseName
}

func connect(name, driver, descriptor string, db config.Database, cfg config.Config) *sqlx.DB {
	maxRetry := max(cfg.DB.MaxRetry, 1)

	for retry := range maxRetry {
		sqlDB, err := sqlx.Connect(driver, descriptor)
		if err == nil {
			log.
				Info().
				Str("name", name).
				Str("driver", driver).
				Str("host", db.Host).
				Str("port", db.Port).
				Str("dbName", db.Name).
				Msg("Connected to database")

			// a full pool queues callers instead of rejecting them
			sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
			sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)

			return sqlDB
		}

		log.
			Error().
			Err(err).
			Str("name", name).
			Str("driver", driver).
			Str("host", db.Host).
			Str("port", db.Port).
			Str("dbName", db.Name).
			Int("attempt", retry+1).
			Msg("Failed connecting to database, retrying")

		time.Sleep(time.Duration(cfg.DB.RetryWaitTime) * time.Second)
	}

	return nil
}
