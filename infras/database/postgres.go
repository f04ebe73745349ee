package database

//nolint:revive
import (
	"fmt"
	"net"
	"net/url"
	"vcardops/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// PostgresDSN builds a lib/pq connection URL.
func PostgresDSN(db config.Database, dbName string) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s/%s?sslmode=%s",
		url.QueryEscape(db.Username),
		url.QueryEscape(db.Password),
		net.JoinHostPort(db.Host, db.Port),
		dbName,
		db.SSLMode,
	)
}

// CreatePostgresConnection creates a database connection.
func CreatePostgresConnection(name string, db config.Database, cfg config.Config) *sqlx.DB {
	return connect(name, DriverPostgres, PostgresDSN(db, getDBName(cfg, db.Name)), db, cfg)
}
