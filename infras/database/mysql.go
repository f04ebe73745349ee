package database

//nolint:revive
import (
	"net"
	"time"
	"vcardops/config"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

// MySQLDSN builds a go-sql-driver DSN. parseTime is required so DATE columns
// scan into time.Time. clientFoundRows makes RowsAffected count matched rows,
// as Postgres does, so rewriting a value with itself still reports the row.
func MySQLDSN(db config.Database, dbName string) string {
	mysqlCfg := mysql.NewConfig()
	mysqlCfg.User = db.Username
	mysqlCfg.Passwd = db.Password
	mysqlCfg.Net = "tcp"
	mysqlCfg.Addr = net.JoinHostPort(db.Host, db.Port)
	mysqlCfg.DBName = dbName
	mysqlCfg.ParseTime = true
	mysqlCfg.ClientFoundRows = true
	mysqlCfg.Loc = time.UTC

	if db.Timezone != "" {
		if loc, err := time.LoadLocation(db.Timezone); err == nil {
			mysqlCfg.Loc = loc
		}
	}

	return mysqlCfg.FormatDSN()
}

// CreateMySQLConnection creates a database connection.
func CreateMySQLConnection(name string, db config.Database, cfg config.Config) *sqlx.DB {
	return connect(name, DriverMySQL, MySQLDSN(db, getDBName(cfg, db.Name)), db, cfg)
}
