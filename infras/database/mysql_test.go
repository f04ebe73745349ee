package database_test

import (
	"testing"
	"vcardops/config"
	"vcardops/infras/database"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMySQLDSN(t *testing.T) {
	tests := []struct {
		name    string
		db      config.Database
		wantLoc string
	}{
		{
			name:    "defaults to utc",
			db:      config.Database{Host: "db.internal", Port: "3306", Username: "ops", Password: "s@cret:/"},
			wantLoc: "UTC",
		},
		{
			name:    "honours the configured zone",
			db:      config.Database{Host: "db.internal", Port: "3306", Username: "ops", Timezone: "Asia/Jakarta"},
			wantLoc: "Asia/Jakarta",
		},
		{
			name:    "unknown zone keeps utc",
			db:      config.Database{Host: "db.internal", Port: "3306", Username: "ops", Timezone: "Mars/Olympus"},
			wantLoc: "UTC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := mysql.ParseDSN(database.MySQLDSN(tt.db, "vcard"))
			require.NoError(t, err)

			assert.True(t, parsed.ClientFoundRows, "unchanged updates must still count as affected")
			assert.True(t, parsed.ParseTime)
			assert.Equal(t, "tcp", parsed.Net)
			assert.Equal(t, "db.internal:3306", parsed.Addr)
			assert.Equal(t, tt.db.Username, parsed.User)
			assert.Equal(t, tt.db.Password, parsed.Passwd)
			assert.Equal(t, "vcard", parsed.DBName)
			assert.Equal(t, tt.wantLoc, parsed.Loc.String())
		})
	}
}
