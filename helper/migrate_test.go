package helper_test

import (
	"strings"
	"testing"
	"vcardops/config"
	"vcardops/helper"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceURL(t *testing.T) {
	cfg := &config.Config{}

	cfg.DB.Driver = "postgres"
	assert.Equal(t, "file://migrations/postgres", helper.SourceURL(cfg))

	cfg.DB.Driver = "mysql"
	assert.Equal(t, "file://migrations/mysql", helper.SourceURL(cfg))
}

func TestDatabaseURL(t *testing.T) {
	tests := []struct {
		name       string
		driver     string
		wantPrefix string
	}{
		{
			name:       "postgres",
			driver:     "postgres",
			wantPrefix: "postgres://ops:s%40cret@db:5432/ops_vcard?sslmode=disable",
		},
		{
			name:       "mysql",
			driver:     "mysql",
			wantPrefix: "mysql://ops:s@cret@tcp(db:3306)/ops_vcard?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{}
			cfg.DB.Driver = tt.driver
			cfg.DB.Prefix = "ops_"
			cfg.DB.MigrationTable = "schema_migrations"

			cfg.DB.Postgres.Write = config.Database{Host: "db", Port: "5432", Username: "ops", Password: "s@cret", Name: "vcard", SSLMode: "disable"}
			cfg.DB.MySQL.Write = config.Database{Host: "db", Port: "3306", Username: "ops", Password: "s@cret", Name: "vcard"}

			url := helper.DatabaseURL(cfg)

			assert.True(t, strings.HasPrefix(url, tt.wantPrefix), url)
			assert.True(t, strings.HasSuffix(url, "&x-migrations-table=schema_migrations"), url)
		})
	}
}

func TestRunner_UnknownAction(t *testing.T) {
	err := helper.Runner(&config.Config{}, "sideways")

	require.ErrorIs(t, err, helper.ErrUnknownAction)
}
