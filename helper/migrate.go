package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"strings"
	"vcardops/config"
	"vcardops/infras/database"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

const (
	ActionUp     = "up"
	ActionDown   = "down"
	ActionDrop   = "drop"
	ActionStepUp = "step-up"

	migrationsDir = "file://migrations/"
)

var ErrUnknownAction = errors.New("unknown migration action")

func dbName(cfg *config.Config, baseName string) string {
	return cfg.DB.Prefix + baseName
}

// SourceURL points at the migration directory of the configured driver.
func SourceURL(cfg *config.Config) string {
	if cfg.DB.Driver == database.DriverMySQL {
		return migrationsDir + database.DriverMySQL
	}

	return migrationsDir + database.DriverPostgres
}

// DatabaseURL builds the golang-migrate URL for the write database.
func DatabaseURL(cfg *config.Config) string {
	var dsn string

	if cfg.DB.Driver == database.DriverMySQL {
		write := cfg.DB.MySQL.Write
		dsn = database.DriverMySQL + "://" + database.MySQLDSN(write, dbName(cfg, write.Name))
	} else {
		write := cfg.DB.Postgres.Write
		dsn = database.PostgresDSN(write, dbName(cfg, write.Name))
	}

	if cfg.DB.MigrationTable == "" {
		return dsn
	}

	separator := "?"
	if strings.Contains(dsn, "?") {
		separator = "&"
	}

	return dsn + separator + "x-migrations-table=" + cfg.DB.MigrationTable
}

func getConnection(cfg *config.Config) (*migrate.Migrate, error) {
	mig, err := migrate.New(SourceURL(cfg), DatabaseURL(cfg))
	if err != nil {
		return nil, fmt.Errorf("error creating migrate instance: %w", err)
	}

	return mig, nil
}

var actions = map[string]func(*migrate.Migrate) error{
	ActionUp:     (*migrate.Migrate).Up,
	ActionDown:   func(mig *migrate.Migrate) error { return mig.Steps(-1) },
	ActionStepUp: func(mig *migrate.Migrate) error { return mig.Steps(1) },
	ActionDrop:   (*migrate.Migrate).Down,
}

func Runner(cfg *config.Config, action string) error {
	run, ok := actions[action]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}

	mig, err := getConnection(cfg)
	if err != nil {
		return err
	}

	defer mig.Close()

	if err := run(mig); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error running %s migrations: %w", action, err)
	}

	log.Info().Str("driver", cfg.DB.Driver).Str("action", action).Msg("Database migrations completed successfully")

	return nil
}

func Up(cfg *config.Config) error {
	return Runner(cfg, ActionUp)
}

func StepUp(cfg *config.Config) error {
	return Runner(cfg, ActionStepUp)
}

func Down(cfg *config.Config) error {
	return Runner(cfg, ActionDown)
}

func Drop(cfg *config.Config) error {
	return Runner(cfg, ActionDrop)
}
