package postgres

import (
	"embed"
	stderrors "errors"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5" // pgx5:// driver
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/turtacn/hydromoment/internal/config"
	"github.com/turtacn/hydromoment/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/hydromoment/pkg/errors"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// migrateURL is the connection URL understood by the pgx/v5 migrate driver.
func migrateURL(cfg config.PostgresConfig) string {
	return connURL("pgx5", cfg)
}

func newMigrate(cfg config.PostgresConfig) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to open embedded migrations")
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, migrateURL(cfg))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeServiceUnavailable, "failed to create migrate instance")
	}
	return m, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Up
// ─────────────────────────────────────────────────────────────────────────────

// RunMigrations applies every pending migration. An up-to-date schema is not
// an error.
func RunMigrations(cfg config.PostgresConfig, logger logging.Logger) error {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	m, err := newMigrate(cfg)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !stderrors.Is(err, migrate.ErrNoChange) {
		version, dirty, _ := m.Version()
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to run migrations").
			WithDetail(versionDetail(version, dirty))
	}

	version, dirty, err := m.Version()
	if err != nil && !stderrors.Is(err, migrate.ErrNilVersion) {
		logger.Warn("Failed to read migration version", logging.Err(err))
	}
	logger.Info("Database migrations completed",
		logging.Int64("version", int64(version)),
		logging.Bool("dirty", dirty),
	)
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Down
// ─────────────────────────────────────────────────────────────────────────────

// RollbackMigration reverts steps migrations.
func RollbackMigration(cfg config.PostgresConfig, steps int) error {
	if steps <= 0 {
		return errors.InvalidParam("steps must be greater than 0")
	}
	m, err := newMigrate(cfg)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Steps(-steps); err != nil {
		if stderrors.Is(err, migrate.ErrNoChange) {
			return errors.New(errors.ErrCodeConflict, "no migrations to roll back")
		}
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to roll back migrations")
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Status
// ─────────────────────────────────────────────────────────────────────────────

// MigrationStatus returns the applied version and whether a previous
// migration left the schema dirty. A fresh database reports version 0.
func MigrationStatus(cfg config.PostgresConfig) (version uint, dirty bool, err error) {
	m, err := newMigrate(cfg)
	if err != nil {
		return 0, false, err
	}
	defer m.Close()

	version, dirty, err = m.Version()
	if err != nil {
		if stderrors.Is(err, migrate.ErrNilVersion) {
			return 0, false, nil
		}
		return 0, false, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to read migration version")
	}
	return version, dirty, nil
}

func versionDetail(version uint, dirty bool) string {
	d := "version=" + strconv.FormatUint(uint64(version), 10)
	if dirty {
		d += " dirty"
	}
	return d
}

//Personal.AI order the ending
