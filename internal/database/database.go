package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"quantia/internal/logger"
	"quantia/internal/models"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Manager handles database operations
type Manager struct {
	db     *gorm.DB
	config *Config
}

// NewManager creates a new database manager
func NewManager(config *Config) (*Manager, error) {
	var dialector gorm.Dialector
	switch config.Driver {
	case DriverSQLite:
		dialector = sqlite.Open(config.SQLitePath)
	default:
		dialector = mysql.Open(config.DSN())
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &Manager{db: db, config: config}, nil
}

// Migrate brings the schema up to date. MySQL uses versioned SQL migrations
// (including the ledger stored procedures); SQLite auto-migrates the models.
func (m *Manager) Migrate() error {
	if m.config.Driver == DriverSQLite {
		return m.db.AutoMigrate(
			&models.User{},
			&models.Portfolio{},
			&models.PortfolioAsset{},
			&models.Transaction{},
		)
	}

	logger.Get().Info("Running database migrations...")

	mig, err := migrate.New("file://migrations", m.config.MigrateURL())
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() {
		srcErr, dbErr := mig.Close()
		if srcErr != nil {
			logger.Get().Warnf("migrate source close error: %v", srcErr)
		}
		if dbErr != nil {
			logger.Get().Warnf("migrate database close error: %v", dbErr)
		}
	}()

	if err := mig.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Get().Info("Database migrations completed successfully")
	return nil
}

// CheckConnection acquires a pooled connection and runs a trivial query,
// proving the round trip to the database works.
func (m *Manager) CheckConnection(ctx context.Context) error {
	sqlDB, err := m.SQLDB()
	if err != nil {
		return err
	}

	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer func() { _ = conn.Close() }()

	var solution int
	if err := conn.QueryRowContext(ctx, "SELECT 1 + 1").Scan(&solution); err != nil {
		return fmt.Errorf("connection check query failed: %w", err)
	}
	if solution != 2 {
		return fmt.Errorf("connection check returned unexpected result %d", solution)
	}
	return nil
}

// DB returns the underlying GORM database instance
func (m *Manager) DB() *gorm.DB {
	return m.db
}

// SQLDB returns the underlying database/sql pool.
func (m *Manager) SQLDB() (*sql.DB, error) {
	return m.db.DB()
}

// Driver returns the configured driver name.
func (m *Manager) Driver() string {
	return m.config.Driver
}
