package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"

	"github.com/celsoprodesp/Antigravity/internal/infrastructure/config"
)

// MigrationsTable is the bookkeeping table of golang-migrate
const MigrationsTable = "erpr_schema_migrations"

// Postgres represents PostgreSQL connection
type Postgres struct {
	DB *sql.DB
}

// NewPostgres opens a connection pool and verifies it with a ping
func NewPostgres(ctx context.Context, cfg *config.DatabaseConfig) (*Postgres, error) {
	db, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Postgres{DB: db}, nil
}

// NewMigrateDriver wraps an open connection for golang-migrate
func NewMigrateDriver(db *sql.DB) (migratedb.Driver, error) {
	if db == nil {
		return nil, errors.New("database connection is nil")
	}
	return postgres.WithInstance(db, &postgres.Config{MigrationsTable: MigrationsTable})
}

// NewMigrate creates a migrator reading the SQL files under migrationsPath
func (p *Postgres) NewMigrate(migrationsPath string) (*migrate.Migrate, error) {
	driver, err := NewMigrateDriver(p.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		"postgres",
		driver,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration instance: %w", err)
	}
	return m, nil
}

// RunMigrations applies every pending migration
func (p *Postgres) RunMigrations(migrationsPath string) error {
	m, err := p.NewMigrate(migrationsPath)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// HealthCheck checks if the database connection is healthy
func (p *Postgres) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := p.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}

// Close closes the database connection
func (p *Postgres) Close() error {
	if p.DB != nil {
		return p.DB.Close()
	}
	return nil
}
