// Package staffdirbun provides the Bun-backed store adapter for the
// staff directory data-access core.
package staffdirbun

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"github.com/staffdir/staffdir"
)

// Provider owns the Bun connection repositories are created from.
type Provider struct {
	db     *bun.DB
	config staffdir.Config
}

// NewProvider opens a connection for the configured driver, wraps it in
// the matching Bun dialect, and applies the pool settings.
func NewProvider(config staffdir.Config) (*Provider, error) {
	var sqlDB *sql.DB
	var err error

	switch strings.ToLower(config.Driver) {
	case "postgres", "postgresql":
		sqlDB = openPostgres(config)
	case "mysql":
		sqlDB, err = openMySQL(config)
	case "sqlite", "sqlite3":
		sqlDB, err = sql.Open("sqlite3", config.Database)
	default:
		return nil, staffdir.NewError(staffdir.ErrorTypeUnsupported,
			fmt.Sprintf("unsupported driver: %s", config.Driver))
	}
	if err != nil {
		return nil, staffdir.NewErrorWithCause(staffdir.ErrorTypeStorage,
			"failed to connect to database", err)
	}

	if config.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	}
	if config.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	}
	if config.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(config.ConnMaxLifetime)
	}
	if config.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(config.ConnMaxIdleTime)
	}

	var bunDB *bun.DB
	switch strings.ToLower(config.Driver) {
	case "postgres", "postgresql":
		bunDB = bun.NewDB(sqlDB, pgdialect.New())
	case "mysql":
		bunDB = bun.NewDB(sqlDB, mysqldialect.New())
	default:
		bunDB = bun.NewDB(sqlDB, sqlitedialect.New())
	}

	switch strings.ToLower(config.LogLevel) {
	case "", "silent":
	case "info":
		bunDB.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	default:
		bunDB.AddQueryHook(bundebug.NewQueryHook())
	}

	return &Provider{db: bunDB, config: config}, nil
}

// DB exposes the underlying connection for migrations and tests.
func (p *Provider) DB() *bun.DB {
	return p.db
}

// Migrate creates the tables for the given entity models when missing.
func (p *Provider) Migrate(ctx context.Context, models ...interface{}) error {
	for _, model := range models {
		if _, err := p.db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return convertBunError(err)
		}
	}
	return nil
}

// Health checks the database connection.
func (p *Provider) Health() error {
	return p.db.DB.Ping()
}

// Close closes the database connection.
func (p *Provider) Close() error {
	return p.db.Close()
}

func openPostgres(config staffdir.Config) *sql.DB {
	dsn := config.ConnectionURL
	if dsn == "" {
		dsn = fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
			config.Username, config.Password, config.Host, config.Port, config.Database)
	}
	connector := pgdriver.NewConnector(pgdriver.WithDSN(dsn))
	return sql.OpenDB(connector)
}

func openMySQL(config staffdir.Config) (*sql.DB, error) {
	if config.ConnectionURL != "" {
		return sql.Open("mysql", config.ConnectionURL)
	}
	mysqlConfig := mysql.Config{
		User:      config.Username,
		Passwd:    config.Password,
		Net:       "tcp",
		Addr:      fmt.Sprintf("%s:%d", config.Host, config.Port),
		DBName:    config.Database,
		ParseTime: true,
	}
	return sql.Open("mysql", mysqlConfig.FormatDSN())
}
