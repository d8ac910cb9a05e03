// Package staffdirgorm provides the GORM-backed store adapter for the
// staff directory data-access core.
package staffdirgorm

import (
	"fmt"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"github.com/staffdir/staffdir"
)

// Provider owns the GORM connection repositories are created from.
type Provider struct {
	db     *gorm.DB
	config staffdir.Config
}

// NewProvider opens a connection for the configured driver and applies
// the pool settings.
func NewProvider(config staffdir.Config) (*Provider, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logLevel(config.LogLevel)),
		NamingStrategy: schema.NamingStrategy{
			SingularTable: false,
		},
	}

	var dialector gorm.Dialector
	switch strings.ToLower(config.Driver) {
	case "postgres", "postgresql":
		dialector = postgres.Open(buildPostgresDSN(config))
	case "mysql":
		dialector = mysql.Open(buildMySQLDSN(config))
	case "sqlite", "sqlite3":
		dialector = sqlite.Open(config.Database)
	case "sqlserver", "mssql":
		dialector = sqlserver.Open(buildSQLServerDSN(config))
	default:
		return nil, staffdir.NewError(staffdir.ErrorTypeUnsupported,
			fmt.Sprintf("unsupported driver: %s", config.Driver))
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, staffdir.NewErrorWithCause(staffdir.ErrorTypeStorage,
			"failed to connect to database", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, staffdir.NewErrorWithCause(staffdir.ErrorTypeStorage,
			"failed to get underlying sql.DB", err)
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

	return &Provider{db: db, config: config}, nil
}

// DB exposes the underlying connection for migrations and tests.
func (p *Provider) DB() *gorm.DB {
	return p.db
}

// Migrate creates or updates the tables for the given entity models.
func (p *Provider) Migrate(models ...interface{}) error {
	if err := p.db.AutoMigrate(models...); err != nil {
		return convertGormError(err)
	}
	return nil
}

// Health checks the database connection.
func (p *Provider) Health() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return staffdir.NewErrorWithCause(staffdir.ErrorTypeStorage,
			"failed to get underlying sql.DB", err)
	}
	return sqlDB.Ping()
}

// Close closes the database connection.
func (p *Provider) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func logLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// =====================================
// DSN Builders
// =====================================

func buildPostgresDSN(config staffdir.Config) string {
	if config.ConnectionURL != "" {
		return config.ConnectionURL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		config.Host, config.Port, config.Username, config.Password, config.Database)
}

func buildMySQLDSN(config staffdir.Config) string {
	if config.ConnectionURL != "" {
		return config.ConnectionURL
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		config.Username, config.Password, config.Host, config.Port, config.Database)
}

func buildSQLServerDSN(config staffdir.Config) string {
	if config.ConnectionURL != "" {
		return config.ConnectionURL
	}
	return fmt.Sprintf("sqlserver://%s:%s@%s:%d?database=%s",
		config.Username, config.Password, config.Host, config.Port, config.Database)
}
