package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5/stdlib"
	sqlite3 "github.com/mattn/go-sqlite3"

	"climate-server/internal/config"
)

// Open returns a pooled handle for the configured driver and verifies
// connectivity before returning.
func Open(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	dsn, err := buildDSN(cfg)
	if err != nil {
		return nil, err
	}

	drv, err := driverFor(cfg.Driver)
	if err != nil {
		return nil, err
	}

	var db *sql.DB
	if cfg.LogSQL {
		db = sql.OpenDB(NewLoggingConnector(drv, dsn, slog.Default()))
	} else {
		db = sql.OpenDB(dsnConnector{dsn: dsn, driver: drv})
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns >= 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	return db, nil
}

func Close(db *sql.DB) error {
	if db == nil {
		return nil
	}
	return db.Close()
}

// DialectFor maps a configured driver name to its placeholder dialect.
func DialectFor(driverName string) Dialect {
	if driverName == config.DriverPostgres {
		return DialectPostgres
	}
	return DialectSQLite
}

func driverFor(name string) (driver.Driver, error) {
	switch name {
	case config.DriverSQLite:
		return &sqlite3.SQLiteDriver{}, nil
	case config.DriverPostgres:
		return stdlib.GetDefaultDriver(), nil
	default:
		return nil, fmt.Errorf("unsupported db driver %q", name)
	}
}

// dsnConnector adapts a driver.Driver and DSN to driver.Connector so both
// the plain and logging paths go through sql.OpenDB.
type dsnConnector struct {
	dsn    string
	driver driver.Driver
}

func (c dsnConnector) Connect(_ context.Context) (driver.Conn, error) {
	return c.driver.Open(c.dsn)
}

func (c dsnConnector) Driver() driver.Driver {
	return c.driver
}

func buildDSN(cfg config.Config) (string, error) {
	if cfg.Driver == config.DriverPostgres {
		if cfg.DSN == "" {
			return "", fmt.Errorf("db dsn required for driver %q", cfg.Driver)
		}
		return cfg.DSN, nil
	}
	if cfg.DSN != "" {
		return cfg.DSN, nil
	}

	path := cfg.Path
	if !cfg.ReadOnly {
		// A writable database may be created on first open.
		dir := filepath.Dir(strings.TrimPrefix(path, "file:"))
		if dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return "", fmt.Errorf("mkdir %s: %w", dir, err)
			}
		}
	}

	params := []string{
		"_foreign_keys=on",
		"_busy_timeout=5000",
	}
	if cfg.ReadOnly {
		params = append(params, "mode=ro", "_query_only=true")
	} else {
		params = append(params, "_journal_mode=WAL")
	}

	if strings.HasPrefix(path, "file:") {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		return path + sep + strings.Join(params, "&"), nil
	}

	return fmt.Sprintf("file:%s?%s", path, strings.Join(params, "&")), nil
}
