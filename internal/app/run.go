package app

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"climate-server/internal/config"
	"climate-server/internal/db"
	"climate-server/internal/httpapi"
	"climate-server/internal/migrate"
	"climate-server/internal/modules/climate"
	climateviews "climate-server/internal/modules/climate/views"
	"climate-server/internal/observability"
)

func Run(ctx context.Context, cfg config.Config) error {
	slog.Info("config loaded",
		"appEnv", cfg.AppEnv,
		"logLevel", cfg.LogLevel.String(),
		"httpAddr", cfg.HTTPAddr,
		"dbDriver", cfg.Driver,
		"sqlitePath", cfg.Path,
		"dbReadOnly", cfg.ReadOnly,
		"dbMigrate", cfg.Migrate,
		"dbMaxOpenConns", cfg.MaxOpenConns,
		"dbMaxIdleConns", cfg.MaxIdleConns,
		"dbConnMaxLifetime", cfg.ConnMaxLifetime,
		"requestTimeout", cfg.RequestTimeout,
		"rateLimitRPS", cfg.RateLimitRPS,
	)
	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := db.Close(dbConn)
		if closeErr != nil {
			slog.Error("db close", "error", closeErr)
		}
	}()

	dialect := db.DialectFor(cfg.Driver)
	if cfg.Migrate {
		if err := migrate.Run(ctx, dbConn, dialect); err != nil {
			return err
		}
	}
	slog.Info("database connection successful")
	observability.RegisterDBStats(dbConn, "climate")

	mux, err := buildMux(dbConn, dialect)
	if err != nil {
		return err
	}
	srv := httpapi.NewServer(cfg, mux)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listening", "addr", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	slog.Info("http shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	err = <-errCh
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return ctx.Err()
}

// buildMux registers the health, metrics and climate routes on a fresh mux.
func buildMux(dbConn *sql.DB, dialect db.Dialect) (*http.ServeMux, error) {
	if err := climateviews.LoadTemplates(); err != nil {
		return nil, err
	}
	mux := httpapi.NewMux(dbConn)
	climate.RegisterFeature(mux, dbConn, dialect)
	return mux, nil
}
