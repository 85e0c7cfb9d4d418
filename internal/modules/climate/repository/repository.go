package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"

	"climate-server/internal/db"
	"climate-server/internal/modules/climate/types"
)

//go:embed sql/get-stations.sql
var getStationsSQL string

//go:embed sql/get-coverage.sql
var getCoverageSQL string

//go:embed sql/get-daily-precipitation.sql
var getDailyPrecipitationSQL string

//go:embed sql/get-daily-temperature-after.sql
var getDailyTemperatureAfterSQL string

//go:embed sql/get-temperature-stats-from.sql
var getTemperatureStatsFromSQL string

//go:embed sql/get-temperature-stats-between.sql
var getTemperatureStatsBetweenSQL string

// ClimateRepository hands out data source handles. Every handle must be closed
// by the caller, on success and on error.
type ClimateRepository interface {
	Acquire(ctx context.Context) (Handle, error)
}

// Handle is a scoped view of the dataset bound to one connection.
type Handle interface {
	Stations(ctx context.Context) ([]types.Station, error)
	// Coverage reports found=false when there are no measurements.
	Coverage(ctx context.Context) (cov types.Coverage, found bool, err error)
	DailyPrecipitation(ctx context.Context) ([]types.DailyValue, error)
	// DailyTemperatureAfter averages temperature per date for dates strictly after the given one.
	DailyTemperatureAfter(ctx context.Context, after string) ([]types.DailyValue, error)
	TemperatureStats(ctx context.Context, r types.DateRange) (types.TemperatureStats, error)
	Close() error
}

type repositoryImpl struct {
	db      *sql.DB
	dialect db.Dialect
}

func NewRepository(conn *sql.DB, dialect db.Dialect) ClimateRepository {
	return &repositoryImpl{db: conn, dialect: dialect}
}

func (r *repositoryImpl) Acquire(ctx context.Context) (Handle, error) {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	return &handleImpl{conn: conn, dialect: r.dialect}, nil
}

type handleImpl struct {
	conn    *sql.Conn
	dialect db.Dialect
}

func (h *handleImpl) Close() error {
	return h.conn.Close()
}

func (h *handleImpl) Stations(ctx context.Context) ([]types.Station, error) {
	rows, err := h.conn.QueryContext(ctx, h.dialect.Rebind(getStationsSQL))
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close stations rows", "error", err)
		}
	}()
	out := []types.Station{}
	for rows.Next() {
		var (
			s                   types.Station
			lat, lon, elevation sql.NullFloat64
		)
		if err := rows.Scan(&s.Station, &s.Name, &lat, &lon, &elevation); err != nil {
			return nil, err
		}
		s.Latitude = nullFloat(lat)
		s.Longitude = nullFloat(lon)
		s.Elevation = nullFloat(elevation)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (h *handleImpl) Coverage(ctx context.Context) (types.Coverage, bool, error) {
	var first, last sql.NullString
	if err := h.conn.QueryRowContext(ctx, h.dialect.Rebind(getCoverageSQL)).Scan(&first, &last); err != nil {
		return types.Coverage{}, false, err
	}
	if !first.Valid || !last.Valid {
		return types.Coverage{}, false, nil
	}
	return types.Coverage{First: first.String, Last: last.String}, true, nil
}

func (h *handleImpl) DailyPrecipitation(ctx context.Context) ([]types.DailyValue, error) {
	rows, err := h.conn.QueryContext(ctx, h.dialect.Rebind(getDailyPrecipitationSQL))
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close daily precipitation rows", "error", err)
		}
	}()
	return scanDailyValues(rows)
}

func (h *handleImpl) DailyTemperatureAfter(ctx context.Context, after string) ([]types.DailyValue, error) {
	rows, err := h.conn.QueryContext(ctx, h.dialect.Rebind(getDailyTemperatureAfterSQL), after)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close daily temperature rows", "error", err)
		}
	}()
	return scanDailyValues(rows)
}

func (h *handleImpl) TemperatureStats(ctx context.Context, r types.DateRange) (types.TemperatureStats, error) {
	var row *sql.Row
	if r.To == "" {
		row = h.conn.QueryRowContext(ctx, h.dialect.Rebind(getTemperatureStatsFromSQL), r.From)
	} else {
		row = h.conn.QueryRowContext(ctx, h.dialect.Rebind(getTemperatureStatsBetweenSQL), r.From, r.To)
	}
	var minT, avgT, maxT sql.NullFloat64
	if err := row.Scan(&minT, &avgT, &maxT); err != nil {
		return types.TemperatureStats{}, err
	}
	return types.TemperatureStats{
		Min: nullFloat(minT),
		Avg: nullFloat(avgT),
		Max: nullFloat(maxT),
	}, nil
}

func scanDailyValues(rows *sql.Rows) ([]types.DailyValue, error) {
	var out []types.DailyValue
	for rows.Next() {
		var (
			rec types.DailyValue
			avg sql.NullFloat64
		)
		if err := rows.Scan(&rec.Date, &avg); err != nil {
			return nil, err
		}
		rec.Value = nullFloat(avg)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
