// Package testhelpers builds throwaway climate databases for tests.
package testhelpers

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"climate-server/internal/db"
	"climate-server/internal/migrate"
)

// StationRow is a station fixture.
type StationRow struct {
	Station   string
	Name      string
	Latitude  float64
	Longitude float64
	Elevation float64
}

// MeasurementRow is a measurement fixture; nil readings are stored as NULL.
type MeasurementRow struct {
	Station string
	Date    string
	Prcp    *float64
	Tobs    *float64
}

// F returns a pointer to v, for nullable fixture fields.
func F(v float64) *float64 { return &v }

// NewClimateDB returns a migrated on-disk SQLite database in t.TempDir().
// A file is used instead of :memory: so every pooled connection sees the same data.
func NewClimateDB(t testing.TB) *sql.DB {
	t.Helper()
	conn, err := sql.Open("sqlite3", "file:"+filepath.Join(t.TempDir(), "climate.db")+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if err := conn.Close(); err != nil {
			t.Errorf("close db: %v", err)
		}
	})
	if err := migrate.Run(context.Background(), conn, db.DialectSQLite); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

// Seed inserts stations and measurements in order; ids follow insertion order.
func Seed(t testing.TB, conn *sql.DB, stations []StationRow, measurements []MeasurementRow) {
	t.Helper()
	for _, s := range stations {
		_, err := conn.Exec(
			`INSERT INTO station (station, name, latitude, longitude, elevation) VALUES (?, ?, ?, ?, ?)`,
			s.Station, s.Name, s.Latitude, s.Longitude, s.Elevation,
		)
		if err != nil {
			t.Fatalf("insert station %s: %v", s.Station, err)
		}
	}
	for _, m := range measurements {
		_, err := conn.Exec(
			`INSERT INTO measurement (station, date, prcp, tobs) VALUES (?, ?, ?, ?)`,
			m.Station, m.Date, nullable(m.Prcp), nullable(m.Tobs),
		)
		if err != nil {
			t.Fatalf("insert measurement %s/%s: %v", m.Station, m.Date, err)
		}
	}
}

// Honolulu and Kaneohe are the two stations used by most fixtures.
var (
	Honolulu = StationRow{Station: "USC00519397", Name: "WAIKIKI 717.2, HI US", Latitude: 21.2716, Longitude: -157.8168, Elevation: 3}
	Kaneohe  = StationRow{Station: "USC00513117", Name: "KANEOHE 838.1, HI US", Latitude: 21.4234, Longitude: -157.8015, Elevation: 14.6}
)

func nullable(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
