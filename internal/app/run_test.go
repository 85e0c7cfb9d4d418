package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"climate-server/internal/config"
	"climate-server/internal/db"
	"climate-server/internal/httpapi"
	th "climate-server/internal/testhelpers"
)

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
	return resp.StatusCode
}

func TestRoutes(t *testing.T) {
	conn := th.NewClimateDB(t)
	th.Seed(t, conn, []th.StationRow{th.Honolulu, th.Kaneohe}, []th.MeasurementRow{
		{Station: th.Honolulu.Station, Date: "2017-01-01", Prcp: th.F(0.25), Tobs: th.F(60)},
		{Station: th.Kaneohe.Station, Date: "2017-01-01", Prcp: th.F(0.75)},
		{Station: th.Honolulu.Station, Date: "2017-01-02", Tobs: th.F(70)},
	})
	mux, err := buildMux(conn, db.DialectSQLite)
	if err != nil {
		t.Fatalf("buildMux: %v", err)
	}
	ts := httptest.NewServer(httpapi.Wrap(config.Config{RequestTimeout: 5 * time.Second}, mux))
	t.Cleanup(ts.Close)

	t.Run("stations", func(t *testing.T) {
		var got []map[string]any
		if code := getJSON(t, ts.URL+"/api/v1.0/stations", &got); code != http.StatusOK {
			t.Fatalf("status = %d", code)
		}
		if len(got) != 2 || got[0]["station"] != th.Honolulu.Station || got[1]["station"] != th.Kaneohe.Station {
			t.Errorf("stations = %v", got)
		}
	})

	t.Run("precipitation", func(t *testing.T) {
		var got map[string]*float64
		if code := getJSON(t, ts.URL+"/api/v1.0/precipitation", &got); code != http.StatusOK {
			t.Fatalf("status = %d", code)
		}
		want := map[string]*float64{"2017-01-01": th.F(0.5), "2017-01-02": nil}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("precipitation mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("tobs", func(t *testing.T) {
		var got map[string]*float64
		if code := getJSON(t, ts.URL+"/api/v1.0/tobs", &got); code != http.StatusOK {
			t.Fatalf("status = %d", code)
		}
		want := map[string]*float64{"2017-01-01": th.F(60), "2017-01-02": th.F(70)}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("tobs mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("range from start", func(t *testing.T) {
		var got map[string]*float64
		if code := getJSON(t, ts.URL+"/api/v1.0/2017-01-01", &got); code != http.StatusOK {
			t.Fatalf("status = %d", code)
		}
		want := map[string]*float64{"Min Temp": th.F(60), "Avg Temp": th.F(65), "Max Temp": th.F(70)}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("stats mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("range out of bounds", func(t *testing.T) {
		var got map[string]string
		if code := getJSON(t, ts.URL+"/api/v1.0/2017-01-02/2017-01-02", &got); code != http.StatusNotFound {
			t.Fatalf("status = %d; want 404", code)
		}
		if got["error"] != "Please enter a date after 2017-01-01 and before 2017-01-02." {
			t.Errorf("error = %q", got["error"])
		}
	})

	t.Run("date not found", func(t *testing.T) {
		var got map[string]string
		if code := getJSON(t, ts.URL+"/api/v1.0/2018-01-01", &got); code != http.StatusNotFound {
			t.Fatalf("status = %d; want 404", code)
		}
		if got["error"] != "Sorry, the date '2018-01-01' was not found." {
			t.Errorf("error = %q", got["error"])
		}
	})

	t.Run("healthz", func(t *testing.T) {
		var got map[string]string
		if code := getJSON(t, ts.URL+"/healthz", &got); code != http.StatusOK || got["status"] != "ok" {
			t.Errorf("healthz = %d %v", code, got)
		}
	})
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	cfg := config.Config{
		AppEnv:          "dev",
		HTTPAddr:        "127.0.0.1:0",
		Driver:          config.DriverSQLite,
		Path:            filepath.Join(t.TempDir(), "climate.db"),
		Migrate:         true,
		RequestTimeout:  time.Second,
		ShutdownTimeout: time.Second,
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, cfg) }()

	time.Sleep(200 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run() = %v; want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_MissingDatabase(t *testing.T) {
	cfg := config.Config{
		Driver:   config.DriverSQLite,
		Path:     filepath.Join(t.TempDir(), "missing.sqlite"),
		ReadOnly: true,
	}
	if err := Run(context.Background(), cfg); err == nil {
		t.Fatal("Run() = nil; want open error for missing read-only database")
	}
}
