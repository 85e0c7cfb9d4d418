package db

import (
	"context"
	"database/sql"
	"log/slog"
	"sync"
	"testing"

	sqlite3 "github.com/mattn/go-sqlite3"
)

// captureHandler records log records for assertion in tests.
type captureHandler struct {
	mu    sync.Mutex
	attrs []map[string]slog.Value
}

func (h *captureHandler) Enabled(_ context.Context, _ slog.Level) bool { return true }

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	m := make(map[string]slog.Value)
	m["msg"] = slog.StringValue(r.Message)
	r.Attrs(func(a slog.Attr) bool {
		m[a.Key] = a.Value
		return true
	})
	h.attrs = append(h.attrs, m)
	return nil
}

func (h *captureHandler) WithAttrs(_ []slog.Attr) slog.Handler { return h }

func (h *captureHandler) WithGroup(_ string) slog.Handler { return h }

func (h *captureHandler) last(t *testing.T) map[string]slog.Value {
	t.Helper()
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := len(h.attrs) - 1; i >= 0; i-- {
		if h.attrs[i]["msg"].String() == "sql" {
			return h.attrs[i]
		}
	}
	t.Fatal("no sql log record")
	return nil
}

func (h *captureHandler) reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.attrs = nil
}

func openLogged(t *testing.T, handler slog.Handler) *sql.DB {
	t.Helper()
	db := sql.OpenDB(NewLoggingConnector(&sqlite3.SQLiteDriver{}, ":memory:", slog.New(handler)))
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestNewLoggingConnector_nilLoggerUsesDefault(t *testing.T) {
	conn := NewLoggingConnector(&sqlite3.SQLiteDriver{}, ":memory:", nil)
	lc, ok := conn.(*loggingConnector)
	if !ok {
		t.Fatalf("connector type = %T", conn)
	}
	if lc.logger != slog.Default() {
		t.Error("nil logger was not replaced by slog.Default()")
	}
}

func TestLoggingConnector_ExecAndQueryLogged(t *testing.T) {
	handler := &captureHandler{}
	db := openLogged(t, handler)

	if _, err := db.Exec(`CREATE TABLE measurement (date TEXT, tobs REAL)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	got := handler.last(t)
	if got["op"].String() != "exec" {
		t.Errorf("op: got %q, want exec", got["op"].String())
	}
	if got["sql"].String() != `CREATE TABLE measurement (date TEXT, tobs REAL)` {
		t.Errorf("sql: got %q", got["sql"].String())
	}
	if _, ok := got["duration_ms"]; !ok {
		t.Error("expected duration_ms attribute")
	}

	handler.reset()
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM measurement WHERE date >= ?`, "2017-01-01").Scan(&n); err != nil {
		t.Fatalf("query row: %v", err)
	}
	got = handler.last(t)
	if got["op"].String() != "query" {
		t.Errorf("op: got %q, want query", got["op"].String())
	}
	args, ok := got["args"].Any().([]string)
	if !ok || len(args) != 1 || args[0] != "2017-01-01" {
		t.Errorf("args: got %v", got["args"].Any())
	}
}

func TestLoggingConnector_NullArgAndErrorLogged(t *testing.T) {
	handler := &captureHandler{}
	db := openLogged(t, handler)

	if _, err := db.Exec(`CREATE TABLE measurement (date TEXT NOT NULL, tobs REAL)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	handler.reset()

	if _, err := db.Exec(`INSERT INTO measurement (date, tobs) VALUES (?, ?)`, "2017-01-01", nil); err != nil {
		t.Fatalf("insert: %v", err)
	}
	args, _ := handler.last(t)["args"].Any().([]string)
	if len(args) != 2 || args[1] != "NULL" {
		t.Errorf("args: got %v, want second arg NULL", args)
	}

	handler.reset()
	if _, err := db.Exec(`INSERT INTO measurement (date, tobs) VALUES (?, ?)`, nil, 1.5); err == nil {
		t.Fatal("insert NULL date: want constraint error")
	}
	if _, ok := handler.last(t)["error"]; !ok {
		t.Error("expected error attribute for failed exec")
	}
}

func TestLoggingConnector_PingSucceeds(t *testing.T) {
	db := openLogged(t, &captureHandler{})
	if err := db.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestFormatArg(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{in: nil, want: "NULL"},
		{in: []byte("USC00519397"), want: "USC00519397"},
		{in: int64(7), want: "7"},
		{in: 70.5, want: "70.5"},
	}
	for _, tt := range tests {
		if got := formatArg(tt.in); got != tt.want {
			t.Errorf("formatArg(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
