package httpapi

import (
	"database/sql"
	"net/http"

	"climate-server/internal/observability"
)

func NewMux(db *sql.DB) *http.ServeMux {
	mux := http.NewServeMux()
	registerHealthcheck(mux, db)
	mux.Handle("GET /metrics", observability.MetricsHandler())
	return mux
}
