package httpapi

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"climate-server/internal/config"
)

func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           Wrap(cfg, handler),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// Wrap applies the request middleware chain, outermost first: request id,
// metrics, access log, rate limit, timeout.
func Wrap(cfg config.Config, handler http.Handler) http.Handler {
	var limiter *rate.Limiter
	if cfg.RateLimitRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	}

	h := timeout(cfg.RequestTimeout)(handler)
	h = rateLimit(limiter)(h)
	h = requestLogger(h)
	h = metrics(h)
	return requestID(h)
}
