package http

import (
	nethttp "net/http"

	"github.com/preston-bernstein/nba-advanced-stats/internal/http/handlers"
	"github.com/preston-bernstein/nba-advanced-stats/internal/http/middleware"
)

// NewRouter registers HTTP routes on a ServeMux.
func NewRouter(handler *handlers.Handler) nethttp.Handler {
	mux := nethttp.NewServeMux()
	mux.HandleFunc(middleware.PathHealth, handler.Health)
	mux.HandleFunc(middleware.PathMetricsAvailable, handler.AvailableMetrics)
	mux.HandleFunc(middleware.PathDerive, handler.Derive)
	mux.HandleFunc(middleware.PathPlayersSummary, handler.PlayersSummary)
	return mux
}
