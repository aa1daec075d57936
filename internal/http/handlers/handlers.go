package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	nethttp "net/http"

	"github.com/preston-bernstein/nba-advanced-stats/internal/app/derive"
	"github.com/preston-bernstein/nba-advanced-stats/internal/domain/boxscore"
	"github.com/preston-bernstein/nba-advanced-stats/internal/http/middleware"
	"github.com/preston-bernstein/nba-advanced-stats/internal/http/requestutil"
	"github.com/preston-bernstein/nba-advanced-stats/internal/logging"
)

// DefaultMaxBodyBytes caps uploads when the handler is built without a limit.
const DefaultMaxBodyBytes = 32 << 20

// Output formats accepted by the format query parameter.
const (
	formatJSON = "json"
	formatCSV  = "csv"
)

// MetricsResponse lists the derivable metric names.
type MetricsResponse struct {
	Metrics []string `json:"metrics"`
}

// TableResponse is the JSON rendering of a derived table.
type TableResponse struct {
	Computed []string         `json:"computed"`
	Skipped  []string         `json:"skipped,omitempty"`
	GroupBy  []string         `json:"groupBy,omitempty"`
	Rows     int              `json:"rows"`
	Columns  []string         `json:"columns"`
	Data     []map[string]any `json:"data"`
}

// Handler wires HTTP routes to the derive service.
type Handler struct {
	svc     *derive.Service
	logger  *slog.Logger
	maxBody int64
}

// NewHandler constructs a Handler. A non-positive maxBody uses DefaultMaxBodyBytes.
func NewHandler(svc *derive.Service, logger *slog.Logger, maxBody int64) *Handler {
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	return &Handler{
		svc:     svc,
		logger:  logger,
		maxBody: maxBody,
	}
}

// ServeHTTP dispatches on the request path.
func (h *Handler) ServeHTTP(w nethttp.ResponseWriter, r *nethttp.Request) {
	switch r.URL.Path {
	case middleware.PathHealth:
		h.Health(w, r)
	case middleware.PathMetricsAvailable:
		h.AvailableMetrics(w, r)
	case middleware.PathDerive:
		h.Derive(w, r)
	case middleware.PathPlayersSummary:
		h.PlayersSummary(w, r)
	default:
		writeError(w, r, nethttp.StatusNotFound, "not found", h.logger)
	}
}

// Health reports the service health.
func (h *Handler) Health(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.Method != nethttp.MethodGet {
		writeError(w, r, nethttp.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}
	if err := r.Context().Err(); err != nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// AvailableMetrics lists the metrics the derive endpoints can compute.
func (h *Handler) AvailableMetrics(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.Method != nethttp.MethodGet {
		writeError(w, r, nethttp.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, MetricsResponse{Metrics: h.svc.Available()}, h.logger)
}

// Derive appends advanced metrics to an uploaded box-score CSV.
//
// Query parameters: metrics (comma-separated, default all) and format
// (json or csv, default json).
func (h *Handler) Derive(w nethttp.ResponseWriter, r *nethttp.Request) {
	h.serveDerive(w, r, false)
}

// PlayersSummary derives metrics from an uploaded CSV and rolls them up per
// player with minutes-weighted averages.
//
// Query parameters: metrics, group_by (comma-separated columns) and format.
func (h *Handler) PlayersSummary(w nethttp.ResponseWriter, r *nethttp.Request) {
	h.serveDerive(w, r, true)
}

func (h *Handler) serveDerive(w nethttp.ResponseWriter, r *nethttp.Request, summary bool) {
	if r.Method != nethttp.MethodPost {
		writeError(w, r, nethttp.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = formatJSON
	}
	if format != formatJSON && format != formatCSV {
		writeError(w, r, nethttp.StatusBadRequest, "invalid format (expected json or csv)", h.logger)
		return
	}

	body, err := io.ReadAll(nethttp.MaxBytesReader(w, r.Body, h.maxBody))
	if err != nil {
		var tooLarge *nethttp.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, nethttp.StatusRequestEntityTooLarge, "request body too large", h.logger)
			return
		}
		writeError(w, r, nethttp.StatusBadRequest, "could not read request body", h.logger)
		return
	}
	if len(bytes.TrimSpace(body)) == 0 {
		writeError(w, r, nethttp.StatusBadRequest, "empty request body", h.logger)
		return
	}

	req := derive.Request{
		Metrics: requestutil.CSVList(r, "metrics"),
		Summary: summary,
		GroupBy: requestutil.CSVList(r, "group_by"),
	}
	out, err := h.svc.DeriveCSV(r.Context(), bytes.NewReader(body), req)
	if err != nil {
		status := statusFor(err)
		logging.Warn(loggerFromContext(r, h.logger), "derive failed", logging.FieldStatusCode, status, "err", err)
		writeError(w, r, status, err.Error(), h.logger)
		return
	}

	table := out.Table
	if summary {
		table = out.Summary
	}
	if format == formatCSV {
		writeCSV(w, nethttp.StatusOK, table, h.logger)
		return
	}
	resp := TableResponse{
		Computed: out.Computed,
		Skipped:  out.Skipped,
		Rows:     table.Len(),
		Columns:  table.Columns(),
		Data:     table.Rows(),
	}
	if summary {
		resp.GroupBy = req.GroupBy
	}
	writeJSON(w, nethttp.StatusOK, resp, h.logger)
}

// statusFor maps derive errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, derive.ErrBadInput):
		return nethttp.StatusBadRequest
	case errors.Is(err, boxscore.ErrMissingColumn), errors.Is(err, boxscore.ErrColumnKind):
		return nethttp.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return nethttp.StatusServiceUnavailable
	default:
		return nethttp.StatusInternalServerError
	}
}
