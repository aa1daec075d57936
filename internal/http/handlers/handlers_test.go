package handlers

import (
	"context"
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/preston-bernstein/nba-advanced-stats/internal/app/derive"
	"github.com/preston-bernstein/nba-advanced-stats/internal/metrics"
	"github.com/preston-bernstein/nba-advanced-stats/internal/stats"
	"github.com/preston-bernstein/nba-advanced-stats/internal/testutil"
)

func newTestHandler(maxBody int64) *Handler {
	return NewHandler(derive.NewService(nil, metrics.NewRecorder()), nil, maxBody)
}

func TestHealth(t *testing.T) {
	h := newTestHandler(0)

	rr := testutil.Serve(h, http.MethodGet, "/health", nil)

	testutil.AssertStatus(t, rr, http.StatusOK)
	var body map[string]string
	testutil.DecodeJSON(t, rr, &body)
	if body["status"] != "ok" {
		t.Fatalf("expected ok status, got %v", body)
	}
}

func TestHealthRejectsWrongMethod(t *testing.T) {
	rr := testutil.Serve(newTestHandler(0), http.MethodPost, "/health", nil)
	testutil.AssertStatus(t, rr, http.StatusMethodNotAllowed)
}

func TestHealthReportsShuttingDown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/health", nil).WithContext(ctx)

	rr := testutil.ServeRequest(newTestHandler(0), req)

	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
}

func TestAvailableMetrics(t *testing.T) {
	rr := testutil.Serve(newTestHandler(0), http.MethodGet, "/metrics/available", nil)

	testutil.AssertStatus(t, rr, http.StatusOK)
	var body MetricsResponse
	testutil.DecodeJSON(t, rr, &body)
	if strings.Join(body.Metrics, ",") != strings.Join(stats.Available(), ",") {
		t.Fatalf("unexpected metrics list %v", body.Metrics)
	}
}

func TestDeriveReturnsJSONTable(t *testing.T) {
	rr := testutil.PostCSV(newTestHandler(0), "/derive?metrics=FG%25,XYZ%25", testutil.BoxScoreCSV)

	testutil.AssertStatus(t, rr, http.StatusOK)
	var body TableResponse
	testutil.DecodeJSON(t, rr, &body)

	if body.Rows != 5 || len(body.Data) != 5 {
		t.Fatalf("expected 5 rows, got %d/%d", body.Rows, len(body.Data))
	}
	if len(body.Computed) != 1 || body.Computed[0] != stats.MetricFGPct {
		t.Fatalf("unexpected computed list %v", body.Computed)
	}
	if len(body.Skipped) != 1 || body.Skipped[0] != "XYZ%" {
		t.Fatalf("expected XYZ%% skipped, got %v", body.Skipped)
	}
	if got := body.Columns[len(body.Columns)-1]; got != stats.MetricFGPct {
		t.Fatalf("expected FG%% appended last, got %s", got)
	}
	if got := body.Data[0][stats.MetricFGPct]; got != 50.0 {
		t.Fatalf("expected FG%% 50 for first row, got %v", got)
	}
	if got, ok := body.Data[2][stats.MetricFGPct]; !ok || got != nil {
		t.Fatalf("expected null FG%% for the bench row, got %v", got)
	}
}

func TestDeriveReturnsCSV(t *testing.T) {
	rr := testutil.PostCSV(newTestHandler(0), "/derive?format=csv&metrics=POSS", testutil.BoxScoreCSV)

	testutil.AssertStatus(t, rr, http.StatusOK)
	if got := rr.Header().Get("Content-Type"); got != "text/csv" {
		t.Fatalf("expected text/csv, got %s", got)
	}
	records, err := csv.NewReader(rr.Body).ReadAll()
	if err != nil {
		t.Fatalf("expected valid csv: %v", err)
	}
	header := records[0]
	if header[len(header)-1] != stats.MetricPOSS {
		t.Fatalf("expected POSS column last, got %v", header)
	}
	if got := records[1][len(header)-1]; got != "26.08" {
		t.Fatalf("expected POSS 26.08 for first row, got %s", got)
	}
	if len(records) != 6 {
		t.Fatalf("expected header plus 5 rows, got %d", len(records))
	}
}

func TestDeriveRejectsBadRequests(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"wrong method", http.MethodGet, "/derive", "", http.StatusMethodNotAllowed},
		{"bad format", http.MethodPost, "/derive?format=xml", testutil.BoxScoreCSV, http.StatusBadRequest},
		{"empty body", http.MethodPost, "/derive", "  \n", http.StatusBadRequest},
		{"bad minutes", http.MethodPost, "/derive", "GAME_ID,TEAM,PLAYER_ID,MIN\n1,BOS,7,DNP\n", http.StatusBadRequest},
		{"missing columns", http.MethodPost, "/derive", "GAME_ID,TEAM,PLAYER_ID,MIN\n1,BOS,7,12:00\n", http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			rr := testutil.ServeRequest(newTestHandler(0), req)
			testutil.AssertStatus(t, rr, tt.want)

			var body map[string]string
			testutil.DecodeJSON(t, rr, &body)
			if body["error"] == "" {
				t.Fatalf("expected error message in body")
			}
		})
	}
}

func TestDeriveNamesMissingColumn(t *testing.T) {
	rr := testutil.PostCSV(newTestHandler(0), "/derive", "GAME_ID,TEAM,PLAYER_ID,MIN\n1,BOS,7,12:00\n")

	testutil.AssertStatus(t, rr, http.StatusUnprocessableEntity)
	if !strings.Contains(rr.Body.String(), "missing column: PLAYER_NAME") {
		t.Fatalf("expected missing column named, got %s", rr.Body.String())
	}
}

func TestDeriveRejectsOversizedBody(t *testing.T) {
	rr := testutil.PostCSV(newTestHandler(64), "/derive", testutil.BoxScoreCSV)
	testutil.AssertStatus(t, rr, http.StatusRequestEntityTooLarge)
}

func TestPlayersSummary(t *testing.T) {
	rr := testutil.PostCSV(newTestHandler(0), "/players/summary?group_by=TEAM", testutil.BoxScoreCSV)

	testutil.AssertStatus(t, rr, http.StatusOK)
	var body TableResponse
	testutil.DecodeJSON(t, rr, &body)

	if body.Rows != 2 {
		t.Fatalf("expected one row per team, got %d", body.Rows)
	}
	if len(body.GroupBy) != 1 || body.GroupBy[0] != "TEAM" {
		t.Fatalf("expected group_by echoed, got %v", body.GroupBy)
	}
	if body.Data[0]["TEAM"] != "BOS" || body.Data[0][stats.ColTotalMinutes] != 70.5 {
		t.Fatalf("unexpected first summary row %v", body.Data[0])
	}
	if _, ok := body.Data[0][stats.WeightedColumnName(stats.MetricTSPct)]; !ok {
		t.Fatalf("expected weighted TS column, got %v", body.Columns)
	}
}

func TestPlayersSummaryUnknownGroupColumn(t *testing.T) {
	rr := testutil.PostCSV(newTestHandler(0), "/players/summary?group_by=SEASON", testutil.BoxScoreCSV)
	testutil.AssertStatus(t, rr, http.StatusUnprocessableEntity)
}

func TestUnknownPathReturns404(t *testing.T) {
	rr := testutil.Serve(newTestHandler(0), http.MethodGet, "/games/today", nil)
	testutil.AssertStatus(t, rr, http.StatusNotFound)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{derive.ErrBadInput, http.StatusBadRequest},
		{context.Canceled, http.StatusServiceUnavailable},
		{context.DeadlineExceeded, http.StatusServiceUnavailable},
		{http.ErrBodyNotAllowed, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Fatalf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
