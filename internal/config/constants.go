package config

import "time"

const (
	envPort            = "PORT"
	envDataDir         = "DATA_DIR"
	envDataset         = "DATASET"
	envDatasetTestMode = "DATASET_TEST_MODE"
	envMaxUploadBytes  = "MAX_UPLOAD_BYTES"
	envMetrics         = "DERIVED_METRICS"
	envLogLevel        = "LOG_LEVEL"
	envLogFormat       = "LOG_FORMAT"
	envShutdownTimeout = "SHUTDOWN_TIMEOUT"
	envMetricsPort     = "METRICS_PORT"
	envMetricsOn       = "METRICS_ENABLED"
	envOtelEndpoint    = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService     = "OTEL_SERVICE_NAME"
	envOtelInsecure    = "OTEL_EXPORTER_OTLP_INSECURE"

	defaultPort           = "4000"
	defaultDataDir        = "data"
	defaultDataset        = "games_details"
	defaultDatasetTest    = false
	defaultMaxUploadBytes = 32 << 20
	defaultLogLevel       = "info"
	defaultLogFormat      = "text"
	defaultMetricsPort    = "9090"
	defaultServiceName    = "nba-advanced-stats"
	// Long enough for an in-flight derive request on a full season upload.
	defaultShutdownTimeout = 10 * Duration(time.Second)
)
