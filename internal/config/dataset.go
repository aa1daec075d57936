package config

import "strings"

// DatasetConfig controls where box-score data is read from and which
// derived metrics are computed by default.
type DatasetConfig struct {
	Dir            string
	Name           string
	TestMode       bool     // cap loads at the test row limit
	MaxUploadBytes int      // request body cap for uploads
	Metrics        []string // empty means every available metric
}

func loadDataset() DatasetConfig {
	return DatasetConfig{
		Dir:            envOrDefault(envDataDir, defaultDataDir),
		Name:           envOrDefault(envDataset, defaultDataset),
		TestMode:       boolEnvOrDefault(envDatasetTestMode, defaultDatasetTest),
		MaxUploadBytes: intEnvOrDefault(envMaxUploadBytes, defaultMaxUploadBytes),
		Metrics:        SplitList(envOrDefault(envMetrics, "")),
	}
}

// SplitList splits a comma-separated list, trimming blanks.
func SplitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
