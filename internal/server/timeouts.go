package server

import "time"

const (
	readTimeout = 30 * time.Second
	// Large uploads are derived synchronously before the response is written.
	writeTimeout = 60 * time.Second
	idleTimeout  = 60 * time.Second
)

// shutdownTimeout applies when the config leaves it unset; a var for tests to override.
var shutdownTimeout = 10 * time.Second
