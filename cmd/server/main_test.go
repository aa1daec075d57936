package main

import (
	"testing"
)

// main returns immediately when SKIP_SERVER_RUN is set so tests never block on signals.
func TestMainSkipsWhenEnvSet(t *testing.T) {
	t.Setenv("SKIP_SERVER_RUN", "1")
	main()
}
