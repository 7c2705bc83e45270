package integration

import (
	"os"
	"testing"
	"time"
)

// BaseURL points at a running api server, see cmd/api.
var BaseURL = "http://localhost:8080"

func TestMain(m *testing.M) {
	if url := os.Getenv("TEST_BASE_URL"); url != "" {
		BaseURL = url
	}

	// Wait for the server to come up
	time.Sleep(5 * time.Second)

	code := m.Run()

	os.Exit(code)
}
