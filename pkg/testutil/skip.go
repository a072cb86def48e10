// Package testutil holds helpers shared by package tests.
package testutil

import (
	"os"
	"testing"
)

// SkipIfShort skips the test if running in short mode
func SkipIfShort(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
}

// RequireIntegration skips the test in short mode, and in CI unless INTEGRATION_TESTS is set.
func RequireIntegration(t *testing.T) {
	t.Helper()
	SkipIfShort(t)
	if os.Getenv("INTEGRATION_TESTS") == "" && os.Getenv("CI") != "" {
		t.Skip("skipping integration test (set INTEGRATION_TESTS=1 to run)")
	}
}
