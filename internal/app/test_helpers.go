package app

import (
	"os"
	"testing"

	"github.com/specialistvlad/pathfinder/internal/testutil"
	"github.com/specialistvlad/pathfinder/internal/transport"
)

// SetupAppTest creates a new app instance for system testing. It returns the
// app together with its report and log buffers.
func SetupAppTest(t *testing.T, cfg *Config, dialer transport.Dialer) (*App, *testutil.SafeBuffer, *testutil.SafeBuffer) {
	t.Helper()

	outBuffer := &testutil.SafeBuffer{}
	logBuffer := &testutil.SafeBuffer{}
	cfg.LogLevel = "debug"
	testApp := NewApp(outBuffer, logBuffer, cfg, dialer)

	t.Cleanup(func() {
		if os.Getenv("PATHFINDER_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, outBuffer, logBuffer
}
