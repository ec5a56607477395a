// Package testing switches binaries into test mode when imported from tests.
package testing

import (
	"os"
	"sync"
	stdtesting "testing"
)

// TestModeEnv is read by app.InTestMode.
const TestModeEnv = "SOFTSELL_TEST_MODE"

var once sync.Once

func ensureTestMode() {
	once.Do(func() {
		_ = os.Setenv(TestModeEnv, "1")
	})
}

func init() {
	ensureTestMode()
}

// TestMain can be assigned by packages that want the flag set before m.Run.
func TestMain(m *stdtesting.M) {
	ensureTestMode()
	os.Exit(m.Run())
}
