package parse

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain guards the whole package, but it is TestParseIncludeCycleDoesNotInfiniteLoop
// that actually exercises the property this buys: a self-referential
// "include" chain must not leave anything running after Parse returns.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
