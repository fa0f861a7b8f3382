package testutil

import "testing"

// step runs fn as a subtest named "<keyword> <desc>", so a signup flow reads
// as a scenario in `go test -v` output.
func step(t *testing.T, keyword, desc string, fn func(t *testing.T)) bool {
	t.Helper()
	return t.Run(keyword+" "+desc, fn)
}

func Given(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	step(t, "Given", desc, fn)
}

func When(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	step(t, "When", desc, fn)
}

// Then stops the enclosing scenario when its assertions fail; later steps
// depend on the state it checked.
func Then(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	if !step(t, "Then", desc, fn) {
		t.FailNow()
	}
}
