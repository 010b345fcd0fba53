package version

import "testing"

func TestString(t *testing.T) {
	oldV, oldC, oldD := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = oldV, oldC, oldD })

	Version, Commit, Date = "v1.2.0", "0123456789abcdef", "2026-10-01"
	if got, want := String(), "v1.2.0 (0123456789ab, 2026-10-01)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	Version, Commit = "v1.2.0", "unknown"
	if got := String(); got != "v1.2.0" {
		t.Errorf("String() without commit = %q, want v1.2.0", got)
	}
}
