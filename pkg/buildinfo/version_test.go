package buildinfo

import "testing"

func TestString(t *testing.T) {
	oldVersion, oldCommit := Version, Commit
	defer func() { Version, Commit = oldVersion, oldCommit }()

	Version, Commit = "v1.2.3", "abc123"
	if got, want := String(), "branchtime v1.2.3 (abc123)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
