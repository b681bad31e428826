package version

import "testing"

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.2.3", "1.2.3", 0},
		{"1.10.0", "1.9.3", 1},
		{"1.9.3", "1.10.0", -1},
		{"v2.0.0", "1.99.99", 1},
		{"1.2", "1.2.0", 0},
		{"1.2.1-rc1", "1.2.1", 0},
	}

	for _, tt := range tests {
		if got := CompareVersions(tt.a, tt.b); got != tt.want {
			t.Errorf("CompareVersions(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestFormatVersion(t *testing.T) {
	oldVersion, oldCommit, oldBuild := Version, Commit, BuildTime
	defer func() { Version, Commit, BuildTime = oldVersion, oldCommit, oldBuild }()

	Version, Commit, BuildTime = "1.2.3", "", ""
	if got := FormatVersion(); got != "1.2.3 (development)" {
		t.Errorf("got %q", got)
	}

	Version, Commit, BuildTime = "1.2.3", "abc1234", ""
	if got := FormatVersion(); got != "1.2.3 (commit: abc1234)" {
		t.Errorf("got %q", got)
	}

	Version, Commit, BuildTime = "1.2.3", "abc1234", "2025-10-23T10:20:30Z"
	if got := FormatVersion(); got != "1.2.3 (commit: abc1234, built at: 2025-10-23T10:20:30Z)" {
		t.Errorf("got %q", got)
	}
}
