package version

import (
	"strings"
	"testing"
)

func withVars(t *testing.T, v, commit, branch, built string) {
	t.Helper()
	ov, oc, ob, obt := Version, GitCommit, GitBranch, BuildTime
	t.Cleanup(func() { Version, GitCommit, GitBranch, BuildTime = ov, oc, ob, obt })
	Version, GitCommit, GitBranch, BuildTime = v, commit, branch, built
}

func TestGet_LinkTimeValuesWin(t *testing.T) {
	withVars(t, "1.2.0", "abcdef1234567", "main", "2024-01-02T15:04:05Z")

	info := Get()
	if info.Version != "1.2.0" {
		t.Errorf("expected 1.2.0, got %q", info.Version)
	}
	if info.GitCommit != "abcdef1" {
		t.Errorf("expected commit truncated to 7, got %q", info.GitCommit)
	}
	if info.BuildTime != "2024-01-02T15:04:05Z" {
		t.Errorf("unexpected build time %q", info.BuildTime)
	}
}

func TestIsRelease(t *testing.T) {
	tests := []struct {
		info Info
		want bool
	}{
		{Info{Version: "dev"}, false},
		{Info{Version: "1.0.0"}, true},
		{Info{Version: "1.0.0", Dirty: true}, false},
		{Info{Version: "1.0.0-dirty"}, false},
	}
	for _, tc := range tests {
		if got := tc.info.IsRelease(); got != tc.want {
			t.Errorf("IsRelease(%+v) = %v, want %v", tc.info, got, tc.want)
		}
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want string
	}{
		{"bare", Info{Version: "dev"}, "dev"},
		{"commit on main", Info{Version: "1.0.0", GitCommit: "abc1234", GitBranch: "main"}, "1.0.0-abc1234"},
		{"feature branch dirty", Info{Version: "1.0.0", GitCommit: "abc1234", GitBranch: "feat", Dirty: true}, "1.0.0-abc1234-feat-dirty"},
		{"build time", Info{Version: "1.0.0", BuildTime: "2024-01-02T15:04:05Z"}, "1.0.0 (built 2024-01-02T15:04:05Z)"},
		{"malformed build time", Info{Version: "1.0.0", BuildTime: "yesterday"}, "1.0.0"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.info.String(); got != tc.want {
				t.Errorf("String() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestGet_DevDefaults(t *testing.T) {
	withVars(t, "dev", "", "", "")
	if s := Get().String(); !strings.HasPrefix(s, "dev") {
		t.Errorf("expected dev prefix, got %q", s)
	}
}
