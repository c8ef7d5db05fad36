package version

import (
	"testing"

	"github.com/fatih/color"
)

func withVersion(t *testing.T, v string) {
	t.Helper()
	orig := Version
	Version = v
	t.Cleanup(func() { Version = orig })
}

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
	if _, err := Semver(); err != nil {
		t.Fatalf("default version must parse: %v", err)
	}
}

func TestVersion_SemanticVersionFormat(t *testing.T) {
	validVersions := []string{
		"0.1.0",
		"1.0.0",
		"1.2.3",
		"2.0.0-alpha",
		"1.0.0-beta.1",
		"0.1.0-dev",
		"1.2.3-rc.1+build.123",
	}
	for _, v := range validVersions {
		withVersion(t, v)
		if _, err := Semver(); err != nil {
			t.Errorf("Semver(%q): %v", v, err)
		}
	}

	withVersion(t, "not-a-version")
	if _, err := Semver(); err == nil {
		t.Error("expected an error for a malformed version")
	}
}

func TestColoredWithoutColor(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	withVersion(t, "1.2.3-rc.1+build.123")
	if got := Colored(); got != "1.2.3-rc.1+build.123" {
		t.Errorf("Colored() = %q", got)
	}
	withVersion(t, "garbage")
	if got := Colored(); got != "garbage" {
		t.Errorf("Colored() = %q", got)
	}
}

func TestSatisfies(t *testing.T) {
	cases := []struct {
		version    string
		constraint string
		want       bool
	}{
		{"0.1.0", ">= 0.1.0", true},
		{"0.1.0-dev", ">= 0.1.0, < 0.2.0", true},
		{"0.1.0", "^1.0", false},
		{"1.4.2", "~1.4", true},
		{"2.0.0", "< 2", false},
	}
	for _, tc := range cases {
		withVersion(t, tc.version)
		got, err := Satisfies(tc.constraint)
		if err != nil {
			t.Fatalf("Satisfies(%q) on %s: %v", tc.constraint, tc.version, err)
		}
		if got != tc.want {
			t.Errorf("Satisfies(%q) on %s = %v, want %v", tc.constraint, tc.version, got, tc.want)
		}
	}

	if _, err := Satisfies("not a constraint ~~"); err == nil {
		t.Error("expected a constraint parse error")
	}
}
