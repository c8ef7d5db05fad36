package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/fatih/color"
)

// Version information for the syntex CLI.
// These variables can be overridden at build time via -ldflags.

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)

	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// GitMessage is an optional latest commit message.
	GitMessage = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// Semver parses Version. A malformed override yields an error, not a panic.
func Semver() (*semver.Version, error) {
	v, err := semver.NewVersion(Version)
	if err != nil {
		return nil, fmt.Errorf("invalid build version %q: %w", Version, err)
	}
	return v, nil
}

// Colored renders major.minor.patch in distinct colors; the pre-release and
// build metadata stay plain. Unparseable versions are returned as is.
func Colored() string {
	v, err := Semver()
	if err != nil {
		return Version
	}
	var b strings.Builder
	b.WriteString(versionMajorColor.Sprint(v.Major()))
	b.WriteByte('.')
	b.WriteString(versionMinorColor.Sprint(v.Minor()))
	b.WriteByte('.')
	b.WriteString(versionPatchColor.Sprint(v.Patch()))
	if pre := v.Prerelease(); pre != "" {
		b.WriteString("-" + pre)
	}
	if meta := v.Metadata(); meta != "" {
		b.WriteString("+" + meta)
	}
	return b.String()
}

// Satisfies checks the running version against a constraint such as
// ">= 0.1, < 2". Pre-release builds are compared by their release triple
// so a dev build still satisfies constraints on its own line.
func Satisfies(constraint string) (bool, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, fmt.Errorf("invalid version constraint %q: %w", constraint, err)
	}
	v, err := Semver()
	if err != nil {
		return false, err
	}
	if v.Prerelease() != "" {
		rel, err := v.SetPrerelease("")
		if err != nil {
			return false, err
		}
		v = &rel
	}
	return c.Check(v), nil
}
