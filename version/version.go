// Package version holds the build-time version metadata for schedulerd and
// schedctl: a plain var block overwritten at build time via -ldflags, no
// runtime logic.
package version

var (
	// Version is the main version number being released.
	Version = "0.1.0"

	// VersionPrerelease is a pre-release marker, e.g. "dev" for unreleased
	// builds. Empty for a final release build.
	VersionPrerelease = "dev"

	// GitCommit is set via -ldflags at build time.
	GitCommit string
)

// GetHumanVersion composes the above into a single user-facing string.
func GetHumanVersion() string {
	v := Version
	if VersionPrerelease != "" {
		v += "-" + VersionPrerelease
	}
	if GitCommit != "" {
		v += " (" + GitCommit + ")"
	}
	return v
}
