// Package settings provides build metadata, per-run options, and context
// helpers used across the machq CLI and library packages.
package settings

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "machq"

// VersionInformation is populated at build time via ldflags:
//
//	-X github.com/oakwood-commons/machq/pkg/settings.VersionInformation.Commit=...
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// VersionInfo holds metadata about the build.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// Run holds the options of a single invocation. It travels through the
// command context so subcommands and helpers see the same values.
type Run struct {
	MinLogLevel int8
	NoColor     bool
	Interactive bool
	Output      string
	ExitOnError bool
}

// NewCliParams returns the defaults for a CLI invocation: info logging,
// colored table output and exit on error.
func NewCliParams() *Run {
	return &Run{
		MinLogLevel: 0,
		Output:      "table",
		ExitOnError: true,
	}
}

// LogLevel maps the debug flag to a zap level: -1 (debug) or 0 (info).
func LogLevel(debug bool) int8 {
	if debug {
		return -1
	}
	return 0
}
