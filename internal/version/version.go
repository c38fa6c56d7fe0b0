// Package version holds the aegiscc CLI's build fingerprint.
package version

import "github.com/fatih/color"

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)

	// Version is the semantic version of the CLI, each part colorized. Its
	// initializer calls functions, so -ldflags -X does not override it.
	Version = majorColor.Sprint("0") + "." + minorColor.Sprint("1") + "." + patchColor.Sprint("0") + "-dev"

	// GitCommit is an optional git commit hash, set at build time.
	GitCommit = ""

	// BuildDate is an optional ISO-8601 build timestamp, set at build time.
	BuildDate = ""
)
