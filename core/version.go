package core

// Version, BuildTime and GitCommit are set at build time:
//
//	go build -ldflags "-X pdf_summarizer/core.Version=$(git describe --tags --always)" .
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// GetVersionInfo returns a formatted version information string.
//
//	"v1.0.0 (built 2024-01-15T10:30:00Z, commit abc1234)"
func GetVersionInfo() string {
	return Version + " (built " + BuildTime + ", commit " + GitCommit + ")"
}
