// Package version holds the build information of the phpcsutils binary.
//
// The variables are injected at build time:
//
//	-ldflags "-X phpcsutils/internal/version.version=v1.0.0 -X phpcsutils/internal/version.commit=abc123 -X phpcsutils/internal/version.buildTime=2025-01-01T00:00:00Z"
//
// Without ldflags the module version recorded by the Go toolchain is used when available.
package version

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

//nolint:gochecknoglobals // Required for build-time injection via ldflags.
var (
	version   string
	commit    string
	buildTime string
)

// ApplicationName is the name of the application displayed in version output.
const ApplicationName = "phpcsutils"

// Default values used when version information is not available.
const (
	DefaultVersion   = "dev"
	DefaultCommit    = "unknown"
	DefaultBuildTime = "unknown"
)

// VersionInfo describes one build.
type VersionInfo struct {
	Version   string `json:"version"    yaml:"version"`
	Commit    string `json:"commit"     yaml:"commit"`
	BuildTime string `json:"build_time" yaml:"build_time"`
	GoVersion string `json:"go_version" yaml:"go_version"`
}

// GetVersion returns the build information with defaults filled in.
func GetVersion() *VersionInfo {
	info := &VersionInfo{
		Version:   version,
		Commit:    commit,
		BuildTime: buildTime,
		GoVersion: runtime.Version(),
	}

	if info.Version == "" {
		if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			info.Version = bi.Main.Version
		}
	}
	if info.Version == "" {
		info.Version = DefaultVersion
	}
	if info.Commit == "" {
		info.Commit = DefaultCommit
	}
	if info.BuildTime == "" {
		info.BuildTime = DefaultBuildTime
	}
	return info
}

// FormatShort returns only the version number.
func (vi *VersionInfo) FormatShort() string {
	return vi.Version
}

// FormatFull returns a multi-line description of the build.
func (vi *VersionInfo) FormatFull() string {
	var b strings.Builder
	b.WriteString(ApplicationName + "\n")
	fmt.Fprintf(&b, "Version: %s\n", vi.Version)
	fmt.Fprintf(&b, "Commit: %s\n", vi.Commit)
	fmt.Fprintf(&b, "Built: %s\n", vi.BuildTime)
	fmt.Fprintf(&b, "Go: %s\n", vi.GoVersion)
	return b.String()
}

// Write formats the version based on the short flag and writes to the provided writer.
func (vi *VersionInfo) Write(w io.Writer, short bool) error {
	var err error
	if short {
		_, err = fmt.Fprintln(w, vi.FormatShort())
	} else {
		_, err = fmt.Fprint(w, vi.FormatFull())
	}
	return err
}

// IsDevelopment returns true if the version indicates a development build.
func (vi *VersionInfo) IsDevelopment() bool {
	return vi.Version == DefaultVersion
}

// GetBuildTime parses the build time. It returns the zero time when the value is unknown or
// unparseable.
func (vi *VersionInfo) GetBuildTime() time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, vi.BuildTime); err == nil {
			return t
		}
	}
	return time.Time{}
}

// SetBuildVars sets the build-time variables. It is meant for tests.
func SetBuildVars(ver, com, bt string) {
	version = ver
	commit = com
	buildTime = bt
}

// ResetBuildVars clears the build-time variables.
func ResetBuildVars() {
	SetBuildVars("", "", "")
}
