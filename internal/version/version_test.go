package version

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetVersion(t *testing.T) {
	t.Cleanup(ResetBuildVars)

	tests := []struct {
		name          string
		version       string
		commit        string
		buildTime     string
		wantCommit    string
		wantBuildTime string
	}{
		{name: "all values set", version: "v1.0.0", commit: "abc123", buildTime: "2025-01-01T00:00:00Z", wantCommit: "abc123", wantBuildTime: "2025-01-01T00:00:00Z"},
		{name: "only version", version: "v2.0.0", wantCommit: DefaultCommit, wantBuildTime: DefaultBuildTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetBuildVars(tt.version, tt.commit, tt.buildTime)
			info := GetVersion()
			assert.Equal(t, tt.version, info.Version)
			assert.Equal(t, tt.wantCommit, info.Commit)
			assert.Equal(t, tt.wantBuildTime, info.BuildTime)
			assert.NotEmpty(t, info.GoVersion)
			assert.False(t, info.IsDevelopment())
		})
	}
}

func TestGetVersion_Defaults(t *testing.T) {
	ResetBuildVars()
	info := GetVersion()
	assert.NotEmpty(t, info.Version, "falls back to the module version or dev")
	assert.Equal(t, DefaultCommit, info.Commit)
	assert.Equal(t, DefaultBuildTime, info.BuildTime)
}

func TestVersionInfo_Write(t *testing.T) {
	info := &VersionInfo{Version: "v1.2.3", Commit: "abc", BuildTime: "2025-01-01T00:00:00Z", GoVersion: "go1.24.6"}

	var short bytes.Buffer
	require.NoError(t, info.Write(&short, true))
	assert.Equal(t, "v1.2.3\n", short.String())

	var full bytes.Buffer
	require.NoError(t, info.Write(&full, false))
	assert.Equal(t, "phpcsutils\nVersion: v1.2.3\nCommit: abc\nBuilt: 2025-01-01T00:00:00Z\nGo: go1.24.6\n", full.String())
}

func TestVersionInfo_GetBuildTime(t *testing.T) {
	tests := []struct {
		buildTime string
		want      time.Time
	}{
		{buildTime: "2025-01-01T10:00:00Z", want: time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)},
		{buildTime: "2025-01-02", want: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)},
		{buildTime: DefaultBuildTime},
		{buildTime: "yesterday"},
	}

	for _, tt := range tests {
		t.Run(tt.buildTime, func(t *testing.T) {
			got := (&VersionInfo{BuildTime: tt.buildTime}).GetBuildTime()
			assert.True(t, tt.want.Equal(got), "got %v", got)
		})
	}
}
