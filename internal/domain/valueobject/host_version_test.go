package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHostVersion(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "full version", raw: "3.7.1", want: "3.7.1"},
		{name: "v prefix", raw: "v3.5.3", want: "3.5.3"},
		{name: "short version is canonicalised", raw: "3.7", want: "3.7.0"},
		{name: "surrounding whitespace", raw: "  4.0.0 ", want: "4.0.0"},
		{name: "prerelease", raw: "3.8.0-RC1", want: "3.8.0-RC1"},
		{name: "empty", raw: "", wantErr: true},
		{name: "garbage", raw: "three.seven", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := NewHostVersion(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, v.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.String())
		})
	}
}

func TestHostVersion_Compare(t *testing.T) {
	older := MustHostVersion("3.5.2")
	newer := MustHostVersion("3.7.1")

	assert.Equal(t, -1, older.Compare(newer))
	assert.Equal(t, 1, newer.Compare(older))
	assert.Equal(t, 0, newer.Compare(MustHostVersion("v3.7.1")))
	assert.True(t, HostVersion{}.Less(older), "unknown sorts first")
	assert.Equal(t, 0, HostVersion{}.Compare(HostVersion{}))
}

func TestVersionRange_Contains(t *testing.T) {
	tests := []struct {
		name    string
		rng     string
		version string
		want    bool
	}{
		{name: "below upper bound", rng: "<3.7.1", version: "3.7.0", want: true},
		{name: "at upper bound", rng: "<3.7.1", version: "3.7.1", want: false},
		{name: "inside closed range", rng: ">=3.5.3 <3.5.5", version: "3.5.4", want: true},
		{name: "below closed range", rng: ">=3.5.3 <3.5.5", version: "3.5.2", want: false},
		{name: "bare version means equality", rng: "3.6.0", version: "3.6.0", want: true},
		{name: "not equal", rng: "!=3.6.0", version: "3.6.1", want: true},
		{name: "inclusive upper", rng: "<=3.6.0", version: "3.6.0", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParseVersionRange(tt.rng)
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.Contains(MustHostVersion(tt.version)))
		})
	}
}

func TestVersionRange_UnknownVersionNeverMatches(t *testing.T) {
	r, err := ParseVersionRange("<99.0.0")
	require.NoError(t, err)
	assert.False(t, r.Contains(HostVersion{}))
}

func TestParseVersionRange_Errors(t *testing.T) {
	_, err := ParseVersionRange("   ")
	require.Error(t, err)

	_, err = ParseVersionRange("<abc")
	require.Error(t, err)
}
