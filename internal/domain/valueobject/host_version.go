package valueobject

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// HostVersion is the version of the host tool whose tokenizer produced a token stream. It is
// the only configuration input the structural analysis core accepts. The zero value means
// "unknown" and disables every version-keyed compensation.
type HostVersion struct {
	canonical string // semver form, e.g. "v3.7.1"
}

// NewHostVersion parses a version such as "3.7.1", "v3.7" or "3.8.0-RC1".
func NewHostVersion(raw string) (HostVersion, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return HostVersion{}, errors.New("host version cannot be empty")
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return HostVersion{}, fmt.Errorf("invalid host version %q", raw)
	}
	return HostVersion{canonical: semver.Canonical(v)}, nil
}

// MustHostVersion is NewHostVersion for constant inputs; it panics on error.
func MustHostVersion(raw string) HostVersion {
	v, err := NewHostVersion(raw)
	if err != nil {
		panic(err)
	}
	return v
}

// IsZero reports whether the version is unknown.
func (v HostVersion) IsZero() bool { return v.canonical == "" }

// String returns the version without the semver "v" prefix.
func (v HostVersion) String() string {
	return strings.TrimPrefix(v.canonical, "v")
}

// Compare returns -1, 0 or +1. An unknown version sorts before every known one.
func (v HostVersion) Compare(other HostVersion) int {
	switch {
	case v.IsZero() && other.IsZero():
		return 0
	case v.IsZero():
		return -1
	case other.IsZero():
		return 1
	}
	return semver.Compare(v.canonical, other.canonical)
}

// Less reports whether v sorts before other.
func (v HostVersion) Less(other HostVersion) bool { return v.Compare(other) < 0 }

type versionComparator struct {
	op      string
	version HostVersion
}

// VersionRange is a conjunction of comparators such as ">=3.5.3 <3.5.5".
type VersionRange struct {
	raw         string
	comparators []versionComparator
}

// ParseVersionRange parses a space separated list of comparators. Supported operators are
// <, <=, >, >=, = and !=; a bare version means equality.
func ParseVersionRange(raw string) (VersionRange, error) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return VersionRange{}, errors.New("version range cannot be empty")
	}

	r := VersionRange{raw: strings.Join(fields, " ")}
	for _, field := range fields {
		op, rest := splitOperator(field)
		version, err := NewHostVersion(rest)
		if err != nil {
			return VersionRange{}, fmt.Errorf("invalid version range %q: %w", raw, err)
		}
		r.comparators = append(r.comparators, versionComparator{op: op, version: version})
	}
	return r, nil
}

func splitOperator(field string) (string, string) {
	for _, op := range []string{"<=", ">=", "!=", "<", ">", "="} {
		if strings.HasPrefix(field, op) {
			return op, field[len(op):]
		}
	}
	return "=", field
}

// Contains reports whether v satisfies every comparator. An unknown version satisfies nothing.
func (r VersionRange) Contains(v HostVersion) bool {
	if v.IsZero() || len(r.comparators) == 0 {
		return false
	}
	for _, c := range r.comparators {
		cmp := v.Compare(c.version)
		var ok bool
		switch c.op {
		case "<":
			ok = cmp < 0
		case "<=":
			ok = cmp <= 0
		case ">":
			ok = cmp > 0
		case ">=":
			ok = cmp >= 0
		case "!=":
			ok = cmp != 0
		default:
			ok = cmp == 0
		}
		if !ok {
			return false
		}
	}
	return true
}

// String returns the normalised range text.
func (r VersionRange) String() string { return r.raw }
