package repodata

import (
	"strings"

	"github.com/condameta/conda-meta-mcp/internal/toolerr"
)

// MatchSpec is a parsed conda match specification: a package name with an
// optional version constraint and an optional build string. Supported forms:
//
//	numpy
//	numpy>=1.20
//	numpy=1.20.3
//	numpy=1.20.*
//	numpy=1.20.3=py38h550f1ac_0
//	numpy>=1.20,<2
type MatchSpec struct {
	Name        string
	constraints []versionConstraint
	build       string
}

type versionConstraint struct {
	op      string
	version string
}

var constraintOps = []string{">=", "<=", "==", "!=", ">", "<"}

// ParseMatchSpec parses a match specification string.
func ParseMatchSpec(spec string) (MatchSpec, error) {
	spec = strings.TrimSpace(strings.ReplaceAll(spec, " ", ""))
	if spec == "" {
		return MatchSpec{}, toolerr.Validationf("spec must be a non-empty string")
	}

	// Name runs until the first operator character.
	nameEnd := strings.IndexAny(spec, "=<>!")
	if nameEnd == 0 {
		return MatchSpec{}, toolerr.Validationf("spec %q has no package name", spec)
	}
	if nameEnd < 0 {
		return MatchSpec{Name: strings.ToLower(spec)}, nil
	}

	m := MatchSpec{Name: strings.ToLower(spec[:nameEnd])}
	rest := spec[nameEnd:]

	// The "name=version=build" form carries the build string after a second
	// bare equals sign.
	if strings.HasPrefix(rest, "=") && !strings.HasPrefix(rest, "==") {
		parts := strings.SplitN(rest[1:], "=", 2)
		if len(parts) == 2 {
			m.build = parts[1]
		}
		rest = "=" + parts[0]
	}

	for _, clause := range strings.Split(rest, ",") {
		c, err := parseConstraint(clause)
		if err != nil {
			return MatchSpec{}, err
		}
		m.constraints = append(m.constraints, c)
	}

	return m, nil
}

func parseConstraint(clause string) (versionConstraint, error) {
	for _, op := range constraintOps {
		if strings.HasPrefix(clause, op) {
			v := clause[len(op):]
			if v == "" {
				return versionConstraint{}, toolerr.Validationf("constraint %q has no version", clause)
			}
			return versionConstraint{op: op, version: v}, nil
		}
	}

	if strings.HasPrefix(clause, "=") {
		v := clause[1:]
		if v == "" {
			return versionConstraint{}, toolerr.Validationf("constraint %q has no version", clause)
		}
		// A single equals is a prefix match: =1.20 matches 1.20.3.
		return versionConstraint{op: "=", version: v}, nil
	}

	return versionConstraint{}, toolerr.Validationf("unsupported version constraint %q", clause)
}

// Matches reports whether record satisfies the match spec.
func (m MatchSpec) Matches(r PackageRecord) bool {
	if !strings.EqualFold(m.Name, r.Name) {
		return false
	}

	for _, c := range m.constraints {
		if !c.matches(r.Version) {
			return false
		}
	}

	if m.build != "" && !globMatch(m.build, r.Build) {
		return false
	}

	return true
}

func (c versionConstraint) matches(version string) bool {
	switch c.op {
	case "=":
		// Bare equals is a prefix match whether or not a trailing star is
		// spelled out: =1.20 and =1.20.* both match 1.20.3.
		want := strings.TrimSuffix(c.version, "*")
		want = strings.TrimSuffix(want, ".")
		return version == want || strings.HasPrefix(version, want+".")
	case "==":
		return CompareVersions(version, c.version) == 0
	case "!=":
		return CompareVersions(version, c.version) != 0
	case ">":
		return CompareVersions(version, c.version) > 0
	case ">=":
		return CompareVersions(version, c.version) >= 0
	case "<":
		return CompareVersions(version, c.version) < 0
	case "<=":
		return CompareVersions(version, c.version) <= 0
	default:
		return false
	}
}

// globMatch supports the trailing-star globs that appear in build strings.
func globMatch(pattern, s string) bool {
	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(s, strings.TrimSuffix(pattern, "*"))
	}
	return pattern == s
}
