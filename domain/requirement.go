package domain

import (
	"fmt"
	"regexp"
	"strings"

	masterminds "github.com/Masterminds/semver/v3"
	"golang.org/x/mod/semver"
)

// requirementPattern matches the requirement line grammar:
// optional leading whitespace, a package name, an optional comparator and
// version, optional trailing whitespace and comment. Anything else is an
// opaque line.
var requirementPattern = regexp.MustCompile(
	`^(\s*)([A-Za-z0-9](?:[A-Za-z0-9._-]*[A-Za-z0-9])?)\s*` +
		`(?:(==|>=|<=|~=|>|<)\s*([0-9][0-9A-Za-z._+!*-]*))?(\s*)(#.*)?$`,
)

// NormalizeName folds a package name so that a bump request matches a
// requirement regardless of surface formatting: lowercase, with "_" and "."
// treated as "-".
func NormalizeName(name string) string {
	lowered := strings.ToLower(name)
	lowered = strings.ReplaceAll(lowered, "_", "-")
	return strings.ReplaceAll(lowered, ".", "-")
}

// ParseLine parses one document line into a RequirementSpec. The second
// return value is false for lines that do not match the requirement grammar
// (comments, blanks, free-form text); those are retained verbatim by the
// document layer and never bumped.
func ParseLine(raw string) (*RequirementSpec, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "-") {
		return nil, false
	}

	match := requirementPattern.FindStringSubmatch(raw)
	if match == nil {
		return nil, false
	}

	op := Operator(match[3])
	version := match[4]
	if op != OpNone && version == "" {
		return nil, false
	}

	return &RequirementSpec{
		Name:     NormalizeName(match[2]),
		Operator: op,
		Version:  version,
		RawText:  raw,
	}, true
}

// ParseTarget parses a CLI-style bump request ("requests", "requests==1.2.3",
// "requests>=1.2"). A bare name asks for the latest version; "==" pins an
// explicit version, which also marks an intentional downgrade request.
func ParseTarget(arg string) (VersionTarget, error) {
	match := requirementPattern.FindStringSubmatch(arg)
	if match == nil || strings.TrimSpace(match[6]) != "" {
		return VersionTarget{}, fmt.Errorf("invalid requirement %q", arg)
	}

	target := VersionTarget{
		Name:           NormalizeName(match[2]),
		DesiredVersion: LatestVersion,
	}

	if op := Operator(match[3]); op != OpNone {
		target.DesiredVersion = match[4]
		target.ExplicitVersion = op == OpExact
	}

	return target, nil
}

// CompareVersions orders two version strings semantically: negative when
// a < b, zero when equal, positive when a > b. Non-semver versions fall
// back to lexical ordering.
func CompareVersions(a, b string) int {
	av := normalizeVersion(a)
	bv := normalizeVersion(b)
	if semver.IsValid(av) && semver.IsValid(bv) {
		return semver.Compare(av, bv)
	}
	return strings.Compare(a, b)
}

func normalizeVersion(version string) string {
	version = strings.TrimSpace(version)
	if strings.HasPrefix(version, "v") {
		return version
	}
	return "v" + version
}

// SatisfiedBy reports whether the spec's declared constraint holds against
// the given version of the package it names.
func (s *RequirementSpec) SatisfiedBy(version string) bool {
	switch s.Operator {
	case OpNone:
		return true
	case OpExact:
		if version == s.Version {
			return true
		}
		return CompareVersions(version, s.Version) == 0
	case OpCompatible:
		return compatibleRelease(s.Version, version)
	case OpMin, OpMax, OpGreater, OpLess:
		return comparatorHolds(s.Operator, s.Version, version)
	default:
		return false
	}
}

// SuggestedVersion returns the minimal version that would satisfy the
// constraint, or empty when none is computable (strictly-less / strictly-
// greater comparators have no minimal satisfying version).
func (s *RequirementSpec) SuggestedVersion() string {
	switch s.Operator {
	case OpExact, OpMin, OpMax, OpCompatible:
		return s.Version
	default:
		return ""
	}
}

// comparatorHolds checks a single comparator through Masterminds constraint
// matching, falling back to semantic ordering for versions the constraint
// parser rejects.
func comparatorHolds(op Operator, constraintVersion, version string) bool {
	constraint, err := masterminds.NewConstraint(string(op) + constraintVersion)
	if err == nil {
		if current, verErr := masterminds.NewVersion(version); verErr == nil {
			return constraint.Check(current)
		}
	}

	cmp := CompareVersions(version, constraintVersion)
	switch op {
	case OpMin:
		return cmp >= 0
	case OpMax:
		return cmp <= 0
	case OpGreater:
		return cmp > 0
	case OpLess:
		return cmp < 0
	default:
		return false
	}
}

// compatibleRelease implements the "~=" comparator: at least the given
// version, staying within the release series implied by its precision
// ("~=1.4.2" allows 1.4.x from 1.4.2 up, "~=1.4" allows 1.x from 1.4 up).
func compatibleRelease(constraintVersion, version string) bool {
	current, err := masterminds.NewVersion(version)
	if err != nil {
		return CompareVersions(version, constraintVersion) >= 0
	}

	rangeOp := "^"
	if strings.Count(constraintVersion, ".") >= 2 {
		rangeOp = "~"
	}

	constraint, err := masterminds.NewConstraint(rangeOp + constraintVersion)
	if err != nil {
		return CompareVersions(version, constraintVersion) >= 0
	}

	return constraint.Check(current)
}
