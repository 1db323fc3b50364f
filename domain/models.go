package domain

// Operator is a version comparator recognized in a requirement line.
type Operator string

const (
	OpExact      Operator = "=="
	OpMin        Operator = ">="
	OpMax        Operator = "<="
	OpCompatible Operator = "~="
	OpGreater    Operator = ">"
	OpLess       Operator = "<"
	OpNone       Operator = "" // bare package name, no constraint
)

// LatestVersion is the sentinel desired version that asks the
// VersionProvider for the newest published version.
const LatestVersion = "latest"

// RequirementSpec is one parsed constraint line from a requirements document.
type RequirementSpec struct {
	Name      string   // Normalized package name (lowercase, separators folded)
	Operator  Operator // Comparator, OpNone for a bare name
	Version   string   // Constraint version, empty when Operator is OpNone
	RawText   string   // Original line, byte-for-byte
	LineIndex int      // Position in the owning document
	Document  string   // Path of the document that physically declares the line
}

// String renders the logical constraint (name + operator + version),
// without the surrounding formatting of the raw line.
func (s *RequirementSpec) String() string {
	if s.Operator == OpNone {
		return s.Name
	}
	return s.Name + string(s.Operator) + s.Version
}

// VersionTarget is one requested bump.
type VersionTarget struct {
	Name             string // Normalized package name
	DesiredVersion   string // Specific version, or LatestVersion
	IncludeChangelog bool
	// ExplicitVersion marks a user-pinned version. An explicitly pinned
	// lower version is an intentional downgrade; a "latest" lookup that
	// resolves lower is not.
	ExplicitVersion bool
}

// ChangelogEntry is one human-readable change description for a version.
type ChangelogEntry struct {
	Version string
	Text    string
}

// Change is the result of one applied bump.
type Change struct {
	Name             string
	PreviousVersion  string // Empty when the package had no version constraint
	NewVersion       string
	IsDowngrade      bool
	ChangelogEntries []ChangelogEntry // Oldest affecting version first; may be empty
	RewrittenLine    string
	Document         string // Empty for ad-hoc bumps with no document
}

// PackageState tracks a requested package through one driver run.
type PackageState string

const (
	StatePending  PackageState = "PENDING"
	StateBumped   PackageState = "BUMPED"
	StateVerified PackageState = "VERIFIED"
	StateSkipped  PackageState = "SKIPPED"
)

// SkippedPackage records a requested package that could not be bumped.
type SkippedPackage struct {
	Name   string
	Reason string
}

// UnresolvedRequirement records a declared constraint left unsatisfied
// after all requested bumps were applied. It is a bump candidate reported
// to the caller, never executed automatically.
type UnresolvedRequirement struct {
	Name             string
	Constraint       string // The violated constraint, e.g. "pkga>=1.2"
	CurrentVersion   string // Version the constraint was checked against
	SuggestedVersion string // Minimal satisfying version, empty when not computable
	Document         string
}

// Result is the outcome of one driver run. Changes is never nil: an empty
// slice means no changes were necessary or possible.
type Result struct {
	Changes    []Change
	Skipped    []SkippedPackage
	Unresolved []UnresolvedRequirement
	Warnings   []string
}
