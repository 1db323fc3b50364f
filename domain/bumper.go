package domain

import "context"

// Bumper computes the rewritten constraint for one package. One
// implementation exists per requirements-document dialect; the dialect is
// selected by file name through the registry, never by runtime type
// inspection.
type Bumper interface {
	// Name returns the dialect identifier (e.g. "requirements", "pinned").
	Name() string

	// Likes returns true if this bumper handles the given document path.
	Likes(target string) bool

	// ResolveVersion resolves the requested version for a package:
	// LatestVersion asks the VersionProvider, anything else is used
	// verbatim. Returns an error wrapping ErrVersionNotFound or
	// ErrPackageNotFound when the provider cannot resolve the package.
	ResolveVersion(ctx context.Context, pkg, requested string) (string, error)

	// BuildChange produces the Change for bumping pkg to resolved.
	// existing is the currently declared spec, or nil when the package is
	// absent from every document. A nil Change with a nil error means the
	// requirement is already satisfied and nothing needs rewriting.
	// Changelog entries are attached when includeChangelog is set; a
	// provider with no changelog data never fails the bump.
	BuildChange(
		ctx context.Context,
		existing *RequirementSpec,
		pkg, resolved string,
		includeChangelog bool,
	) (*Change, error)
}
