package domain

import "context"

// VersionProvider abstracts a package index (PyPI by default). It resolves
// the newest published version of a package and the changelog text between
// two versions. Network retries and backoff are the provider's concern;
// callers treat every method as a blocking call.
type VersionProvider interface {
	// Name returns the provider identifier (e.g. "pypi").
	Name() string

	// LatestVersion returns the newest published version for a package.
	// Returns an error wrapping ErrPackageNotFound for unknown packages.
	LatestVersion(ctx context.Context, pkg string) (string, error)

	// Changelog returns the change descriptions between fromVersion
	// (exclusive) and toVersion (inclusive), oldest affecting version
	// first. An empty slice is a valid result: many packages publish no
	// discoverable changelog.
	Changelog(ctx context.Context, pkg, fromVersion, toVersion string) ([]ChangelogEntry, error)
}
