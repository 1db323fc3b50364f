// Package testdoubles provides test doubles (spies, stubs, dummies) for domain
// interfaces. These are hand-crafted implementations, no mock frameworks.
package testdoubles

import (
	"context"
	"fmt"

	"github.com/rios0rios0/bumper/domain"
)

// ---------------------------------------------------------------------------
// SpyVersionProvider
// ---------------------------------------------------------------------------

// SpyVersionProvider implements domain.VersionProvider as a configurable spy.
// Configure the response fields for the methods your test exercises,
// then inspect the call-tracking fields to verify behavior.
type SpyVersionProvider struct {
	// --- identity ---
	ProviderName string

	// --- LatestVersion ---
	LatestVersions map[string]string // package -> newest version
	LatestErr      error
	// spy: packages that were resolved
	ResolvedPackages []string

	// --- Changelog ---
	ChangelogEntries map[string][]domain.ChangelogEntry // package -> entries
	ChangelogErr     error
	// spy: changelog lookups received
	ChangelogCalls []ChangelogCall
}

// ChangelogCall records a single invocation of Changelog.
type ChangelogCall struct {
	Package     string
	FromVersion string
	ToVersion   string
}

var _ domain.VersionProvider = (*SpyVersionProvider)(nil)

func (p *SpyVersionProvider) Name() string {
	if p.ProviderName != "" {
		return p.ProviderName
	}
	return "spy"
}

func (p *SpyVersionProvider) LatestVersion(_ context.Context, pkg string) (string, error) {
	p.ResolvedPackages = append(p.ResolvedPackages, pkg)
	if p.LatestErr != nil {
		return "", p.LatestErr
	}
	if version, ok := p.LatestVersions[pkg]; ok {
		return version, nil
	}
	return "", fmt.Errorf("package %q: %w", pkg, domain.ErrPackageNotFound)
}

func (p *SpyVersionProvider) Changelog(
	_ context.Context,
	pkg, fromVersion, toVersion string,
) ([]domain.ChangelogEntry, error) {
	p.ChangelogCalls = append(p.ChangelogCalls, ChangelogCall{
		Package:     pkg,
		FromVersion: fromVersion,
		ToVersion:   toVersion,
	})
	if p.ChangelogErr != nil {
		return nil, p.ChangelogErr
	}
	return p.ChangelogEntries[pkg], nil
}

// ---------------------------------------------------------------------------
// SpyBumper
// ---------------------------------------------------------------------------

// SpyBumper implements domain.Bumper as a configurable spy.
type SpyBumper struct {
	// --- identity ---
	BumperName  string
	LikesResult bool

	// --- ResolveVersion ---
	ResolvedVersion string
	ResolveErr      error
	// spy: requests received
	ResolveCalls []ResolveCall

	// --- BuildChange ---
	Change         *domain.Change
	BuildChangeErr error
	// spy: packages a change was built for
	BuiltPackages []string
}

// ResolveCall records a single invocation of ResolveVersion.
type ResolveCall struct {
	Package   string
	Requested string
}

var _ domain.Bumper = (*SpyBumper)(nil)

func (b *SpyBumper) Name() string {
	if b.BumperName != "" {
		return b.BumperName
	}
	return "spy"
}

func (b *SpyBumper) Likes(_ string) bool { return b.LikesResult }

func (b *SpyBumper) ResolveVersion(
	_ context.Context,
	pkg, requested string,
) (string, error) {
	b.ResolveCalls = append(b.ResolveCalls, ResolveCall{Package: pkg, Requested: requested})
	return b.ResolvedVersion, b.ResolveErr
}

func (b *SpyBumper) BuildChange(
	_ context.Context,
	_ *domain.RequirementSpec,
	pkg, _ string,
	_ bool,
) (*domain.Change, error) {
	b.BuiltPackages = append(b.BuiltPackages, pkg)
	return b.Change, b.BuildChangeErr
}

// ---------------------------------------------------------------------------
// DummyVersionProvider (satisfies the interface but does nothing)
// ---------------------------------------------------------------------------

// DummyVersionProvider is a no-op implementation of domain.VersionProvider.
// Use it only for interface compliance tests or as a placeholder.
type DummyVersionProvider struct{}

var _ domain.VersionProvider = (*DummyVersionProvider)(nil)

func (d *DummyVersionProvider) Name() string { return "dummy" }

func (d *DummyVersionProvider) LatestVersion(_ context.Context, _ string) (string, error) {
	return "", nil
}

func (d *DummyVersionProvider) Changelog(
	_ context.Context,
	_, _, _ string,
) ([]domain.ChangelogEntry, error) {
	return nil, nil
}
