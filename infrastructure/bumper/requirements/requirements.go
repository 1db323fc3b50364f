// Package requirements implements the Bumper dialects for line-oriented
// requirements documents: the plain dialect keeps whatever comparator a
// line already declares, while the pinned dialect always pins exact
// versions (leaf products track exact versions of everything they use).
package requirements

import (
	"context"
	"fmt"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/bumper/domain"
)

const (
	dialectRequirements = "requirements"
	dialectPinned       = "pinned"
)

// Bumper computes rewritten constraint lines for one dialect.
type Bumper struct {
	provider domain.VersionProvider
	dialect  string
	pin      bool
}

// New creates the plain requirements dialect (requirements.txt).
func New(provider domain.VersionProvider) domain.Bumper {
	return &Bumper{provider: provider, dialect: dialectRequirements}
}

// NewPinned creates the pinning dialect (pinned.txt).
func NewPinned(provider domain.VersionProvider) domain.Bumper {
	return &Bumper{provider: provider, dialect: dialectPinned, pin: true}
}

func (b *Bumper) Name() string { return b.dialect }

// Likes reports whether this dialect handles the given document path.
func (b *Bumper) Likes(target string) bool {
	if b.pin {
		return strings.HasSuffix(target, "pinned.txt")
	}
	return strings.HasSuffix(target, "requirements.txt")
}

// ResolveVersion resolves the requested version: LatestVersion asks the
// provider for the newest published version, anything else is used verbatim.
func (b *Bumper) ResolveVersion(ctx context.Context, pkg, requested string) (string, error) {
	if requested != domain.LatestVersion {
		return requested, nil
	}

	version, err := b.provider.LatestVersion(ctx, pkg)
	if err != nil {
		return "", fmt.Errorf("resolving latest version of %q: %w", pkg, err)
	}
	if version == "" {
		return "", fmt.Errorf("no published version for %q: %w", pkg, domain.ErrVersionNotFound)
	}
	return version, nil
}

// BuildChange produces the Change for bumping pkg to resolved, or nil when
// the declared constraint already carries that exact version.
func (b *Bumper) BuildChange(
	ctx context.Context,
	existing *domain.RequirementSpec,
	pkg, resolved string,
	includeChangelog bool,
) (*domain.Change, error) {
	change := &domain.Change{
		Name:       pkg,
		NewVersion: resolved,
	}

	if existing == nil {
		change.RewrittenLine = pkg + string(domain.OpExact) + resolved
	} else {
		change.PreviousVersion = existing.Version
		change.Document = existing.Document

		op := b.operatorFor(existing)
		if existing.Version == resolved && existing.Operator == op {
			return nil, nil // already satisfied, nothing to rewrite
		}

		rewritten, ok := domain.RewriteLine(existing.RawText, op, resolved)
		if !ok {
			return nil, fmt.Errorf("cannot rewrite malformed requirement line %q", existing.RawText)
		}
		change.RewrittenLine = rewritten

		if existing.Version != "" {
			change.IsDowngrade = domain.CompareVersions(resolved, existing.Version) < 0
		}
	}

	if includeChangelog {
		change.ChangelogEntries = b.changelog(ctx, pkg, change.PreviousVersion, resolved)
	}

	return change, nil
}

// operatorFor picks the comparator for the rewritten line: the pinned
// dialect always pins, the plain dialect keeps the declared comparator and
// defaults to an exact pin for bare names.
func (b *Bumper) operatorFor(existing *domain.RequirementSpec) domain.Operator {
	if b.pin || existing.Operator == domain.OpNone {
		return domain.OpExact
	}
	return existing.Operator
}

// changelog fetches entries between the two versions. Missing changelog
// data never fails a bump; the entries stay empty.
func (b *Bumper) changelog(ctx context.Context, pkg, from, to string) []domain.ChangelogEntry {
	if from == "" {
		return nil
	}

	entries, err := b.provider.Changelog(ctx, pkg, from, to)
	if err != nil {
		logger.Debugf("Could not fetch changelog for %s (%s -> %s): %v", pkg, from, to, err)
		return nil
	}
	return entries
}
