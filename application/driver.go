// Package application orchestrates bump runs: it owns the two-phase
// algorithm (apply every requested bump at most once, then re-verify the
// remaining declared requirements) that replaces the historical
// re-bump-on-discovery recursion and its dependency-looping failure mode.
package application

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/bumper/domain"
	bumperPkg "github.com/rios0rios0/bumper/infrastructure/bumper"
	"github.com/rios0rios0/bumper/infrastructure/document"
)

// BumpOptions holds runtime options for a single bump run.
type BumpOptions struct {
	AllowDowngrades  bool // Permit bumps that lower a declared version
	AddMissing       bool // Append requirements absent from every document
	IncludeChangelog bool // Attach changelog entries to each change
}

// BumperDriver coordinates one bump run across a document set, or a single
// ad-hoc package/version pair when no document is given.
type BumperDriver struct {
	registry *bumperPkg.Registry
}

// NewBumperDriver creates a driver over the given dialect registry.
func NewBumperDriver(registry *bumperPkg.Registry) *BumperDriver {
	return &BumperDriver{registry: registry}
}

// Bump applies the requested version targets to the document set. docs may
// be nil for ad-hoc bumps. Each package is bumped at most once per run no
// matter how many times it is requested or referenced; after all bumps are
// applied, every remaining declared requirement is re-checked and reported
// rather than recursively re-bumped. Per-package provider failures are
// recorded as skips, never returned as errors; only document I/O fails the
// run as a whole.
func (d *BumperDriver) Bump(
	ctx context.Context,
	docs *document.Set,
	targets []domain.VersionTarget,
	opts BumpOptions,
) (*domain.Result, error) {
	result := &domain.Result{Changes: []domain.Change{}}

	if len(targets) == 0 && docs != nil {
		targets = implicitTargets(docs, opts)
	}
	targets = dedupeTargets(targets)

	states := make(map[string]domain.PackageState, len(targets))
	bumpedVersions := make(map[string]string)
	downgraded := make(map[string]bool)

	for _, target := range targets {
		states[target.Name] = domain.StatePending
		d.applyTarget(ctx, docs, target, opts, result, states, bumpedVersions, downgraded)
	}

	if docs != nil {
		d.verify(docs, result, states, bumpedVersions, downgraded)
	}

	return result, nil
}

// applyTarget performs the apply phase for one requested package.
func (d *BumperDriver) applyTarget(
	ctx context.Context,
	docs *document.Set,
	target domain.VersionTarget,
	opts BumpOptions,
	result *domain.Result,
	states map[string]domain.PackageState,
	bumpedVersions map[string]string,
	downgraded map[string]bool,
) {
	logger.Infof("Checking %s", target.Name)

	var existing *domain.RequirementSpec
	if docs != nil {
		existing = docs.Find(target.Name)
	}

	bumper := d.bumperFor(existing)
	if bumper == nil {
		skip(result, states, target.Name, "no bumper registered for this document dialect")
		return
	}

	resolved, err := bumper.ResolveVersion(ctx, target.Name, target.DesiredVersion)
	if err != nil {
		skip(result, states, target.Name, err.Error())
		return
	}

	// A downgrade must be asked for. An explicitly pinned lower version is
	// an explicit request; "latest" resolving below the declared version
	// is not, and is refused unless downgrades were permitted.
	if existing != nil && existing.Version != "" &&
		domain.CompareVersions(resolved, existing.Version) < 0 &&
		!target.ExplicitVersion && !opts.AllowDowngrades {
		skip(result, states, target.Name, fmt.Sprintf(
			"resolves to %s, below declared %s (downgrades not permitted)",
			resolved, existing.Version,
		))
		return
	}

	change, err := bumper.BuildChange(ctx, existing, target.Name, resolved, target.IncludeChangelog)
	if err != nil {
		skip(result, states, target.Name, err.Error())
		return
	}
	if change == nil {
		// Already at the requested version; nothing to rewrite.
		states[target.Name] = domain.StateVerified
		return
	}

	switch {
	case existing != nil:
		docs.Rewrite(existing, change.RewrittenLine)
	case docs != nil && opts.AddMissing:
		docs.Append(change.RewrittenLine)
		change.Document = docs.Root()
	case docs != nil:
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"no requirement for %q declared in %v; bumped ad hoc", target.Name, docs.Paths(),
		))
	}

	states[target.Name] = domain.StateBumped
	bumpedVersions[target.Name] = resolved
	if change.IsDowngrade {
		downgraded[target.Name] = true
	}
	result.Changes = append(result.Changes, *change)
}

// verify re-scans every declared requirement after all bumps were applied
// and flags anything still unsatisfied. Requirements naming a package that
// was not bumped become UNRESOLVED candidates; they are reported, never
// bumped automatically. Packages that were intentionally downgraded skip
// re-validation entirely.
func (d *BumperDriver) verify(
	docs *document.Set,
	result *domain.Result,
	states map[string]domain.PackageState,
	bumpedVersions map[string]string,
	downgraded map[string]bool,
) {
	specs := docs.Flattened()
	currentVersions := declaredVersions(specs, bumpedVersions)

	for _, spec := range specs {
		if spec.Operator == domain.OpNone || downgraded[spec.Name] {
			continue
		}

		current, known := currentVersions[spec.Name]
		if !known {
			current = spec.Version
		}
		if spec.SatisfiedBy(current) {
			continue
		}

		if _, wasBumped := bumpedVersions[spec.Name]; wasBumped {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"requirement %q is not satisfied by bumped version %s", spec.String(), current,
			))
			continue
		}

		logger.Warnf("Requirement %q is not satisfied by current version %s", spec.String(), current)
		result.Unresolved = append(result.Unresolved, domain.UnresolvedRequirement{
			Name:             spec.Name,
			Constraint:       spec.String(),
			CurrentVersion:   current,
			SuggestedVersion: spec.SuggestedVersion(),
			Document:         spec.Document,
		})
	}

	for name, state := range states {
		if state == domain.StateBumped {
			states[name] = domain.StateVerified
		}
	}
}

// declaredVersions maps each package to its now-current version: the
// just-applied new version when it was bumped, otherwise the version
// declared by an exact pin.
func declaredVersions(
	specs []*domain.RequirementSpec,
	bumpedVersions map[string]string,
) map[string]string {
	current := make(map[string]string, len(bumpedVersions))
	for name, version := range bumpedVersions {
		current[name] = version
	}

	for _, spec := range specs {
		if spec.Operator != domain.OpExact {
			continue
		}
		if _, ok := current[spec.Name]; !ok {
			current[spec.Name] = spec.Version
		}
	}
	return current
}

// bumperFor selects the dialect by the document that declares the
// requirement, falling back to the default dialect for ad-hoc bumps.
func (d *BumperDriver) bumperFor(existing *domain.RequirementSpec) domain.Bumper {
	if existing != nil {
		if bumper := d.registry.ForTarget(existing.Document); bumper != nil {
			return bumper
		}
	}
	return d.registry.Default()
}

// implicitTargets synthesizes a bump-to-latest target for every
// exact-pinned requirement when the caller requested no packages.
func implicitTargets(docs *document.Set, opts BumpOptions) []domain.VersionTarget {
	var targets []domain.VersionTarget
	for _, spec := range docs.Flattened() {
		if spec.Operator != domain.OpExact {
			continue
		}
		targets = append(targets, domain.VersionTarget{
			Name:             spec.Name,
			DesiredVersion:   domain.LatestVersion,
			IncludeChangelog: opts.IncludeChangelog,
		})
	}
	return targets
}

// dedupeTargets drops duplicate requests for the same normalized package
// name; the first request wins and request order defines change order.
func dedupeTargets(targets []domain.VersionTarget) []domain.VersionTarget {
	seen := make(map[string]bool, len(targets))
	deduped := make([]domain.VersionTarget, 0, len(targets))

	for _, target := range targets {
		if seen[target.Name] {
			logger.Debugf("Dropping duplicate bump request for %s", target.Name)
			continue
		}
		seen[target.Name] = true
		deduped = append(deduped, target)
	}
	return deduped
}

func skip(
	result *domain.Result,
	states map[string]domain.PackageState,
	name, reason string,
) {
	logger.Warnf("Skipping %s: %s", name, reason)
	states[name] = domain.StateSkipped
	result.Skipped = append(result.Skipped, domain.SkippedPackage{Name: name, Reason: reason})
}
