// Package summary renders the outcome of a bump run as a human-readable
// report: applied changes with optional changelog excerpts, skipped
// packages, unsatisfied requirements, and warnings.
package summary

import (
	"fmt"
	"strings"

	"github.com/rios0rios0/bumper/domain"
)

// Options controls how the report is rendered.
type Options struct {
	Detail bool // Include changelog excerpts under each change
	DryRun bool // Mark the report as a preview of unwritten changes
}

// Render builds the report for one run. The result's changes keep their
// request order.
func Render(result *domain.Result, opts Options) string {
	var sb strings.Builder

	if opts.DryRun {
		sb.WriteString("Dry run: no files were written.\n\n")
	}

	writeChanges(&sb, result.Changes, opts.Detail)
	writeSkipped(&sb, result.Skipped)
	writeUnresolved(&sb, result.Unresolved)
	writeWarnings(&sb, result.Warnings)

	return sb.String()
}

func writeChanges(sb *strings.Builder, changes []domain.Change, detail bool) {
	if len(changes) == 0 {
		sb.WriteString("No changes were necessary.\n")
		return
	}

	sb.WriteString(fmt.Sprintf("Applied %d change(s):\n", len(changes)))
	for _, change := range changes {
		sb.WriteString("  " + Describe(&change) + "\n")
		if detail {
			writeChangelog(sb, change.ChangelogEntries)
		}
	}
}

// Describe renders one change as a single line, e.g.
// "Bump alpha from 1.0.0 to 2.0.0 (requirements.txt)".
func Describe(change *domain.Change) string {
	verb := "Bump"
	if change.IsDowngrade {
		verb = "Downgrade"
	}

	line := fmt.Sprintf("%s %s", verb, change.Name)
	if change.PreviousVersion != "" {
		line += fmt.Sprintf(" from %s to %s", change.PreviousVersion, change.NewVersion)
	} else {
		line += fmt.Sprintf(" to %s", change.NewVersion)
	}
	if change.Document != "" {
		line += fmt.Sprintf(" (%s)", change.Document)
	}
	return line
}

func writeChangelog(sb *strings.Builder, entries []domain.ChangelogEntry) {
	if len(entries) == 0 {
		sb.WriteString("    (no changelog found)\n")
		return
	}

	lastVersion := ""
	for _, entry := range entries {
		if entry.Version != lastVersion {
			sb.WriteString("    " + entry.Version + ":\n")
			lastVersion = entry.Version
		}
		sb.WriteString("      " + entry.Text + "\n")
	}
}

func writeSkipped(sb *strings.Builder, skipped []domain.SkippedPackage) {
	if len(skipped) == 0 {
		return
	}

	sb.WriteString(fmt.Sprintf("\nSkipped %d package(s):\n", len(skipped)))
	for _, pkg := range skipped {
		sb.WriteString(fmt.Sprintf("  %s: %s\n", pkg.Name, pkg.Reason))
	}
}

func writeUnresolved(sb *strings.Builder, unresolved []domain.UnresolvedRequirement) {
	if len(unresolved) == 0 {
		return
	}

	sb.WriteString(fmt.Sprintf("\n%d requirement(s) left unsatisfied:\n", len(unresolved)))
	for _, req := range unresolved {
		line := fmt.Sprintf("  %s (currently %s", req.Constraint, req.CurrentVersion)
		if req.SuggestedVersion != "" {
			line += fmt.Sprintf(", consider bumping %s to %s", req.Name, req.SuggestedVersion)
		}
		sb.WriteString(line + ")")
		if req.Document != "" {
			sb.WriteString(" in " + req.Document)
		}
		sb.WriteString("\n")
	}
}

func writeWarnings(sb *strings.Builder, warnings []string) {
	if len(warnings) == 0 {
		return
	}

	sb.WriteString("\nWarnings:\n")
	for _, warning := range warnings {
		sb.WriteString("  " + warning + "\n")
	}
}
