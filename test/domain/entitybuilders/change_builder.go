package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/rios0rios0/bumper/domain"
)

// ChangeBuilder helps create test changes with a fluent interface.
type ChangeBuilder struct {
	*testkit.BaseBuilder
	name            string
	previousVersion string
	newVersion      string
	isDowngrade     bool
	entries         []domain.ChangelogEntry
	rewrittenLine   string
	document        string
}

// NewChangeBuilder creates a new change builder with sensible defaults.
func NewChangeBuilder() *ChangeBuilder {
	return &ChangeBuilder{
		BaseBuilder:     testkit.NewBaseBuilder(),
		name:            "test-package",
		previousVersion: "1.0.0",
		newVersion:      "2.0.0",
		rewrittenLine:   "test-package==2.0.0",
		document:        "requirements.txt",
	}
}

// WithName sets the package name.
func (b *ChangeBuilder) WithName(name string) *ChangeBuilder {
	b.name = name
	return b
}

// WithPreviousVersion sets the version before the bump.
func (b *ChangeBuilder) WithPreviousVersion(version string) *ChangeBuilder {
	b.previousVersion = version
	return b
}

// WithNewVersion sets the version after the bump.
func (b *ChangeBuilder) WithNewVersion(version string) *ChangeBuilder {
	b.newVersion = version
	return b
}

// AsDowngrade marks the change as a downgrade.
func (b *ChangeBuilder) AsDowngrade() *ChangeBuilder {
	b.isDowngrade = true
	return b
}

// WithChangelogEntry appends one changelog entry.
func (b *ChangeBuilder) WithChangelogEntry(version, text string) *ChangeBuilder {
	b.entries = append(b.entries, domain.ChangelogEntry{Version: version, Text: text})
	return b
}

// WithRewrittenLine sets the rewritten requirement line.
func (b *ChangeBuilder) WithRewrittenLine(line string) *ChangeBuilder {
	b.rewrittenLine = line
	return b
}

// WithDocument sets the declaring document path.
func (b *ChangeBuilder) WithDocument(document string) *ChangeBuilder {
	b.document = document
	return b
}

// Build creates the change (satisfies testkit.Builder interface).
func (b *ChangeBuilder) Build() interface{} {
	return b.BuildChange()
}

// BuildChange creates the change with a concrete return type.
func (b *ChangeBuilder) BuildChange() *domain.Change {
	return &domain.Change{
		Name:             b.name,
		PreviousVersion:  b.previousVersion,
		NewVersion:       b.newVersion,
		IsDowngrade:      b.isDowngrade,
		ChangelogEntries: b.entries,
		RewrittenLine:    b.rewrittenLine,
		Document:         b.document,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *ChangeBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.name = "test-package"
	b.previousVersion = "1.0.0"
	b.newVersion = "2.0.0"
	b.isDowngrade = false
	b.entries = nil
	b.rewrittenLine = "test-package==2.0.0"
	b.document = "requirements.txt"
	return b
}

// Clone creates a deep copy of the ChangeBuilder.
func (b *ChangeBuilder) Clone() testkit.Builder {
	entries := make([]domain.ChangelogEntry, len(b.entries))
	copy(entries, b.entries)
	return &ChangeBuilder{
		BaseBuilder:     b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		name:            b.name,
		previousVersion: b.previousVersion,
		newVersion:      b.newVersion,
		isDowngrade:     b.isDowngrade,
		entries:         entries,
		rewrittenLine:   b.rewrittenLine,
		document:        b.document,
	}
}
