package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/rios0rios0/bumper/domain"
)

// RequirementSpecBuilder helps create test requirement specs with a fluent interface.
type RequirementSpecBuilder struct {
	*testkit.BaseBuilder
	name      string
	operator  domain.Operator
	version   string
	rawText   string
	lineIndex int
	document  string
}

// NewRequirementSpecBuilder creates a new requirement spec builder with sensible defaults.
func NewRequirementSpecBuilder() *RequirementSpecBuilder {
	return &RequirementSpecBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		name:        "test-package",
		operator:    domain.OpExact,
		version:     "1.0.0",
		rawText:     "test-package==1.0.0",
		lineIndex:   0,
		document:    "requirements.txt",
	}
}

// WithName sets the normalized package name.
func (b *RequirementSpecBuilder) WithName(name string) *RequirementSpecBuilder {
	b.name = name
	return b
}

// WithOperator sets the version comparator.
func (b *RequirementSpecBuilder) WithOperator(operator domain.Operator) *RequirementSpecBuilder {
	b.operator = operator
	return b
}

// WithVersion sets the constraint version.
func (b *RequirementSpecBuilder) WithVersion(version string) *RequirementSpecBuilder {
	b.version = version
	return b
}

// WithRawText sets the original line text.
func (b *RequirementSpecBuilder) WithRawText(rawText string) *RequirementSpecBuilder {
	b.rawText = rawText
	return b
}

// WithLineIndex sets the line position in the owning document.
func (b *RequirementSpecBuilder) WithLineIndex(lineIndex int) *RequirementSpecBuilder {
	b.lineIndex = lineIndex
	return b
}

// WithDocument sets the declaring document path.
func (b *RequirementSpecBuilder) WithDocument(document string) *RequirementSpecBuilder {
	b.document = document
	return b
}

// Build creates the requirement spec (satisfies testkit.Builder interface).
func (b *RequirementSpecBuilder) Build() interface{} {
	return b.BuildRequirementSpec()
}

// BuildRequirementSpec creates the requirement spec with a concrete return type.
func (b *RequirementSpecBuilder) BuildRequirementSpec() *domain.RequirementSpec {
	return &domain.RequirementSpec{
		Name:      b.name,
		Operator:  b.operator,
		Version:   b.version,
		RawText:   b.rawText,
		LineIndex: b.lineIndex,
		Document:  b.document,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *RequirementSpecBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.name = "test-package"
	b.operator = domain.OpExact
	b.version = "1.0.0"
	b.rawText = "test-package==1.0.0"
	b.lineIndex = 0
	b.document = "requirements.txt"
	return b
}

// Clone creates a deep copy of the RequirementSpecBuilder.
func (b *RequirementSpecBuilder) Clone() testkit.Builder {
	return &RequirementSpecBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		name:        b.name,
		operator:    b.operator,
		version:     b.version,
		rawText:     b.rawText,
		lineIndex:   b.lineIndex,
		document:    b.document,
	}
}
