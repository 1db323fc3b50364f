// Package document reads and writes requirements documents as ordered
// sequences of lines. Parsed requirement lines are exposed to the driver
// through a flattened view that honors recursive includes; every other line
// (comments, blanks, malformed declarations, the include directives
// themselves) is opaque and round-trips byte-for-byte.
package document

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/bumper/domain"
)

const fileMode = 0o644

// includePattern matches pip-style recursive include directives.
var includePattern = regexp.MustCompile(`^\s*(?:-r|-c|--requirement|--constraint)[ =]\s*(\S+)`)

// Line is one physical line of a document. Spec is nil for opaque lines.
type Line struct {
	Raw  string
	Spec *domain.RequirementSpec
}

// Document is one physical requirements file.
type Document struct {
	Path  string
	Lines []Line

	trailingNewline bool
	dirty           bool
}

// Content renders the document back to its textual form. Untouched lines
// are reproduced exactly as read.
func (d *Document) Content() string {
	raws := make([]string, 0, len(d.Lines))
	for _, line := range d.Lines {
		raws = append(raws, line.Raw)
	}
	content := strings.Join(raws, "\n")
	if d.trailingNewline {
		content += "\n"
	}
	return content
}

// Set is the flattened logical view over one root document and everything
// it transitively includes. Rewrites are applied to the document that
// physically declares a line.
type Set struct {
	docs   []*Document
	byPath map[string]*Document
	root   *Document
}

// Read loads the document at path and resolves recursive includes eagerly.
// Include cycles are broken with a visited set keyed by absolute path; a
// missing or unreadable file is fatal.
func Read(path string) (*Set, error) {
	set := &Set{byPath: make(map[string]*Document)}

	visited := make(map[string]bool)
	root, err := set.load(path, visited)
	if err != nil {
		return nil, err
	}

	set.root = root
	return set, nil
}

func (s *Set) load(path string, visited map[string]bool) (*Document, error) {
	abs, absErr := filepath.Abs(path)
	if absErr != nil {
		abs = path
	}
	if visited[abs] {
		logger.Warnf("Skipping already included document %q (include cycle)", path)
		return s.byPath[path], nil
	}
	visited[abs] = true

	data, readErr := os.ReadFile(path)
	if readErr != nil {
		return nil, &domain.DocumentIOError{Path: path, Op: "read", Err: readErr}
	}

	content := string(data)
	doc := &Document{
		Path:            path,
		trailingNewline: strings.HasSuffix(content, "\n"),
	}
	s.docs = append(s.docs, doc)
	s.byPath[path] = doc

	content = strings.TrimSuffix(content, "\n")

	var includes []string
	for index, raw := range strings.Split(content, "\n") {
		if match := includePattern.FindStringSubmatch(raw); match != nil {
			// The directive stays opaque in the parent; the included
			// document contributes its own lines to the flattened view.
			doc.Lines = append(doc.Lines, Line{Raw: raw})
			includes = append(includes, resolveInclude(path, match[1]))
			continue
		}

		spec, ok := domain.ParseLine(raw)
		if !ok {
			doc.Lines = append(doc.Lines, Line{Raw: raw})
			continue
		}

		spec.LineIndex = index
		spec.Document = path
		doc.Lines = append(doc.Lines, Line{Raw: raw, Spec: spec})
	}

	for _, include := range includes {
		if _, err := s.load(include, visited); err != nil {
			return nil, err
		}
	}

	return doc, nil
}

func resolveInclude(parent, include string) string {
	if filepath.IsAbs(include) {
		return include
	}
	return filepath.Join(filepath.Dir(parent), include)
}

// Merge absorbs another set's documents into this one. The receiver's
// root stays the root; appended lines keep landing there. Documents
// already loaded here are not loaded twice.
func (s *Set) Merge(other *Set) {
	for _, doc := range other.docs {
		if _, ok := s.byPath[doc.Path]; ok {
			logger.Debugf("Document %s already loaded, not merging twice", doc.Path)
			continue
		}
		s.docs = append(s.docs, doc)
		s.byPath[doc.Path] = doc
	}
}

// Flattened returns every RequirementSpec reachable from the root, in
// document order (each document's own lines before its includes').
func (s *Set) Flattened() []*domain.RequirementSpec {
	var specs []*domain.RequirementSpec
	for _, doc := range s.docs {
		for _, line := range doc.Lines {
			if line.Spec != nil {
				specs = append(specs, line.Spec)
			}
		}
	}
	return specs
}

// Find returns the first declared requirement for the normalized package
// name, or nil when none is declared anywhere.
func (s *Set) Find(name string) *domain.RequirementSpec {
	for _, spec := range s.Flattened() {
		if spec.Name == name {
			return spec
		}
	}
	return nil
}

// Rewrite replaces the line declaring spec with newLine in its owning
// document. Line order never changes; only the matched line mutates.
func (s *Set) Rewrite(spec *domain.RequirementSpec, newLine string) {
	doc, ok := s.byPath[spec.Document]
	if !ok || spec.LineIndex < 0 || spec.LineIndex >= len(doc.Lines) {
		logger.Warnf("Cannot rewrite %q: owning line not found", spec.Name)
		return
	}

	updated, parsed := domain.ParseLine(newLine)
	if parsed {
		updated.LineIndex = spec.LineIndex
		updated.Document = spec.Document
	}

	doc.Lines[spec.LineIndex] = Line{Raw: newLine, Spec: updated}
	doc.dirty = true
}

// Append adds a new requirement line to the end of the root document.
func (s *Set) Append(line string) *domain.RequirementSpec {
	doc := s.root

	spec, parsed := domain.ParseLine(line)
	if parsed {
		spec.LineIndex = len(doc.Lines)
		spec.Document = doc.Path
	}

	doc.Lines = append(doc.Lines, Line{Raw: line, Spec: spec})
	doc.dirty = true
	return spec
}

// Write persists every modified document. Untouched documents are left
// alone on disk.
func (s *Set) Write() error {
	for _, doc := range s.docs {
		if !doc.dirty {
			continue
		}
		if err := os.WriteFile(doc.Path, []byte(doc.Content()), fileMode); err != nil {
			return &domain.DocumentIOError{Path: doc.Path, Op: "write", Err: err}
		}
	}
	return nil
}

// Paths returns the paths of every loaded document, root first.
func (s *Set) Paths() []string {
	paths := make([]string, 0, len(s.docs))
	for _, doc := range s.docs {
		paths = append(paths, doc.Path)
	}
	return paths
}

// Content returns the current textual form of a loaded document.
func (s *Set) Content(path string) (string, bool) {
	doc, ok := s.byPath[path]
	if !ok {
		return "", false
	}
	return doc.Content(), true
}

// Root returns the path of the root document.
func (s *Set) Root() string {
	return s.root.Path
}
