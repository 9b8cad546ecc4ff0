package pipeline

import (
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// sectionParser builds the same block structure as the converter, so a
// "## " line inside a list-item fence or an indented block is never a section.
var sectionParser parser.Parser = goldmark.New(goldmark.WithExtensions(extension.GFM)).Parser()

// SectionID returns the anchor id for the section at index i.
func SectionID(i int) string {
	return "section-" + strconv.Itoa(i)
}

// ExtractSections returns the raw titles of ATX level-2 headings in
// document order. Duplicates are kept. A document without such headings
// yields an empty, non-nil slice.
func ExtractSections(content string) []string {
	sections := []string{}
	source := []byte(content)
	doc := sectionParser.Parse(text.NewReader(source))

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		if h.Level == 2 && isATXHeading(h, source) {
			if title := headingSource(h, source); title != "" {
				sections = append(sections, title)
			}
		}
		return ast.WalkSkipChildren, nil
	})

	return sections
}

// isATXHeading reports whether h was written with leading hashes.
// Setext headings start their content right after indentation or a
// container marker, never after a '#'.
func isATXHeading(h *ast.Heading, source []byte) bool {
	lines := h.Lines()
	if lines.Len() == 0 {
		return false
	}
	i := lines.At(0).Start - 1
	for i >= 0 && (source[i] == ' ' || source[i] == '\t') {
		i--
	}
	return i >= 0 && source[i] == '#'
}

// headingSource returns the heading's Markdown between the opening and
// the optional closing hashes.
func headingSource(h *ast.Heading, source []byte) string {
	var b strings.Builder
	lines := h.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(source))
	}
	return strings.TrimSpace(b.String())
}
