package pipeline

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// anchorStateKey carries per-document anchor state through the parser context.
var anchorStateKey = parser.NewContextKey()

// anchorState tracks which extracted sections have been claimed by a heading.
type anchorState struct {
	raw        []string // section titles as extracted
	titles     []string // flattened section titles, by section index
	consumed   []bool
	anchors    []string // ids assigned, in document order
	misses     []string // flattened text of headings that matched nothing
	codeBlocks int
}

func newAnchorState(raw []string) *anchorState {
	return &anchorState{
		raw:      raw,
		consumed: make([]bool, len(raw)),
	}
}

// flattenTitles parses every raw title as a level-2 heading, with refs
// from the document, so reference links flatten as they do in the body.
func (s *anchorState) flattenTitles(p parser.Parser, refs []parser.Reference) {
	s.titles = make([]string, len(s.raw))
	for i, title := range s.raw {
		s.titles[i] = flattenTitle(p, title, refs)
	}
}

func flattenTitle(p parser.Parser, title string, refs []parser.Reference) string {
	src := []byte("## " + title + "\n")
	pc := parser.NewContext()
	for _, ref := range refs {
		pc.AddReference(ref)
	}
	doc := p.Parse(text.NewReader(src), parser.WithContext(pc))
	if h := doc.FirstChild(); h != nil {
		return flattenText(h, src)
	}
	return title
}

// claim returns the index of the first unconsumed title equal to heading,
// marking it consumed, or -1.
func (s *anchorState) claim(heading string) int {
	for i, title := range s.titles {
		if !s.consumed[i] && title == heading {
			s.consumed[i] = true
			return i
		}
	}
	return -1
}

// sectionAnchorTransformer assigns section-{i} ids to ATX level-2 headings.
// Matching is on flattened inline text, first unconsumed match wins, so
// repeated titles map to successive indices in order. Setext headings are
// never sections and only count as misses.
type sectionAnchorTransformer struct {
	parser parser.Parser // flattens section titles; set once the Markdown is built
}

// Transform implements parser.ASTTransformer.
func (t *sectionAnchorTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	state, ok := pc.Get(anchorStateKey).(*anchorState)
	if !ok || state == nil {
		return
	}
	source := reader.Source()
	state.flattenTitles(t.parser, pc.References())

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.FencedCodeBlock:
			state.codeBlocks++
			return ast.WalkSkipChildren, nil
		case *ast.Heading:
			if node.Level != 2 {
				return ast.WalkSkipChildren, nil
			}
			heading := flattenText(node, source)
			if !isATXHeading(node, source) {
				state.misses = append(state.misses, heading)
				return ast.WalkSkipChildren, nil
			}
			if i := state.claim(heading); i >= 0 {
				id := SectionID(i)
				node.SetAttributeString("id", []byte(id))
				state.anchors = append(state.anchors, id)
			} else {
				state.misses = append(state.misses, heading)
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
}

// flattenText concatenates the visible inline text under n.
// Emphasis, links and code spans contribute their text; raw HTML contributes nothing.
func flattenText(n ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := c.(type) {
		case *ast.Text:
			b.Write(node.Segment.Value(source))
			if node.SoftLineBreak() || node.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(node.Value)
		case *ast.AutoLink:
			b.Write(node.Label(source))
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

// Compile-time interface check.
var _ parser.ASTTransformer = (*sectionAnchorTransformer)(nil)
