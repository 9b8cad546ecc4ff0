package pipeline

import (
	"bytes"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// codeBlockRenderer overrides fenced code rendering.
// Blocks in the target language get a header with a language tag and a copy
// button and chroma highlighting; every other block renders as plain
// <pre><code> with its language class kept.
type codeBlockRenderer struct {
	target      string
	copyLabel   string
	copiedLabel string
	style       *chroma.Style
	formatter   *chromahtml.Formatter
}

func newCodeBlockRenderer(target, copyLabel, copiedLabel string, style *chroma.Style) *codeBlockRenderer {
	return &codeBlockRenderer{
		target:      target,
		copyLabel:   copyLabel,
		copiedLabel: copiedLabel,
		style:       style,
		formatter: chromahtml.New(
			chromahtml.WithClasses(true), // classes match the generated highlight stylesheet
			chromahtml.PreventSurroundingPre(true),
		),
	}
}

// RegisterFuncs implements renderer.NodeRenderer.
func (r *codeBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
}

func (r *codeBlockRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)

	var info []byte
	if n.Info != nil {
		info = n.Info.Segment.Value(source)
	}
	word, lang := FenceLanguage(info)
	code := blockText(n, source)

	if r.target != "" && lang == r.target {
		r.writeCopyBlock(w, lang, code)
	} else {
		r.writePlainBlock(w, word, lang, code)
	}
	return ast.WalkSkipChildren, nil
}

// writeCopyBlock emits the copy-enabled block. Exactly one trailing newline
// is dropped from the copy text. The highlighted body always ends with one
// newline terminator, which copy.js strips again, so the clipboard receives
// the trimmed text whether or not the lexer appends a final newline.
func (r *codeBlockRenderer) writeCopyBlock(w util.BufWriter, lang string, code []byte) {
	code = append(bytes.TrimSuffix(code, []byte("\n")), '\n')

	_, _ = w.WriteString(`<div class="code-block" data-lang="`)
	_, _ = w.WriteString(lang)
	_, _ = w.WriteString(`">` + "\n" + `<div class="code-block-header"><span class="code-block-lang">`)
	_, _ = w.WriteString(lang)
	_, _ = w.WriteString(`</span><button type="button" class="code-copy" data-copied-label="`)
	_, _ = w.Write(util.EscapeHTML([]byte(r.copiedLabel)))
	_, _ = w.WriteString(`">`)
	_, _ = w.Write(util.EscapeHTML([]byte(r.copyLabel)))
	_, _ = w.WriteString("</button></div>\n")
	_, _ = w.WriteString(`<pre class="chroma"><code class="language-`)
	_, _ = w.WriteString(lang)
	_, _ = w.WriteString(`">`)
	r.highlight(w, lang, code)
	_, _ = w.WriteString("</code></pre>\n</div>\n")
}

// highlight writes chroma-highlighted code, falling back to escaped text.
func (r *codeBlockRenderer) highlight(w util.BufWriter, lang string, code []byte) {
	iterator, err := lexerFor(lang).Tokenise(nil, string(code))
	if err == nil {
		var buf bytes.Buffer
		if err = r.formatter.Format(&buf, r.style, iterator); err == nil {
			_, _ = w.Write(buf.Bytes())
			return
		}
	}
	_, _ = w.Write(util.EscapeHTML(code))
}

// writePlainBlock keeps the original info word as the class.
func (r *codeBlockRenderer) writePlainBlock(w util.BufWriter, word, lang string, code []byte) {
	_, _ = w.WriteString(`<pre data-lang="`)
	_, _ = w.WriteString(lang)
	_, _ = w.WriteString(`"><code`)
	if word != "" {
		_, _ = w.WriteString(` class="language-`)
		_, _ = w.Write(util.EscapeHTML([]byte(word)))
		_, _ = w.WriteString(`"`)
	}
	_, _ = w.WriteString(">")
	_, _ = w.Write(util.EscapeHTML(code))
	_, _ = w.WriteString("</code></pre>\n")
}

// blockText joins the raw lines of a code block.
func blockText(n *ast.FencedCodeBlock, source []byte) []byte {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return buf.Bytes()
}

// Compile-time interface check.
var _ renderer.NodeRenderer = (*codeBlockRenderer)(nil)
