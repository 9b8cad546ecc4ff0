package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// ErrHTMLConversion indicates HTML conversion failed.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// Defaults for the converter.
const (
	DefaultTargetLanguage = "python"
	DefaultHighlightStyle = "github"
	DefaultCopyLabel      = "复制"
	DefaultCopiedLabel    = "已复制"
)

// RenderResult is the HTML fragment for one lesson plus anchor bookkeeping.
type RenderResult struct {
	HTML       string
	Anchors    []string // section ids assigned, in document order
	Misses     []string // level-2 heading texts that matched no section
	CodeBlocks int      // fenced code blocks in the lesson
}

// HTMLConverter abstracts lesson Markdown to HTML conversion.
type HTMLConverter interface {
	ToHTML(ctx context.Context, content string, sections []string) (*RenderResult, error)
}

// ConverterOption configures a GoldmarkConverter.
type ConverterOption func(*converterConfig)

type converterConfig struct {
	target      string
	style       string
	copyLabel   string
	copiedLabel string
}

// WithTargetLanguage sets the language whose blocks become copy-enabled.
func WithTargetLanguage(lang string) ConverterOption {
	return func(c *converterConfig) {
		if lang != "" {
			c.target = lang
		}
	}
}

// WithHighlightStyle selects the chroma style by name.
func WithHighlightStyle(name string) ConverterOption {
	return func(c *converterConfig) {
		if name != "" {
			c.style = name
		}
	}
}

// WithCopyLabels sets the copy button label and its confirmation text.
func WithCopyLabels(copyLabel, copiedLabel string) ConverterOption {
	return func(c *converterConfig) {
		if copyLabel != "" {
			c.copyLabel = copyLabel
		}
		if copiedLabel != "" {
			c.copiedLabel = copiedLabel
		}
	}
}

// GoldmarkConverter converts lesson Markdown to HTML using goldmark (pure Go).
type GoldmarkConverter struct {
	md    goldmark.Markdown
	style *chroma.Style
}

// NewGoldmarkConverter creates a GoldmarkConverter with GFM and the lesson overrides.
func NewGoldmarkConverter(opts ...ConverterOption) *GoldmarkConverter {
	cfg := converterConfig{
		target:      DefaultTargetLanguage,
		style:       DefaultHighlightStyle,
		copyLabel:   DefaultCopyLabel,
		copiedLabel: DefaultCopiedLabel,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	// styles.Get returns the fallback style for unknown names.
	style := styles.Get(cfg.style)

	anchors := &sectionAnchorTransformer{}
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM, // Tables, strikethrough, autolinks, task lists
		),
		goldmark.WithParserOptions(
			parser.WithASTTransformers(
				util.Prioritized(anchors, 100),
			),
		),
		goldmark.WithRendererOptions(
			// Raw HTML stays omitted; authoring comments are stripped before this stage.
			renderer.WithNodeRenderers(
				util.Prioritized(newCodeBlockRenderer(cfg.target, cfg.copyLabel, cfg.copiedLabel, style), 100),
			),
		),
	)
	// Titles are parsed without the transformer's state, so it skips them.
	anchors.parser = md.Parser()
	return &GoldmarkConverter{md: md, style: style}
}

// ToHTML converts cleaned lesson Markdown to an HTML fragment.
// sections are the extracted level-2 titles; headings are matched against
// them after both sides are flattened to plain text.
// Supports context cancellation via goroutine + select pattern since
// Goldmark doesn't natively support context.
func (c *GoldmarkConverter) ToHTML(ctx context.Context, content string, sections []string) (*RenderResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type result struct {
		res *RenderResult
		err error
	}

	done := make(chan result, 1)

	go func() {
		res, err := c.convert([]byte(content), sections)
		done <- result{res: res, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.res, r.err
	}
}

func (c *GoldmarkConverter) convert(source []byte, sections []string) (*RenderResult, error) {
	state := newAnchorState(sections)
	pc := parser.NewContext()
	pc.Set(anchorStateKey, state)

	doc := c.md.Parser().Parse(text.NewReader(source), parser.WithContext(pc))

	var buf bytes.Buffer
	if err := c.md.Renderer().Render(&buf, source, doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}

	return &RenderResult{
		HTML:       buf.String(),
		Anchors:    state.anchors,
		Misses:     state.misses,
		CodeBlocks: state.codeBlocks,
	}, nil
}

// HighlightCSS returns the stylesheet for the configured chroma style.
func (c *GoldmarkConverter) HighlightCSS() (string, error) {
	var buf bytes.Buffer
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&buf, c.style); err != nil {
		return "", fmt.Errorf("writing highlight CSS: %w", err)
	}
	return buf.String(), nil
}

// Compile-time interface check.
var _ HTMLConverter = (*GoldmarkConverter)(nil)
