package pipeline

import (
	"context"
	"regexp"
)

// Precompiled regex patterns for performance.
var (
	// Line ending normalization
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// Authoring notes <!-- ... -->, non-greedy, may span lines
	authoringComment = regexp.MustCompile(`(?s)<!--.*?-->`)
)

// MarkdownPreprocessor defines the contract for markdown preprocessing.
type MarkdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string) string
}

// LessonPreprocessor cleans chapter Markdown before extraction and rendering.
type LessonPreprocessor struct{}

// PreprocessMarkdown normalizes line endings and strips authoring comments.
// The result feeds both ExtractSections and the converter, so both see the same headings.
func (p *LessonPreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}

	content = normalizeLineEndings(content)
	return StripAuthoringComments(content)
}

// StripAuthoringComments removes every <!-- ... --> span.
// Text without comments is returned unchanged.
func StripAuthoringComments(text string) string {
	return authoringComment.ReplaceAllString(text, "")
}

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// Compile-time interface check.
var _ MarkdownPreprocessor = (*LessonPreprocessor)(nil)
