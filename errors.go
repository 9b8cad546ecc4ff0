package textbook

import (
	"errors"

	"github.com/alnah/go-textbook/internal/pipeline"
	"github.com/alnah/go-textbook/internal/theme"
)

// Sentinel errors for library operations.
var (
	// Content errors.
	ErrIndexNotFound     = errors.New("structural index not found")
	ErrMalformedIndex    = errors.New("malformed structural index")
	ErrChapterNotFound   = errors.New("chapter file not found")
	ErrChapterOutOfRange = errors.New("chapter index out of range")

	// Rendering errors.
	ErrHTMLConversion = pipeline.ErrHTMLConversion
	ErrTemplateRender = errors.New("page template rendering failed")
	ErrUnknownTheme   = theme.ErrUnknownTheme

	// Output errors.
	ErrOutputWrite = errors.New("failed to write site output")

	// Browser errors.
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")

	// Asset loading errors.
	ErrInvalidAssetPath = errors.New("invalid asset path")
)
