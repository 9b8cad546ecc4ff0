package main

import (
	"errors"
	"os"
	"syscall"

	textbook "github.com/alnah/go-textbook"
	"github.com/alnah/go-textbook/internal/config"
	"github.com/alnah/go-textbook/internal/logging"
	"github.com/alnah/go-textbook/internal/server"
)

// Exit codes for the textbook CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful command
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or structural index
	ExitIO      = 3 // Missing content, unwritable output, busy address
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, textbook.ErrBrowserConnect) ||
		errors.Is(err, textbook.ErrPageCreate) ||
		errors.Is(err, textbook.ErrPageLoad) ||
		errors.Is(err, textbook.ErrPDFGeneration) {
		return ExitBrowser
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, logging.ErrInvalidFormat) ||
		errors.Is(err, textbook.ErrMalformedIndex) ||
		errors.Is(err, textbook.ErrChapterOutOfRange) ||
		errors.Is(err, textbook.ErrUnknownTheme) ||
		errors.Is(err, textbook.ErrInvalidAssetPath) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, os.ErrExist) ||
		errors.Is(err, syscall.EADDRINUSE) ||
		errors.Is(err, textbook.ErrIndexNotFound) ||
		errors.Is(err, textbook.ErrChapterNotFound) ||
		errors.Is(err, textbook.ErrOutputWrite) ||
		errors.Is(err, server.ErrInvalidSiteDir) {
		return ExitIO
	}

	return ExitGeneral
}
