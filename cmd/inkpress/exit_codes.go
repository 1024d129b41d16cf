package main

import (
	"errors"
	"os"

	inkpress "github.com/alnah/go-inkpress"
	"github.com/alnah/go-inkpress/internal/config"
	"github.com/alnah/go-inkpress/internal/server"
)

// Exit codes for the inkpress CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful conversion
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// CLI sentinel errors.
var (
	ErrUsage         = errors.New("usage error")
	ErrNoInput       = errors.New("no input file specified")
	ErrInputNotFound = errors.New("input file not found")
	ErrReadMarkdown  = errors.New("failed to read markdown")
	ErrWritePDF      = errors.New("failed to write PDF")
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, inkpress.ErrBrowserConnect) ||
		errors.Is(err, inkpress.ErrPageLoad) ||
		errors.Is(err, inkpress.ErrPDFGeneration) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrInputNotFound) ||
		errors.Is(err, ErrReadMarkdown) ||
		errors.Is(err, ErrWritePDF) ||
		errors.Is(err, inkpress.ErrCSSNotFound) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, inkpress.ErrUnknownTheme) ||
		errors.Is(err, inkpress.ErrInvalidPaper) ||
		errors.Is(err, inkpress.ErrInvalidMargin) ||
		errors.Is(err, inkpress.ErrUnknownEngine) ||
		errors.Is(err, inkpress.ErrInvalidAssets) ||
		errors.Is(err, server.ErrInvalidRoot) {
		return ExitUsage
	}

	return ExitGeneral
}
