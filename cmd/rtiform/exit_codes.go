package main

import (
	"errors"
	"os"

	"github.com/alnah/go-rtiform"
	"github.com/alnah/go-rtiform/internal/assets"
	"github.com/alnah/go-rtiform/internal/config"
	"github.com/alnah/go-rtiform/internal/jurisdiction"
)

// Exit codes for the rtiform CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Document written
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, record or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the exit code for err.
// It walks wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, rtiform.ErrBrowserConnect) ||
		errors.Is(err, rtiform.ErrPageCreate) ||
		errors.Is(err, rtiform.ErrPageLoad) {
		return ExitBrowser
	}

	var verr *rtiform.ValidationError
	if errors.As(err, &verr) ||
		errors.Is(err, rtiform.ErrIncompleteRecord) ||
		errors.Is(err, rtiform.ErrRecordParse) ||
		errors.Is(err, rtiform.ErrUnknownFormat) ||
		errors.Is(err, rtiform.ErrUnknownBackend) ||
		errors.Is(err, rtiform.ErrInvalidDateFormat) ||
		errors.Is(err, rtiform.ErrInvalidAssetPath) ||
		errors.Is(err, rtiform.ErrInvalidDirectory) ||
		errors.Is(err, rtiform.ErrInvalidTemplate) ||
		errors.Is(err, rtiform.ErrInvalidSignature) ||
		errors.Is(err, rtiform.ErrUnsupportedImage) ||
		errors.Is(err, rtiform.ErrInvalidDataURL) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, jurisdiction.ErrInvalidTable) ||
		errors.Is(err, assets.ErrInvalidAssetName) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrInvalidFlags) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, ErrUnknownDistrict) ||
		errors.Is(err, ErrUnknownBodyType) ||
		errors.Is(err, ErrUnsupportedShell) {
		return ExitUsage
	}

	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, rtiform.ErrSignatureImageNotFound) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrNoRecords) {
		return ExitIO
	}

	return ExitGeneral
}
