package assets

import (
	"fmt"
	"strings"
)

// AssetLoader defines the contract for loading drafting assets by name.
type AssetLoader interface {
	// LoadDirectory loads a jurisdiction table by name (without .yaml extension).
	// Returns ErrDirectoryNotFound if the table doesn't exist.
	LoadDirectory(name string) ([]byte, error)

	// LoadTemplate loads an HTML template by name (without .html extension).
	// Returns ErrTemplateNotFound if the template doesn't exist.
	LoadTemplate(name string) (string, error)

	// LoadGuide loads a Markdown guide by name (without .md extension).
	// Returns ErrGuideNotFound if the guide doesn't exist.
	LoadGuide(name string) (string, error)
}

// kind describes where one asset type lives and how it is reported missing.
type kind struct {
	dir      string
	ext      string
	notFound error
}

var (
	directoryKind = kind{dir: "directory", ext: ".yaml", notFound: ErrDirectoryNotFound}
	templateKind  = kind{dir: "templates", ext: ".html", notFound: ErrTemplateNotFound}
	guideKind     = kind{dir: "guide", ext: ".md", notFound: ErrGuideNotFound}
)

// Built-in asset names.
const (
	DefaultDirectoryName = "kerala"
	DefaultTemplateName  = "document"
	DefaultGuideName     = "submission"
)

// maxAssetNameLength bounds asset names taken from config and flags.
const maxAssetNameLength = 64

// ValidateAssetName checks that an asset name is safe for use as a filename.
// Names must be non-empty and free of path separators and dots.
func ValidateAssetName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	case len(name) > maxAssetNameLength:
		return fmt.Errorf("%w: name exceeds %d bytes", ErrInvalidAssetName, maxAssetNameLength)
	case strings.ContainsAny(name, "/\\.\x00"):
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
