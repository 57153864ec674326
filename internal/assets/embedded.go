package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed directory/* templates/* guide/*
var embedded embed.FS

// EmbeddedLoader loads assets from embedded filesystem.
// Implements AssetLoader interface.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadDirectory loads a jurisdiction table from embedded assets by name.
func (e *EmbeddedLoader) LoadDirectory(name string) ([]byte, error) {
	return e.read(directoryKind, name)
}

// LoadTemplate loads an HTML template from embedded assets by name.
func (e *EmbeddedLoader) LoadTemplate(name string) (string, error) {
	content, err := e.read(templateKind, name)
	return string(content), err
}

// LoadGuide loads a Markdown guide from embedded assets by name.
func (e *EmbeddedLoader) LoadGuide(name string) (string, error) {
	content, err := e.read(guideKind, name)
	return string(content), err
}

// Directories lists the names of the embedded jurisdiction tables.
func (e *EmbeddedLoader) Directories() []string {
	entries, err := fs.ReadDir(embedded, directoryKind.dir)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), directoryKind.ext) {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), directoryKind.ext))
	}
	sort.Strings(names)
	return names
}

func (e *EmbeddedLoader) read(k kind, name string) ([]byte, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}

	content, err := embedded.ReadFile(k.dir + "/" + name + k.ext)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", k.notFound, name)
	}

	return content, nil
}

// Compile-time interface check.
var _ AssetLoader = (*EmbeddedLoader)(nil)
