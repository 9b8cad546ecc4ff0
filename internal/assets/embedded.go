package assets

import (
	"embed"
	"fmt"
)

//go:embed styles/* scripts/* templates/*
var files embed.FS

// EmbeddedLoader loads assets from embedded filesystem.
// Implements AssetLoader interface.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadStyle loads a CSS style from embedded assets by name.
func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	return e.load(styleKind, name)
}

// LoadScript loads a script from embedded assets by name.
func (e *EmbeddedLoader) LoadScript(name string) (string, error) {
	return e.load(scriptKind, name)
}

// LoadTemplate loads an HTML template from embedded assets by name.
func (e *EmbeddedLoader) LoadTemplate(name string) (string, error) {
	return e.load(templateKind, name)
}

func (e *EmbeddedLoader) load(k kind, name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	// embed.FS paths always use forward slashes.
	content, err := files.ReadFile(k.dir + "/" + name + k.ext)
	if err != nil {
		return "", fmt.Errorf("%w: %q", k.notFound, name)
	}

	return string(content), nil
}

// Compile-time interface check.
var _ AssetLoader = (*EmbeddedLoader)(nil)
