package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	theme "github.com/goliatone/go-theme"
)

// ErrThemeNotFound is returned when the configured theme name or variant is
// not declared by the manifest.
var ErrThemeNotFound = errors.New("config: theme not found")

// ThemeConfig selects the theme. The manifest is either inline or read from
// ManifestPath (JSON or YAML, by extension).
type ThemeConfig struct {
	Name         string          `yaml:"name"`
	Variant      string          `yaml:"variant"`
	ManifestPath string          `yaml:"manifest_path"`
	Manifest     *theme.Manifest `yaml:"manifest"`
}

// LoadManifest returns the inline manifest, or decodes the one at
// ManifestPath. It returns nil when neither is set.
func (t ThemeConfig) LoadManifest() (*theme.Manifest, error) {
	if t.Manifest != nil {
		return t.Manifest, nil
	}
	if t.ManifestPath == "" {
		return nil, nil
	}
	manifest, err := theme.LoadFile(os.DirFS(filepath.Dir(t.ManifestPath)), filepath.Base(t.ManifestPath))
	if err != nil {
		return nil, fmt.Errorf("config: theme manifest: %w", err)
	}
	return manifest, nil
}

// Check validates the manifest and that it declares the configured name and
// variant.
func (t ThemeConfig) Check() error {
	manifest, err := t.LoadManifest()
	if err != nil || manifest == nil {
		return err
	}
	if err := manifest.Validate(); err != nil {
		return fmt.Errorf("config: theme %q: %w", manifest.Name, err)
	}
	if t.Name != "" && t.Name != manifest.Name {
		return fmt.Errorf("%w: %q", ErrThemeNotFound, t.Name)
	}
	if t.Variant != "" {
		if _, ok := manifest.Variants[t.Variant]; !ok {
			return fmt.Errorf("%w: variant %q", ErrThemeNotFound, t.Variant)
		}
	}
	return nil
}

// Selector registers the manifest in a go-theme registry and returns a
// selector defaulting to the configured name and variant. It returns nil
// when no manifest is configured.
func (t ThemeConfig) Selector() (*theme.Selector, error) {
	manifest, err := t.LoadManifest()
	if err != nil || manifest == nil {
		return nil, err
	}
	registry := theme.NewRegistry()
	if err := registry.Register(manifest); err != nil {
		return nil, fmt.Errorf("config: register theme %q: %w", manifest.Name, err)
	}
	name := t.Name
	if name == "" {
		name = manifest.Name
	}
	return &theme.Selector{
		Registry:       registry,
		DefaultTheme:   name,
		DefaultVariant: t.Variant,
	}, nil
}
