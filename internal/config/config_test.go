package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	theme "github.com/goliatone/go-theme"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(Options{Lookup: lookupFrom(nil)})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate defaults: %v", err)
	}
}

func TestLoadLayersInOrder(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "contactform.yaml", `
server:
  addr: ":9000"
  session_ttl: 10m
log:
  level: debug
theme:
  name: acme
`)
	envFile := writeFile(t, dir, ".env", "CONTACTFORM_ADDR=:9100\nLOG_FORMAT=console\n")

	cfg, err := Load(Options{
		File:    file,
		EnvFile: envFile,
		Lookup:  lookupFrom(map[string]string{EnvAddr: ":9200", EnvThemeVariant: "dark"}),
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := Default()
	want.Server.Addr = ":9200"
	want.Server.SessionTTL = 10 * time.Minute
	want.Log.Level = "debug"
	want.Log.Format = "console"
	want.Theme.Name = "acme"
	want.Theme.Variant = "dark"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadIgnoresMissingEnvFile(t *testing.T) {
	_, err := Load(Options{
		EnvFile: filepath.Join(t.TempDir(), "missing.env"),
		Lookup:  lookupFrom(nil),
	})
	if err != nil {
		t.Fatalf("expected missing .env to be ignored, got %v", err)
	}
}

func TestLoadRejectsBadTTL(t *testing.T) {
	_, err := Load(Options{Lookup: lookupFrom(map[string]string{EnvSessionTTL: "soon"})})
	if err == nil {
		t.Fatalf("expected ttl parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{name: "empty addr", mutate: func(c *Config) { c.Server.Addr = " " }, want: ErrInvalidAddr},
		{name: "zero ttl", mutate: func(c *Config) { c.Server.SessionTTL = 0 }, want: ErrInvalidTTL},
		{name: "bad format", mutate: func(c *Config) { c.Log.Format = "xml" }, want: ErrLogFormat},
		{name: "unknown variant", mutate: func(c *Config) {
			c.Theme.Variant = "neon"
			c.Theme.Manifest = &theme.Manifest{Name: "acme", Version: "1.0.0"}
		}, want: ErrThemeNotFound},
		{name: "unknown name", mutate: func(c *Config) {
			c.Theme.Name = "other"
			c.Theme.Manifest = &theme.Manifest{Name: "acme", Version: "1.0.0"}
		}, want: ErrThemeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestThemeSelector(t *testing.T) {
	cfg := ThemeConfig{
		Variant: "dark",
		Manifest: &theme.Manifest{
			Name:    "acme",
			Version: "1.0.0",
			Tokens:  map[string]string{"brand": "#123456"},
			Variants: map[string]theme.Variant{
				"dark": {Tokens: map[string]string{"brand": "#654321"}},
			},
		},
	}
	selector, err := cfg.Selector()
	if err != nil {
		t.Fatalf("selector: %v", err)
	}
	if selector == nil {
		t.Fatalf("expected selector")
	}

	selection, err := selector.Select("", "")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if selection.Theme != "acme" || selection.Variant != "dark" {
		t.Fatalf("unexpected selection %+v", selection)
	}
	if diff := cmp.Diff(map[string]string{"brand": "#654321"}, selection.Tokens()); diff != "" {
		t.Fatalf("tokens mismatch (-want +got):\n%s", diff)
	}

	fallback, err := selector.Select("other", "")
	if err != nil {
		t.Fatalf("select unknown theme: %v", err)
	}
	if fallback.Manifest == nil || fallback.Manifest.Name != "acme" {
		t.Fatalf("expected fallback to the configured theme, got %+v", fallback)
	}

	none, err := (ThemeConfig{}).Selector()
	if err != nil || none != nil {
		t.Fatalf("expected nil selector without manifest, got %v, %v", none, err)
	}
}

func TestThemeManifestFromYAML(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "contactform.yaml", `
theme:
  variant: dark
  manifest:
    name: acme
    version: 1.0.0
    tokens:
      brand: "#123456"
    assets:
      prefix: /static
      files:
        vanilla.stylesheet: acme.css
    variants:
      dark:
        tokens:
          brand: "#000000"
`)
	cfg, err := Load(Options{File: file, Lookup: lookupFrom(nil)})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	selector, err := cfg.Theme.Selector()
	if err != nil {
		t.Fatalf("selector: %v", err)
	}
	selection, err := selector.Select("", "")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	rendered := selection.RendererTheme(nil)
	if got := rendered.CSSVars["--brand"]; got != "#000000" {
		t.Fatalf("expected variant token in css vars, got %q", got)
	}
	if got := rendered.AssetURL("vanilla.stylesheet"); got != "/static/acme.css" {
		t.Fatalf("unexpected asset url %q", got)
	}
}

func TestThemeManifestFromFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "theme.json", `{"name":"acme","version":"1.0.0","tokens":{"brand":"#123456"}}`)

	cfg, err := Load(Options{Lookup: lookupFrom(map[string]string{EnvThemeFile: path})})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Theme.ManifestPath != path {
		t.Fatalf("expected manifest path from env, got %q", cfg.Theme.ManifestPath)
	}
	manifest, err := cfg.Theme.LoadManifest()
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}
	if manifest.Name != "acme" || manifest.Tokens["brand"] != "#123456" {
		t.Fatalf("unexpected manifest %+v", manifest)
	}

	cfg.Theme.ManifestPath = filepath.Join(dir, "missing.json")
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for missing manifest file")
	}
}
