package orchestrator_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-contactform/pkg/contact"
	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/orchestrator"
	"github.com/goliatone/go-contactform/pkg/render"
	"github.com/goliatone/go-contactform/pkg/testsupport"
)

type captureRenderer struct {
	name     string
	form     model.FormModel
	snapshot contact.Snapshot
	options  render.RenderOptions
}

func (c *captureRenderer) Name() string {
	if c.name == "" {
		return "capture"
	}
	return c.name
}

func (c *captureRenderer) ContentType() string { return "text/plain" }

func (c *captureRenderer) Render(_ context.Context, form model.FormModel, snapshot contact.Snapshot, opts render.RenderOptions) ([]byte, error) {
	c.form = form
	c.snapshot = snapshot
	c.options = opts
	return []byte("ok"), nil
}

type stubThemeSelector struct {
	selection *theme.Selection
	err       error
	calls     [][2]string
}

func (s *stubThemeSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.calls = append(s.calls, [2]string{name, variant})
	return s.selection, s.err
}

func TestOrchestrator_DefaultsToVanilla(t *testing.T) {
	orch := orchestrator.New()

	out, err := orch.Generate(testsupport.Context(), orchestrator.Request{
		Snapshot: testsupport.MustController(t).Snapshot(),
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(out), ">Contact Form</h1>") {
		t.Fatalf("expected vanilla markup, got:\n%s", out)
	}
}

func TestOrchestrator_UnknownRenderer(t *testing.T) {
	orch := orchestrator.New()

	_, err := orch.Generate(testsupport.Context(), orchestrator.Request{Renderer: "pdf"})
	if !errors.Is(err, render.ErrRendererNotFound) {
		t.Fatalf("expected ErrRendererNotFound, got %v", err)
	}
}

func TestOrchestrator_AppliesTransformerToCopy(t *testing.T) {
	renderer := &captureRenderer{}
	orch := orchestrator.New(
		orchestrator.WithRegistry(render.NewRegistry(renderer)),
		orchestrator.WithDefaultRenderer(renderer.Name()),
		orchestrator.WithSchemaTransformer(orchestrator.TransformerFunc(func(_ context.Context, form *model.FormModel) error {
			form.Fields[0].Label = "Given Name*"
			return nil
		})),
	)

	if _, err := orch.Generate(context.Background(), orchestrator.Request{}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got := renderer.form.Fields[0].Label; got != "Given Name*" {
		t.Fatalf("expected transformed label, got %q", got)
	}
	if _, err := orch.Generate(context.Background(), orchestrator.Request{}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got := model.ContactForm().Fields[0].Label; got != "First Name*" {
		t.Fatalf("catalogue mutated: %q", got)
	}
}

func TestJSONPresetTransformer(t *testing.T) {
	fsys := fstest.MapFS{
		"preset.json": {Data: []byte(`{"title":"Get in touch","submitLabel":"Send","fields":{"message":{"label":"Your message","placeholder":"Say hello"}}}`)},
	}
	transformer, err := orchestrator.NewJSONPresetTransformerFromFS(fsys, "preset.json")
	if err != nil {
		t.Fatalf("load preset: %v", err)
	}

	form := model.ContactForm()
	if err := transformer.Transform(context.Background(), &form); err != nil {
		t.Fatalf("transform: %v", err)
	}
	field, _ := form.Field(model.FieldMessage)
	got := []string{form.Title, form.SubmitLabel, field.Label, field.Placeholder}
	want := []string{"Get in touch", "Send", "Your message", "Say hello"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("preset mismatch (-want +got):\n%s", diff)
	}

	bad, err := orchestrator.NewJSONPresetTransformer([]byte(`{"fields":{"phone":{"label":"x"}}}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := bad.Transform(context.Background(), &form); err == nil {
		t.Fatalf("expected unknown field error")
	}
}

func TestOrchestrator_ResolvesThemeThroughSelector(t *testing.T) {
	manifest := &theme.Manifest{
		Name:    "acme",
		Version: "1.0.0",
		Tokens:  map[string]string{"brand": "#123456", "radius": "4px"},
		Assets: theme.Assets{
			Prefix: "/assets/themes/acme",
			Files:  map[string]string{"vanilla.stylesheet": "theme.css"},
		},
		Variants: map[string]theme.Variant{
			"dark": {Tokens: map[string]string{"brand": "#654321"}},
		},
	}
	selector := &stubThemeSelector{selection: &theme.Selection{Theme: "acme", Variant: "dark", Manifest: manifest}}
	renderer := &captureRenderer{}
	orch := orchestrator.New(
		orchestrator.WithRegistry(render.NewRegistry(renderer)),
		orchestrator.WithDefaultRenderer(renderer.Name()),
		orchestrator.WithThemeSelector(selector, "acme", "light"),
	)

	if _, err := orch.Generate(context.Background(), orchestrator.Request{ThemeVariant: "dark"}); err != nil {
		t.Fatalf("generate: %v", err)
	}

	if diff := cmp.Diff([][2]string{{"acme", "dark"}}, selector.calls); diff != "" {
		t.Fatalf("selector calls mismatch (-want +got):\n%s", diff)
	}
	cfg := renderer.options.Theme
	if cfg == nil {
		t.Fatalf("expected theme config passed to renderer")
	}
	wantVars := map[string]string{"--brand": "#654321", "--radius": "4px"}
	if diff := cmp.Diff(wantVars, cfg.CSSVars); diff != "" {
		t.Fatalf("css vars mismatch (-want +got):\n%s", diff)
	}
	if got := cfg.AssetURL("vanilla.stylesheet"); got != "/assets/themes/acme/theme.css" {
		t.Fatalf("unexpected asset url %q", got)
	}
	if got := cfg.AssetURL("missing"); got != "" {
		t.Fatalf("expected empty url for missing asset, got %q", got)
	}
}

func TestOrchestrator_SelectorErrorPropagates(t *testing.T) {
	selector := &stubThemeSelector{err: errors.New("no such theme")}
	renderer := &captureRenderer{}
	orch := orchestrator.New(
		orchestrator.WithRegistry(render.NewRegistry(renderer)),
		orchestrator.WithThemeSelector(selector, "ghost", ""),
	)

	if _, err := orch.Generate(context.Background(), orchestrator.Request{}); err == nil {
		t.Fatalf("expected selector error")
	}
}

func TestOrchestrator_RequestThemeWins(t *testing.T) {
	renderer := &captureRenderer{}
	static := &theme.RendererConfig{Theme: "static"}
	override := &theme.RendererConfig{Theme: "override"}
	orch := orchestrator.New(
		orchestrator.WithRegistry(render.NewRegistry(renderer)),
		orchestrator.WithThemeConfig(static),
	)

	if _, err := orch.Generate(context.Background(), orchestrator.Request{}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if renderer.options.Theme != static {
		t.Fatalf("expected static theme")
	}
	if _, err := orch.Generate(context.Background(), orchestrator.Request{RenderOptions: render.RenderOptions{Theme: override}}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if renderer.options.Theme != override {
		t.Fatalf("expected request theme")
	}
}
