package orchestrator

import (
	"context"
	"errors"
	"fmt"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-contactform/pkg/contact"
	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/render"
	"github.com/goliatone/go-contactform/pkg/renderers/vanilla"
)

const defaultRendererName = "vanilla"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithForm replaces the built-in contact form catalogue.
func WithForm(form model.FormModel) Option {
	return func(o *Orchestrator) {
		o.form = form
	}
}

// WithSchemaTransformer registers a Transformer that mutates a copy of the
// form before every render.
func WithSchemaTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithThemeSelector resolves themes per request through a go-theme
// selector. name and variant are used when the request leaves them empty.
func WithThemeSelector(selector theme.ThemeSelector, name, variant string) Option {
	return func(o *Orchestrator) {
		o.themeSelector = selector
		o.themeName = name
		o.themeVariant = variant
	}
}

// WithThemeConfig passes a fixed renderer theme configuration.
func WithThemeConfig(cfg *theme.RendererConfig) Option {
	return func(o *Orchestrator) {
		o.themeConfig = cfg
	}
}

// Orchestrator coordinates form preparation and rendering. The vanilla
// renderer is registered when no registry is supplied.
type Orchestrator struct {
	registry        *render.Registry
	defaultRenderer string
	form            model.FormModel
	transformer     Transformer
	themeSelector   theme.ThemeSelector
	themeName       string
	themeVariant    string
	themeConfig     *theme.RendererConfig
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
		form:            model.ContactForm(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes a single render.
type Request struct {
	// Renderer names the renderer to use. If empty, the orchestrator falls back
	// to the configured default renderer.
	Renderer string

	// Snapshot is the controller state to render.
	Snapshot contact.Snapshot

	// ThemeName and ThemeVariant override the selector defaults.
	ThemeName    string
	ThemeVariant string

	// RenderOptions carries per-request instructions. A Theme set here wins
	// over any configured theme.
	RenderOptions render.RenderOptions
}

// Generate prepares the form and returns the renderer output.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := o.initialiseErr; err != nil {
		return nil, err
	}

	form, err := o.Form(ctx)
	if err != nil {
		return nil, err
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	opts := req.RenderOptions
	if opts.Theme == nil {
		opts.Theme, err = o.resolveTheme(req)
		if err != nil {
			return nil, err
		}
	}

	output, err := renderer.Render(ctx, form, req.Snapshot, opts)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

// Form returns the catalogue after the configured transformer ran on a copy.
func (o *Orchestrator) Form(ctx context.Context) (model.FormModel, error) {
	form := cloneForm(o.form)
	if o.transformer == nil {
		return form, nil
	}
	if err := o.transformer.Transform(ctx, &form); err != nil {
		return model.FormModel{}, fmt.Errorf("orchestrator: transform form: %w", err)
	}
	return form, nil
}

// Registry exposes the renderer registry.
func (o *Orchestrator) Registry() *render.Registry {
	return o.registry
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}

	renderer, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}

func (o *Orchestrator) resolveTheme(req Request) (*theme.RendererConfig, error) {
	if o.themeSelector == nil {
		return o.themeConfig, nil
	}

	name := req.ThemeName
	if name == "" {
		name = o.themeName
	}
	variant := req.ThemeVariant
	if variant == "" {
		variant = o.themeVariant
	}

	selection, err := o.themeSelector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: select theme: %w", err)
	}
	cfg := selection.RendererTheme(nil)
	return &cfg, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := vanilla.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.registry.MustRegister(renderer)
		}
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
}

func cloneForm(form model.FormModel) model.FormModel {
	out := form
	out.Fields = append([]model.Field(nil), form.Fields...)
	return out
}
