package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-contactform/pkg/contact"
	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/render"
	rendertemplate "github.com/goliatone/go-contactform/pkg/render/template"
	gotemplate "github.com/goliatone/go-contactform/pkg/render/template/gotemplate"
)

const (
	pageTemplate        = "templates/page.tmpl"
	componentTemplate   = "templates/contact.tmpl"
	fieldErrorsTemplate = "templates/partials/field_errors.tmpl"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	inlineStyles     bool
	stylesheets      []string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk laid out like the
// embedded bundle (templates/contact.tmpl, templates/page.tmpl, ...).
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation. It
// must provide the "markup" filter used for field descriptions.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithDefaultStyles inlines the bundled stylesheet in standalone pages.
func WithDefaultStyles() Option {
	return func(cfg *config) {
		cfg.inlineStyles = true
	}
}

// WithStylesheet links an additional stylesheet in standalone pages.
func WithStylesheet(href string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(href); trimmed != "" {
			cfg.stylesheets = append(cfg.stylesheets, trimmed)
		}
	}
}

// Renderer produces the contact form markup: inputs with their error
// elements, and the results view once a snapshot exists.
type Renderer struct {
	templates    rendertemplate.TemplateRenderer
	inlineStyles bool
	stylesheets  []string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
			gotemplate.WithFilters(templateFilters()),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates:    renderer,
		inlineStyles: cfg.inlineStyles,
		stylesheets:  cfg.stylesheets,
	}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render emits the component markup, or a full document when
// opts.Standalone is set.
func (r *Renderer) Render(ctx context.Context, form model.FormModel, snapshot contact.Snapshot, opts render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	name := componentTemplate
	if opts.Standalone {
		name = pageTemplate
	}

	result, err := r.templates.RenderTemplate(name, r.buildPageView(form, snapshot, opts))
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

// RenderFieldErrors emits the error slot for a single field. Hosts answer
// change events with it so the page can swap the slot in place.
func (r *Renderer) RenderFieldErrors(ctx context.Context, form model.FormModel, snapshot contact.Snapshot, name model.FieldName) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	field, ok := form.Field(name)
	if !ok {
		return nil, fmt.Errorf("vanilla renderer: %w: %q", contact.ErrUnknownField, name)
	}

	result, err := r.templates.RenderTemplate(fieldErrorsTemplate, map[string]any{
		"field": buildFieldView(field, snapshot),
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render field errors: %w", err)
	}
	return []byte(result), nil
}
