// Package contactform is the convenience entry point: it re-exports the
// controller, the orchestrator and the embedded HTML assets.
package contactform

import (
	"context"
	"io/fs"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-contactform/pkg/contact"
	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/orchestrator"
	"github.com/goliatone/go-contactform/pkg/render"
	"github.com/goliatone/go-contactform/pkg/renderers/vanilla"
)

// Controller aliases contact.Controller.
type Controller = contact.Controller

// Values aliases contact.Values.
type Values = contact.Values

// Snapshot aliases contact.Snapshot.
type Snapshot = contact.Snapshot

// FieldName aliases model.FieldName.
type FieldName = model.FieldName

// RenderOptions describes per-request rendering instructions.
type RenderOptions = render.RenderOptions

// NewController builds a controller over the built-in contact form.
func NewController(options ...contact.Option) (*Controller, error) {
	return contact.NewController(options...)
}

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// RenderHTML renders the controller's current state with the vanilla
// renderer. Standalone output is a full HTML document.
func RenderHTML(ctx context.Context, ctrl *Controller, opts RenderOptions, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Renderer:      "vanilla",
		Snapshot:      ctrl.Snapshot(),
		RenderOptions: opts,
	})
}

// WithThemeSelector passes a go-theme selector through to the orchestrator so
// theme/variant choices can be resolved ahead of rendering.
func WithThemeSelector(selector theme.ThemeSelector, name, variant string) orchestrator.Option {
	return orchestrator.WithThemeSelector(selector, name, variant)
}

// EmbeddedTemplates exposes the built-in vanilla renderer templates so callers
// can reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// EmbeddedAssets exposes the stylesheet and the live-validation script.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(contactform.EmbeddedAssets()),
//	  ),
//	)
func EmbeddedAssets() fs.FS {
	return vanilla.AssetsFS()
}
