package render

import theme "github.com/goliatone/go-theme"

// RenderOptions carries per-request rendering instructions.
type RenderOptions struct {
	// Standalone wraps the component in a complete HTML document. Renderers
	// without a document notion ignore it.
	Standalone bool
	// Action overrides the form's submit endpoint.
	Action string
	// ChangeEndpoint is the URL prefix receiving per-field change events; the
	// field name is appended. Empty disables live validation markup.
	ChangeEndpoint string
	// Revision identifies the rendered page. Change events echo it back so
	// hosts can drop events from pages that were since replaced.
	Revision uint64
	// Theme carries resolved tokens, CSS variables and asset URLs.
	Theme *theme.RendererConfig
}
