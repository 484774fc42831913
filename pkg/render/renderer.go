package render

import (
	"context"

	"github.com/goliatone/go-contactform/pkg/contact"
	"github.com/goliatone/go-contactform/pkg/model"
)

// Renderer converts a controller snapshot into a byte representation (HTML,
// terminal output, serialized values).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form model.FormModel, snapshot contact.Snapshot, options RenderOptions) ([]byte, error)
}
