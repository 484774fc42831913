package contactform

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/goliatone/go-contactform/pkg/model"
)

func TestRenderHTMLFromController(t *testing.T) {
	ctrl, err := NewController()
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	if err := ctrl.OnFieldChange(model.FieldEmail, "johnny@"); err != nil {
		t.Fatalf("change: %v", err)
	}

	out, err := RenderHTML(context.Background(), ctrl, RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), "email must be a valid email address") {
		t.Fatalf("expected email error, got:\n%s", out)
	}
}

func TestEmbeddedFS(t *testing.T) {
	if _, err := fs.Stat(EmbeddedTemplates(), "templates/contact.tmpl"); err != nil {
		t.Fatalf("expected contact template: %v", err)
	}
	if _, err := fs.Stat(EmbeddedAssets(), "contactform.js"); err != nil {
		t.Fatalf("expected runtime script: %v", err)
	}
}
