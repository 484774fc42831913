package testsupport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-contactform/pkg/contact"
	"github.com/goliatone/go-contactform/pkg/model"
)

// ErrorMarker is the attribute every rendered error element carries.
const ErrorMarker = `data-testid="error"`

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// MustController builds a controller over the default contact form.
func MustController(t *testing.T, options ...contact.Option) *contact.Controller {
	t.Helper()

	ctrl, err := contact.NewController(options...)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	return ctrl
}

// Fill feeds each value through OnFieldChange in form order, the way a user
// typing into the form would.
func Fill(t *testing.T, ctrl *contact.Controller, values map[model.FieldName]string) {
	t.Helper()

	for _, name := range ctrl.Form().FieldNames() {
		value, ok := values[name]
		if !ok {
			continue
		}
		if err := ctrl.OnFieldChange(name, value); err != nil {
			t.Fatalf("change %s: %v", name, err)
		}
	}
}

// ValidValues returns a submission that passes every rule.
func ValidValues() contact.Values {
	return contact.Values{
		FirstName: "Johnny",
		LastName:  "Doe",
		Email:     "johnny@example.com",
		Message:   "Hello there",
	}
}

// CountErrors returns how many error elements appear in rendered markup.
func CountErrors(markup string) int {
	return strings.Count(markup, ErrorMarker)
}

// HasDisplayRow reports whether the results view contains the display
// element for field.
func HasDisplayRow(markup string, field model.FieldName) bool {
	return strings.Contains(markup, fmt.Sprintf(`data-testid="%sDisplay"`, field))
}

// LoadValues reads a JSON fixture into contact.Values.
func LoadValues(path string) (contact.Values, error) {
	if path == "" {
		return contact.Values{}, errors.New("testsupport: values path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return contact.Values{}, fmt.Errorf("testsupport: read values: %w", err)
	}
	var out contact.Values
	if err := json.Unmarshal(data, &out); err != nil {
		return contact.Values{}, fmt.Errorf("testsupport: unmarshal values: %w", err)
	}
	return out, nil
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}
