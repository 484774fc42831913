package vanilla

import (
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"
)

var (
	markupPolicyOnce sync.Once
	markupPolicy     *bluemonday.Policy
)

// sanitizeMarkup keeps the inline formatting and links an operator may put in
// field descriptions and drops everything else. User-entered values never go
// through here; autoescape renders them verbatim.
func sanitizeMarkup(raw string) string {
	if raw == "" {
		return ""
	}
	markupPolicyOnce.Do(func() {
		markupPolicy = bluemonday.UGCPolicy()
	})
	return markupPolicy.Sanitize(raw)
}

func filterMarkup(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsSafeValue(sanitizeMarkup(in.String())), nil
}

func templateFilters() map[string]pongo2.FilterFunction {
	return map[string]pongo2.FilterFunction{
		"markup": filterMarkup,
	}
}
