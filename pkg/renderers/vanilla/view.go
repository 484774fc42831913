package vanilla

import (
	"strings"

	"github.com/goliatone/go-contactform/pkg/contact"
	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/render"
)

type formView struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Method      string `json:"method"`
	SubmitLabel string `json:"submit_label"`
}

type fieldView struct {
	Name        string   `json:"name"`
	Label       string   `json:"label"`
	Type        string   `json:"type"`
	InputType   string   `json:"input_type"`
	Value       string   `json:"value"`
	Placeholder string   `json:"placeholder,omitempty"`
	Description string   `json:"description,omitempty"`
	Required    bool     `json:"required"`
	Errors      []string `json:"errors"`
}

type rowView struct {
	Field string `json:"field"`
	Label string `json:"label"`
	Value string `json:"value"`
}

type pageView struct {
	Form           formView     `json:"form"`
	Action         string       `json:"action"`
	ChangeEndpoint string       `json:"change_endpoint,omitempty"`
	Revision       uint64       `json:"revision,string"`
	State          string       `json:"state"`
	Fields         []fieldView  `json:"fields"`
	Submitted      bool         `json:"submitted"`
	Rows           []rowView    `json:"rows,omitempty"`
	Theme          themeContext `json:"theme"`
	Styles         string       `json:"styles,omitempty"`
	Stylesheets    []string     `json:"stylesheets,omitempty"`
	Script         string       `json:"script,omitempty"`
}

func buildFieldView(field model.Field, snapshot contact.Snapshot) fieldView {
	view := fieldView{
		Name:        string(field.Name),
		Label:       field.Label,
		Type:        string(field.Type),
		InputType:   inputType(field.Type),
		Value:       snapshot.Values.Get(field.Name),
		Placeholder: field.Placeholder,
		Description: field.Description,
		Required:    field.Required,
		Errors:      []string{},
	}
	if view.Label == "" {
		view.Label = string(field.Name)
	}
	if msg := snapshot.Errors[field.Name]; msg != "" {
		view.Errors = append(view.Errors, msg)
	}
	return view
}

func inputType(t model.FieldType) string {
	switch t {
	case model.FieldTypeEmail:
		return "email"
	case model.FieldTypeTextArea:
		return "textarea"
	default:
		return "text"
	}
}

func (r *Renderer) buildPageView(form model.FormModel, snapshot contact.Snapshot, opts render.RenderOptions) pageView {
	view := pageView{
		Form: formView{
			ID:          form.ID,
			Title:       form.Title,
			Method:      strings.ToLower(form.Method),
			SubmitLabel: form.SubmitLabel,
		},
		Action:         form.Endpoint,
		ChangeEndpoint: opts.ChangeEndpoint,
		Revision:       opts.Revision,
		State:          snapshot.State.String(),
		Fields:         make([]fieldView, 0, len(form.Fields)),
		Theme:          buildThemeContext(opts.Theme),
	}
	if opts.Action != "" {
		view.Action = opts.Action
	}
	if view.Form.Method == "" {
		view.Form.Method = "post"
	}
	if view.Form.SubmitLabel == "" {
		view.Form.SubmitLabel = "Submit"
	}

	for _, field := range form.Fields {
		view.Fields = append(view.Fields, buildFieldView(field, snapshot))
	}

	if snapshot.Submitted != nil {
		view.Submitted = true
		for _, row := range render.DisplayRows(form, *snapshot.Submitted) {
			view.Rows = append(view.Rows, rowView{
				Field: string(row.Field),
				Label: row.Label,
				Value: row.Value,
			})
		}
	}

	if opts.Standalone {
		if r.inlineStyles {
			view.Styles = readAsset(StylesheetName)
		}
		view.Stylesheets = append(view.Stylesheets, r.stylesheets...)
		if view.Theme.Stylesheet != "" {
			view.Stylesheets = append(view.Stylesheets, view.Theme.Stylesheet)
		}
		if opts.ChangeEndpoint != "" {
			view.Script = readAsset(RuntimeScriptName)
		}
	}
	return view
}
