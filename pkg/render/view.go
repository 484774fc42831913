package render

import (
	"github.com/goliatone/go-contactform/pkg/contact"
	"github.com/goliatone/go-contactform/pkg/model"
)

// Row is one labeled line of the results view.
type Row struct {
	Field model.FieldName
	Label string
	Value string
}

// DisplayRows lists the results view rows for a submitted snapshot. Required
// fields always get a row; optional ones only when they carry a value.
func DisplayRows(form model.FormModel, submitted contact.Values) []Row {
	rows := make([]Row, 0, len(form.Fields))
	for _, field := range form.Fields {
		value := submitted.Get(field.Name)
		if !field.Required && value == "" {
			continue
		}
		rows = append(rows, Row{
			Field: field.Name,
			Label: displayLabel(field),
			Value: value,
		})
	}
	return rows
}

// FieldError pairs a failing field with its message.
type FieldError struct {
	Field   model.FieldName
	Label   string
	Message string
}

// OrderedErrors returns the active errors in form order.
func OrderedErrors(form model.FormModel, errs contact.Errors) []FieldError {
	names := errs.Ordered(form)
	if len(names) == 0 {
		return nil
	}
	out := make([]FieldError, 0, len(names))
	for _, name := range names {
		label := string(name)
		if field, ok := form.Field(name); ok {
			label = inputLabel(field)
		}
		out = append(out, FieldError{Field: name, Label: label, Message: errs[name]})
	}
	return out
}

func displayLabel(field model.Field) string {
	if field.DisplayLabel != "" {
		return field.DisplayLabel
	}
	return string(field.Name) + ":"
}

func inputLabel(field model.Field) string {
	if field.Label != "" {
		return field.Label
	}
	return string(field.Name)
}
