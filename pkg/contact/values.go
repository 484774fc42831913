package contact

import (
	"fmt"
	"sort"

	"github.com/goliatone/go-contactform/pkg/model"
)

// Values holds the raw field values. Message is optional.
type Values struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Message   string `json:"message,omitempty"`
}

// Get returns the value of a named field.
func (v Values) Get(name model.FieldName) string {
	switch name {
	case model.FieldFirstName:
		return v.FirstName
	case model.FieldLastName:
		return v.LastName
	case model.FieldEmail:
		return v.Email
	case model.FieldMessage:
		return v.Message
	default:
		return ""
	}
}

// Set writes a named field.
func (v *Values) Set(name model.FieldName, value string) error {
	switch name {
	case model.FieldFirstName:
		v.FirstName = value
	case model.FieldLastName:
		v.LastName = value
	case model.FieldEmail:
		v.Email = value
	case model.FieldMessage:
		v.Message = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return nil
}

// Map returns the values keyed by field name.
func (v Values) Map() map[model.FieldName]string {
	return map[model.FieldName]string{
		model.FieldFirstName: v.FirstName,
		model.FieldLastName:  v.LastName,
		model.FieldEmail:     v.Email,
		model.FieldMessage:   v.Message,
	}
}

// HasMessage reports whether the optional message should be displayed.
func (v Values) HasMessage() bool {
	return v.Message != ""
}

// ValuesFromMap builds Values from a field-keyed map, ignoring unknown keys.
func ValuesFromMap(in map[string]string) Values {
	var out Values
	for key, value := range in {
		if name, ok := model.ParseFieldName(key); ok {
			_ = out.Set(name, value)
		}
	}
	return out
}

// Errors maps failing fields to their message. A field is present only while
// it fails its rule.
type Errors map[model.FieldName]string

// Count reports the number of failing fields.
func (e Errors) Count() int {
	return len(e)
}

// Clone returns an independent copy.
func (e Errors) Clone() Errors {
	if len(e) == 0 {
		return Errors{}
	}
	out := make(Errors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// Ordered returns the failing fields following the form's display order;
// fields unknown to the form sort last by name.
func (e Errors) Ordered(form model.FormModel) []model.FieldName {
	if len(e) == 0 {
		return nil
	}
	rank := make(map[model.FieldName]int, len(form.Fields))
	for i, field := range form.Fields {
		rank[field.Name] = i
	}
	out := make([]model.FieldName, 0, len(e))
	for name := range e {
		out = append(out, name)
	}
	sort.Slice(out, func(i, j int) bool {
		ri, iok := rank[out[i]]
		rj, jok := rank[out[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return out[i] < out[j]
		}
	})
	return out
}
