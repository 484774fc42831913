package model

// FieldName identifies one of the contact form inputs.
type FieldName string

const (
	FieldFirstName FieldName = "firstName"
	FieldLastName  FieldName = "lastName"
	FieldEmail     FieldName = "email"
	FieldMessage   FieldName = "message"
)

// FieldType is the input kind renderers map onto concrete controls.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeEmail    FieldType = "email"
	FieldTypeTextArea FieldType = "textarea"
)

const (
	ValidationRuleRequired  = "required"
	ValidationRuleMinLength = "minLength"
	ValidationRuleEmail     = "email"
)

const (
	// RuleParamValue carries numeric thresholds (minLength).
	RuleParamValue = "value"
	// RuleParamOn restricts a rule to a phase; only PhaseSubmit is recognised.
	RuleParamOn = "on"
	// RuleParamMessage overrides the default message for the rule.
	RuleParamMessage = "message"
)

// PhaseSubmit is the RuleParamOn value for submit-only rules.
const PhaseSubmit = "submit"

// ValidationRule represents a single validation constraint applied to a field.
// Parameters are strings to keep JSON snapshots stable.
type ValidationRule struct {
	Kind   string            `json:"kind"`
	Params map[string]string `json:"params,omitempty"`
}

// SubmitOnly reports whether the rule is skipped for change events.
func (r ValidationRule) SubmitOnly() bool {
	return r.Params[RuleParamOn] == PhaseSubmit
}

// Field models an individual input inside the form.
type Field struct {
	Name         FieldName        `json:"name"`
	Type         FieldType        `json:"type"`
	Required     bool             `json:"required"`
	Label        string           `json:"label"`
	DisplayLabel string           `json:"displayLabel"`
	Placeholder  string           `json:"placeholder,omitempty"`
	Description  string           `json:"description,omitempty"`
	Validations  []ValidationRule `json:"validations,omitempty"`
}

// FormModel is the top-level representation renderers consume.
type FormModel struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Endpoint    string  `json:"endpoint"`
	Method      string  `json:"method"`
	SubmitLabel string  `json:"submitLabel"`
	Fields      []Field `json:"fields"`
}

// Field looks up a field by name.
func (f FormModel) Field(name FieldName) (Field, bool) {
	for _, field := range f.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// FieldNames returns the field names in display order.
func (f FormModel) FieldNames() []FieldName {
	out := make([]FieldName, 0, len(f.Fields))
	for _, field := range f.Fields {
		out = append(out, field.Name)
	}
	return out
}

// Has reports whether the form declares the named field.
func (f FormModel) Has(name FieldName) bool {
	_, ok := f.Field(name)
	return ok
}
