package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/goliatone/go-contactform/pkg/model"
)

// Phase selects which rules apply: change events skip submit-only rules.
type Phase int

const (
	PhaseChange Phase = iota
	PhaseSubmit
)

func (p Phase) String() string {
	if p == PhaseSubmit {
		return "submit"
	}
	return "change"
}

var defaultMessages = map[string]string{
	model.ValidationRuleRequired:  "%s is a required field",
	model.ValidationRuleMinLength: "%s must have at least %s characters",
	model.ValidationRuleEmail:     "%s must be a valid email address",
}

// tagKinds maps validator tags back onto model rule kinds.
var tagKinds = map[string]string{
	"required": model.ValidationRuleRequired,
	"min":      model.ValidationRuleMinLength,
	"email":    model.ValidationRuleEmail,
}

var (
	engineOnce sync.Once
	engine     *validator.Validate
)

func sharedEngine() *validator.Validate {
	engineOnce.Do(func() {
		engine = validator.New()
	})
	return engine
}

type fieldRules struct {
	tags     [2]string
	messages map[string]string
	params   map[string]string
}

// Validator evaluates the rules declared on a FormModel. It never fails on
// user input: a failing rule yields a message, a passing field yields "".
type Validator struct {
	engine *validator.Validate
	rules  map[model.FieldName]fieldRules
}

// New compiles the rules declared by form. Unknown rule kinds are rejected so
// a misconfigured catalogue fails at construction rather than per keystroke.
func New(form model.FormModel) (*Validator, error) {
	v := &Validator{
		engine: sharedEngine(),
		rules:  make(map[model.FieldName]fieldRules, len(form.Fields)),
	}
	for _, field := range form.Fields {
		compiled, err := compileField(field)
		if err != nil {
			return nil, err
		}
		v.rules[field.Name] = compiled
	}
	return v, nil
}

// MustNew panics when the form rules do not compile. Useful for init-time
// wiring of static catalogues.
func MustNew(form model.FormModel) *Validator {
	v, err := New(form)
	if err != nil {
		panic(err)
	}
	return v
}

var (
	defaultOnce      sync.Once
	defaultValidator *Validator
)

// Default returns the validator for model.ContactForm.
func Default() *Validator {
	defaultOnce.Do(func() {
		defaultValidator = MustNew(model.ContactForm())
	})
	return defaultValidator
}

func compileField(field model.Field) (fieldRules, error) {
	out := fieldRules{
		messages: make(map[string]string),
		params:   make(map[string]string),
	}
	var change, submit []string
	requiredOnChange, requiredOnSubmit := false, false

	for _, rule := range field.Validations {
		var tag string
		switch rule.Kind {
		case model.ValidationRuleRequired:
			tag = "required"
		case model.ValidationRuleMinLength:
			value := strings.TrimSpace(rule.Params[model.RuleParamValue])
			if value == "" {
				return fieldRules{}, fmt.Errorf("validation: field %s: minLength requires a value", field.Name)
			}
			tag = "min=" + value
			out.params[rule.Kind] = value
		case model.ValidationRuleEmail:
			tag = "email"
		default:
			return fieldRules{}, fmt.Errorf("validation: field %s: unsupported rule %q", field.Name, rule.Kind)
		}

		if msg := strings.TrimSpace(rule.Params[model.RuleParamMessage]); msg != "" {
			out.messages[rule.Kind] = msg
		}

		if tag == "required" {
			requiredOnSubmit = true
			if !rule.SubmitOnly() {
				requiredOnChange = true
			}
			continue
		}
		submit = append(submit, tag)
		if !rule.SubmitOnly() {
			change = append(change, tag)
		}
	}

	out.tags[PhaseChange] = joinTags(requiredOnChange, change)
	out.tags[PhaseSubmit] = joinTags(requiredOnSubmit, submit)
	return out, nil
}

// joinTags puts required first so an empty value reports "required" rather
// than a format failure; optional fields get omitempty instead.
func joinTags(required bool, tags []string) string {
	if len(tags) == 0 {
		if required {
			return "required"
		}
		return ""
	}
	lead := "omitempty"
	if required {
		lead = "required"
	}
	return lead + "," + strings.Join(tags, ",")
}

// Check validates one field's raw value. Fields without rules, or unknown to
// the form, always pass.
func (v *Validator) Check(field model.FieldName, value string, phase Phase) string {
	if v == nil {
		return ""
	}
	rules, ok := v.rules[field]
	if !ok {
		return ""
	}
	tag := rules.tags[phase]
	if tag == "" {
		return ""
	}

	err := v.engine.Var(value, tag)
	if err == nil {
		return ""
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Sprintf("%s is invalid", field)
	}
	return rules.message(field, fieldErrs[0].Tag())
}

// CheckAll validates every field present in values and returns the failing
// ones. The result is nil when everything passes.
func (v *Validator) CheckAll(values map[model.FieldName]string, phase Phase) map[model.FieldName]string {
	if v == nil {
		return nil
	}
	var out map[model.FieldName]string
	for name := range v.rules {
		if msg := v.Check(name, values[name], phase); msg != "" {
			if out == nil {
				out = make(map[model.FieldName]string)
			}
			out[name] = msg
		}
	}
	return out
}

// Tag exposes the compiled validator tag for a field and phase.
func (v *Validator) Tag(field model.FieldName, phase Phase) string {
	if v == nil {
		return ""
	}
	return v.rules[field].tags[phase]
}

func (r fieldRules) message(field model.FieldName, tag string) string {
	kind, ok := tagKinds[tag]
	if !ok {
		return fmt.Sprintf("%s is invalid", field)
	}
	if msg, ok := r.messages[kind]; ok {
		return msg
	}
	format := defaultMessages[kind]
	if kind == model.ValidationRuleMinLength {
		return fmt.Sprintf(format, field, r.params[kind])
	}
	return fmt.Sprintf(format, field)
}
