package contact

import (
	"context"
	"fmt"

	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/validation"
)

// State is the controller's position in the Editing/Submitted machine.
type State int

const (
	StateEditing State = iota
	StateSubmitted
)

func (s State) String() string {
	switch s {
	case StateSubmitted:
		return "submitted"
	default:
		return "editing"
	}
}

// SubmitHook observes accepted submissions. It receives a copy of the
// snapshot.
type SubmitHook func(Values)

// Option configures a Controller.
type Option func(*Controller)

// WithForm overrides the form catalogue. The validator is rebuilt from it
// unless WithValidator is also supplied.
func WithForm(form model.FormModel) Option {
	return func(c *Controller) {
		c.form = form
		c.formSet = true
	}
}

// WithValidator injects a pre-compiled validator.
func WithValidator(v *validation.Validator) Option {
	return func(c *Controller) {
		if v != nil {
			c.validator = v
		}
	}
}

// WithInitialValues seeds field values without validating them, so a
// prefilled form shows no errors until the user acts.
func WithInitialValues(values Values) Option {
	return func(c *Controller) {
		c.values = values
	}
}

// WithSubmitHook registers a callback invoked after each accepted submit.
func WithSubmitHook(fn SubmitHook) Option {
	return func(c *Controller) {
		if fn != nil {
			c.hooks = append(c.hooks, fn)
		}
	}
}

// Controller holds the form state and applies change/submit events.
type Controller struct {
	form      model.FormModel
	formSet   bool
	validator *validation.Validator
	hooks     []SubmitHook

	values    Values
	errors    Errors
	submitted *Values
	state     State
}

// NewController builds a controller for the contact form. Invalid custom
// catalogues surface as an error from validation.New.
func NewController(options ...Option) (*Controller, error) {
	c := &Controller{
		form:   model.ContactForm(),
		errors: Errors{},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}

	if c.validator == nil {
		if c.formSet {
			v, err := validation.New(c.form)
			if err != nil {
				return nil, fmt.Errorf("contact: compile rules: %w", err)
			}
			c.validator = v
		} else {
			c.validator = validation.Default()
		}
	}
	return c, nil
}

// MustNewController panics when NewController fails.
func MustNewController(options ...Option) *Controller {
	c, err := NewController(options...)
	if err != nil {
		panic(err)
	}
	return c
}

// Form returns the catalogue the controller validates against.
func (c *Controller) Form() model.FormModel {
	return c.form
}

// OnFieldChange stores the new value and re-validates only that field.
// Errors on other fields are left as they are.
func (c *Controller) OnFieldChange(field model.FieldName, value string) error {
	if !c.form.Has(field) {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	if err := c.values.Set(field, value); err != nil {
		return err
	}
	c.revalidate(field, validation.PhaseChange)
	return nil
}

// OnSubmit re-validates every field. When any rule fails the errors reflect
// all failing fields and nothing is captured. Otherwise the current values
// are snapshotted and the controller enters StateSubmitted. It reports
// whether the submission was accepted.
func (c *Controller) OnSubmit() bool {
	for _, name := range c.form.FieldNames() {
		c.revalidate(name, validation.PhaseSubmit)
	}
	if len(c.errors) > 0 {
		return false
	}

	snapshot := c.values
	c.submitted = &snapshot
	c.state = StateSubmitted

	for _, hook := range c.hooks {
		hook(snapshot)
	}
	return true
}

// Reset clears values, errors and the snapshot, returning to StateEditing.
func (c *Controller) Reset() {
	c.values = Values{}
	c.errors = Errors{}
	c.submitted = nil
	c.state = StateEditing
}

func (c *Controller) revalidate(field model.FieldName, phase validation.Phase) {
	if msg := c.validator.Check(field, c.values.Get(field), phase); msg != "" {
		c.errors[field] = msg
		return
	}
	delete(c.errors, field)
}

// Values returns a copy of the current field values.
func (c *Controller) Values() Values {
	return c.values
}

// Errors returns a copy of the current field errors.
func (c *Controller) Errors() Errors {
	return c.errors.Clone()
}

// ErrorFor returns the active error for a field, or "".
func (c *Controller) ErrorFor(field model.FieldName) string {
	return c.errors[field]
}

// ErrorCount reports how many fields currently fail.
func (c *Controller) ErrorCount() int {
	return len(c.errors)
}

// Submitted returns the last accepted snapshot.
func (c *Controller) Submitted() (Values, bool) {
	if c.submitted == nil {
		return Values{}, false
	}
	return *c.submitted, true
}

// State reports the current state.
func (c *Controller) State() State {
	return c.state
}

// Snapshot captures everything a renderer needs in one immutable value.
func (c *Controller) Snapshot() Snapshot {
	snap := Snapshot{
		State:  c.state,
		Values: c.values,
		Errors: c.errors.Clone(),
	}
	if c.submitted != nil {
		submitted := *c.submitted
		snap.Submitted = &submitted
	}
	return snap
}

// Snapshot is a read-only copy of the controller state.
type Snapshot struct {
	State     State   `json:"state"`
	Values    Values  `json:"values"`
	Errors    Errors  `json:"errors,omitempty"`
	Submitted *Values `json:"submitted,omitempty"`
}

// EventKind names an event a host can dispatch.
type EventKind string

const (
	EventChange EventKind = "change"
	EventSubmit EventKind = "submit"
	EventReset  EventKind = "reset"
)

// Event is the data form of a controller call, for hosts that receive user
// actions as messages.
type Event struct {
	Kind  EventKind       `json:"kind"`
	Field model.FieldName `json:"field,omitempty"`
	Value string          `json:"value,omitempty"`
}

// HandleEvent dispatches an event to the matching controller operation.
func (c *Controller) HandleEvent(ctx context.Context, event Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	switch event.Kind {
	case EventChange:
		return c.OnFieldChange(event.Field, event.Value)
	case EventSubmit:
		c.OnSubmit()
		return nil
	case EventReset:
		c.Reset()
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, event.Kind)
	}
}
