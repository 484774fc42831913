package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/goliatone/go-contactform/pkg/contact"
	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/render"
	"github.com/goliatone/go-contactform/pkg/validation"
)

// Renderer implements render.Renderer for terminal-driven sessions. Each
// Render call walks the user through the fields, submits, and serializes
// the accepted snapshot.
type Renderer struct {
	driver            PromptDriver
	out               io.Writer
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	theme             Theme
	maxAttempts       int
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		theme:        DefaultTheme(),
		maxAttempts:  5,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = newSurveyDriver(r.out)
	}
	if _, ok := ParseOutputFormat(string(r.outputFormat)); !ok {
		return nil, fmt.Errorf("tui: unsupported output format %q", r.outputFormat)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

// Render seeds a controller with snapshot.Values, runs an interactive
// session and returns the serialized submission.
func (r *Renderer) Render(ctx context.Context, form model.FormModel, snapshot contact.Snapshot, _ render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	validator, err := validation.New(form)
	if err != nil {
		return nil, fmt.Errorf("tui: compile rules: %w", err)
	}
	ctrl, err := contact.NewController(
		contact.WithForm(form),
		contact.WithValidator(validator),
		contact.WithInitialValues(snapshot.Values),
	)
	if err != nil {
		return nil, fmt.Errorf("tui: new controller: %w", err)
	}

	submitted, err := r.Run(ctx, ctrl)
	if err != nil {
		return nil, err
	}
	return r.Serialize(form, submitted)
}

// Run drives ctrl through one editing pass and submit. Fields failing the
// submit pass are re-prompted until the submit is accepted.
func (r *Renderer) Run(ctx context.Context, ctrl *contact.Controller) (contact.Values, error) {
	if r.driver == nil {
		return contact.Values{}, errors.New("tui: prompt driver is nil")
	}
	form := ctrl.Form()

	for _, field := range form.Fields {
		if err := r.promptField(ctx, ctrl, field); err != nil {
			return contact.Values{}, err
		}
	}

	ok, err := r.driver.Confirm(ctx, ConfirmConfig{
		Message: submitLabel(form) + "?",
		Default: true,
	})
	if err != nil {
		return contact.Values{}, err
	}
	if !ok {
		return contact.Values{}, ErrDeclined
	}

	for attempt := 1; !ctrl.OnSubmit(); attempt++ {
		if r.maxAttempts > 0 && attempt >= r.maxAttempts {
			return contact.Values{}, ErrTooManyAttempts
		}
		for _, fe := range render.OrderedErrors(form, ctrl.Errors()) {
			field, _ := form.Field(fe.Field)
			if err := r.info(ctx, r.theme.ErrorPrefix+fe.Message); err != nil {
				return contact.Values{}, err
			}
			if err := r.promptField(ctx, ctrl, field); err != nil {
				return contact.Values{}, err
			}
		}
	}

	submitted, _ := ctrl.Submitted()
	if err := r.printResults(ctx, form, submitted); err != nil {
		return contact.Values{}, err
	}
	return submitted, nil
}

// promptField asks for one value until the change check passes.
func (r *Renderer) promptField(ctx context.Context, ctrl *contact.Controller, field model.Field) error {
	for attempt := 1; ; attempt++ {
		response, err := r.ask(ctx, field, ctrl.Values().Get(field.Name))
		if err != nil {
			return err
		}
		if err := ctrl.OnFieldChange(field.Name, response); err != nil {
			return err
		}
		msg := ctrl.ErrorFor(field.Name)
		if msg == "" {
			return nil
		}
		if r.maxAttempts > 0 && attempt >= r.maxAttempts {
			return fmt.Errorf("%w: %s", ErrTooManyAttempts, field.Name)
		}
		if err := r.info(ctx, r.theme.ErrorPrefix+msg); err != nil {
			return err
		}
	}
}

func (r *Renderer) ask(ctx context.Context, field model.Field, current string) (string, error) {
	label := field.Label
	if label == "" {
		label = string(field.Name)
	}
	if field.Type == model.FieldTypeTextArea {
		return r.driver.TextArea(ctx, TextAreaConfig{
			Message: label,
			Default: current,
			Help:    field.Description,
		})
	}
	return r.driver.Input(ctx, InputConfig{
		Message: label,
		Default: current,
		Help:    field.Description,
	})
}

func (r *Renderer) printResults(ctx context.Context, form model.FormModel, submitted contact.Values) error {
	if err := r.info(ctx, "You Submitted:"); err != nil {
		return err
	}
	for _, row := range render.DisplayRows(form, submitted) {
		if err := r.info(ctx, row.Label+" "+row.Value); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) info(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

// Serialize encodes submitted values in the configured output format. Empty
// optional fields are omitted.
func (r *Renderer) Serialize(form model.FormModel, submitted contact.Values) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatPrettyText:
		return []byte(prettyPrint(form, submitted)), nil
	}

	values := make(map[string]any, len(form.Fields))
	for _, row := range render.DisplayRows(form, submitted) {
		values[string(row.Field)] = row.Value
	}
	if r.submitTransformer != nil {
		var err error
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}

	if r.outputFormat == OutputFormatFormURLEncoded {
		return []byte(flattenForm(values)), nil
	}
	return json.Marshal(values)
}

func submitLabel(form model.FormModel) string {
	if form.SubmitLabel != "" {
		return form.SubmitLabel
	}
	return "Submit"
}

func flattenForm(values map[string]any) string {
	flattened := url.Values{}
	for key, value := range values {
		flattened.Set(key, fmt.Sprint(value))
	}
	return flattened.Encode()
}

func prettyPrint(form model.FormModel, submitted contact.Values) string {
	var b strings.Builder
	for _, row := range render.DisplayRows(form, submitted) {
		fmt.Fprintf(&b, "%s %s\n", row.Label, row.Value)
	}
	return b.String()
}
