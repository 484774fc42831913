package openapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-contactform/pkg/model"
)

const (
	// SubmitPath is the JSON submission route.
	SubmitPath = "/api/contact"
	// SubmitOperationID names the submission operation.
	SubmitOperationID = "submitContact"

	contentTypeJSON = "application/json"
	specVersion     = "3.0.3"
)

// Options configures the generated document.
type Options struct {
	Title   string
	Version string
	Servers []string
}

// DefaultOptions returns the options used by the CLI and HTTP host.
func DefaultOptions() Options {
	return Options{
		Title:   "Contact Form API",
		Version: "1.0.0",
	}
}

// Build assembles the document for form.
func Build(form model.FormModel, opts Options) (*openapi3.T, error) {
	if len(form.Fields) == 0 {
		return nil, errors.New("openapi: form has no fields")
	}
	if opts.Title == "" {
		opts.Title = DefaultOptions().Title
	}
	if opts.Version == "" {
		opts.Version = DefaultOptions().Version
	}

	request, err := RequestSchema(form)
	if err != nil {
		return nil, err
	}

	op := openapi3.NewOperation()
	op.OperationID = SubmitOperationID
	op.Summary = "Submit the " + form.Title
	op.RequestBody = &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().
			WithRequired(true).
			WithJSONSchema(request),
	}
	op.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().
				WithDescription("Submission accepted; echoes the submitted values.").
				WithJSONSchema(submittedSchema(form)),
		}),
		openapi3.WithStatus(http.StatusUnprocessableEntity, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().
				WithDescription("Validation failed; one message per failing field.").
				WithJSONSchema(errorsSchema(form)),
		}),
	)

	doc := &openapi3.T{
		OpenAPI: specVersion,
		Info: &openapi3.Info{
			Title:   opts.Title,
			Version: opts.Version,
		},
		Paths: openapi3.NewPaths(
			openapi3.WithPath(SubmitPath, &openapi3.PathItem{Post: op}),
		),
	}
	for _, url := range opts.Servers {
		doc.Servers = append(doc.Servers, &openapi3.Server{URL: url})
	}
	return doc, nil
}

// RequestSchema maps field rules onto JSON schema keywords. Submit-only
// rules apply because the endpoint always submits.
func RequestSchema(form model.FormModel) (*openapi3.Schema, error) {
	schema := openapi3.NewObjectSchema()
	var required []string
	for _, field := range form.Fields {
		prop, isRequired, err := fieldSchema(field)
		if err != nil {
			return nil, err
		}
		schema.WithProperty(string(field.Name), prop)
		if isRequired {
			required = append(required, string(field.Name))
		}
	}
	schema.Required = required
	return schema, nil
}

func fieldSchema(field model.Field) (*openapi3.Schema, bool, error) {
	prop := openapi3.NewStringSchema()
	prop.Title = field.Label
	prop.Description = field.Description

	required := false
	for _, rule := range field.Validations {
		switch rule.Kind {
		case model.ValidationRuleRequired:
			required = true
			prop.MinLength = 1
		case model.ValidationRuleMinLength:
			n, err := strconv.ParseUint(rule.Params[model.RuleParamValue], 10, 64)
			if err != nil {
				return nil, false, fmt.Errorf("openapi: field %s: minLength: %w", field.Name, err)
			}
			prop.MinLength = n
		case model.ValidationRuleEmail:
			prop.Format = "email"
		default:
			return nil, false, fmt.Errorf("openapi: field %s: unsupported rule %q", field.Name, rule.Kind)
		}
	}
	return prop, required, nil
}

func submittedSchema(form model.FormModel) *openapi3.Schema {
	schema := openapi3.NewObjectSchema()
	for _, field := range form.Fields {
		schema.WithProperty(string(field.Name), openapi3.NewStringSchema())
	}
	return schema
}

func errorsSchema(form model.FormModel) *openapi3.Schema {
	messages := openapi3.NewObjectSchema()
	for _, field := range form.Fields {
		messages.WithProperty(string(field.Name), openapi3.NewStringSchema())
	}
	return openapi3.NewObjectSchema().WithProperty("errors", messages)
}

// Validate checks the document against the OpenAPI 3 rules.
func Validate(ctx context.Context, doc *openapi3.T) error {
	if doc == nil {
		return errors.New("openapi: document is nil")
	}
	if err := doc.Validate(ctx); err != nil {
		return fmt.Errorf("openapi: validate: %w", err)
	}
	return nil
}

// JSON builds, validates and encodes the document for form.
func JSON(ctx context.Context, form model.FormModel, opts Options) ([]byte, error) {
	doc, err := Build(form, opts)
	if err != nil {
		return nil, err
	}
	if err := Validate(ctx, doc); err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("openapi: encode: %w", err)
	}
	return data, nil
}

// Load parses an encoded document, e.g. one produced by JSON.
func Load(ctx context.Context, data []byte) (*openapi3.T, error) {
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	return doc, nil
}
