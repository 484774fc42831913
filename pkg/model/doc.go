// Package model describes the contact form as data: the fixed catalogue of
// fields, their labels, input kinds and validation rules. Controllers,
// renderers and the schema exporter all read the same FormModel so labels and
// rules never drift between surfaces. Validation rules use canonical
// identifiers (required, minLength, email) with string parameters; the
// optional "on" parameter restricts a rule to the submit phase and "message"
// overrides the default wording.
package model
