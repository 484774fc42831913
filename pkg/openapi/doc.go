// Package openapi describes the contact form submission endpoint as an
// OpenAPI 3 document built with kin-openapi. The request schema is derived
// from the form catalogue so the published contract and the validator
// share a single source of rules.
package openapi
