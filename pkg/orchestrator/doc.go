// Package orchestrator wires the contact form catalogue, optional form
// presets, theme selection and the renderer registry behind a single
// Generate call.
package orchestrator
