// Package api implements the HTTP delivery layer: request/response models,
// handlers, and the error-to-status mapping. Handlers stay thin; they
// decode and validate input, call a service, and translate the outcome.
// Authentication and trace propagation live in the middleware subpackage,
// response plumbing in shared.
package api
