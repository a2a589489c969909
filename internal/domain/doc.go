// Package domain defines the core business entities of the task tracker:
// users, tasks, and the validation rules and errors that apply to them.
// It has no dependencies on storage, transport, or other infrastructure.
package domain
