// Package mocks provides centralized mock implementations for testing.
//
// Instead of defining inline mocks in individual test files, these
// standardized implementations are shared across test packages. Each mock
// follows the same pattern: optional function fields override behavior per
// test, and map-backed defaults give a working in-memory fake when no
// override is set.
package mocks
