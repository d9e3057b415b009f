// Package mocks provides centralized mock implementations for testing.
//
// Instead of defining inline mocks in individual test files, these
// standardized implementations are reused across test packages. Each mock
// offers a working in-memory default plus per-method function fields for
// overriding behavior in a single test.
package mocks
