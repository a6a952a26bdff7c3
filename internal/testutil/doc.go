// Package testutil provides deterministic building blocks for package tests:
// a manually advanced clock and scripted agent implementations. It is
// internal so the public API surface stays free of test-only types.
package testutil
