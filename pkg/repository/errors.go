// Package repository holds sentinel errors and shared test suites for the
// persistence backends.
package repository

import "github.com/m-mizutani/goerr/v2"

// ErrNotFound is wrapped by all backends when a requested entity does not
// exist, so callers can map it regardless of the configured backend.
var ErrNotFound = goerr.New("not found")
