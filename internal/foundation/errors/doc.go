// Package errors provides the classified error primitives used across graphql2js.
//
// Every failure that crosses a component boundary is a ClassifiedError carrying a
// category (config, resolution, transform, filesystem, ...), a severity and
// structured context. The build orchestrator uses the category to decide whether
// a failure is per-file (skip and continue) or fatal at startup.
//
// Example usage:
//
//	err := errors.WrapError(parseErr, errors.CategoryTransform, "parse graphql document").
//		WithContext("path", sourcePath).
//		Build()
package errors
