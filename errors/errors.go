/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package errors provides the error types surfaced by cvx conversions.
//
// All three types are produced exclusively by the conversion service:
// resolution itself never fails (absence of a rule is a normal lookup
// outcome), and composite adapters let element-level failures propagate
// unchanged so that the cause chain always bottoms out at the rule that
// actually failed.
//
// The errors are simple value carriers with stable message formats. They
// are designed to be:
//
//   - easy to recognize via errors.As type assertions,
//   - recoverable at the call site (none of them indicate corruption),
//   - and informative enough in logs to identify the offending type pair.
//
// # Error Types
//
//   - NoRuleFoundError
//     Returned when resolution and every fallback come up empty for a
//     type pair. Probing with CanConvert beforehand avoids it.
//
//   - ConversionFailedError
//     Returned when a resolved rule ran and failed. The underlying cause
//     is preserved and reachable through errors.Unwrap / errors.As.
//
//   - TypeMismatchError
//     Returned when a caller-declared source type does not match the
//     actual runtime type of a non-nil value. This is a programming
//     contract violation and is never silently coerced.
//
// The root cvx package aliases these types so most callers never import
// this package directly.
package errors

import "reflect"

// typeName renders a reflect.Type for error messages, tolerating nil.
func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

// NoRuleFoundError is returned when no registered rule, assignability
// bypass or fallback covers a requested type pair.
//
// Source and Target identify the pair as requested by the caller, before
// any lattice generalization. Value carries the input that triggered the
// search; it may be nil when the search was type-only (CanConvert probes
// do not produce this error at all).
type NoRuleFoundError struct {
	// Source is the source type of the failed request.
	Source reflect.Type

	// Target is the target type of the failed request.
	Target reflect.Type

	// Value is the input value, when the request carried one.
	Value any
}

// Error implements the error interface for NoRuleFoundError.
//
// The error message format is:
//
//	"cvx: no conversion rule from {Source} to {Target}"
//
// For example:
//
//	"cvx: no conversion rule from string to time.Duration"
//
// The format is intentionally stable; prefer errors.As over string
// matching where possible.
func (e *NoRuleFoundError) Error() string {
	return "cvx: no conversion rule from " + typeName(e.Source) + " to " + typeName(e.Target)
}

// ConversionFailedError is returned when a resolved rule was invoked and
// failed. The original cause is preserved in Cause and exposed through
// Unwrap, so errors.Is and errors.As see through the wrapper.
//
// Element-level failures inside composite conversions arrive here wrapped
// exactly once, at the outermost request: adapters pass inner errors
// through unchanged.
type ConversionFailedError struct {
	// Source is the source type of the failed request.
	Source reflect.Type

	// Target is the target type of the failed request.
	Target reflect.Type

	// Value is the input value the rule was invoked with.
	Value any

	// Cause is the error returned by the rule. Never nil.
	Cause error
}

// Error implements the error interface for ConversionFailedError.
//
// The error message format is:
//
//	"cvx: conversion from {Source} to {Target} failed: {Cause}"
//
// For example:
//
//	"cvx: conversion from string to int failed: strconv.ParseInt: parsing "x": invalid syntax"
func (e *ConversionFailedError) Error() string {
	return "cvx: conversion from " + typeName(e.Source) + " to " + typeName(e.Target) + " failed: " + e.Cause.Error()
}

// Unwrap returns the underlying cause so that errors.Is and errors.As
// traverse into it.
func (e *ConversionFailedError) Unwrap() error {
	return e.Cause
}

// TypeMismatchError is returned when the source type declared by the
// caller does not match the dynamic type of a non-nil value. It signals a
// contract violation on the calling side; the value is never coerced to
// fit the declaration.
type TypeMismatchError struct {
	// Declared is the source type the caller claimed.
	Declared reflect.Type

	// Actual is the dynamic type of the value that was passed.
	Actual reflect.Type

	// Value is the offending value.
	Value any
}

// Error implements the error interface for TypeMismatchError.
//
// The error message format is:
//
//	"cvx: type mismatch: declared {Declared}, actual {Actual}"
//
// For example:
//
//	"cvx: type mismatch: declared int, actual string"
func (e *TypeMismatchError) Error() string {
	return "cvx: type mismatch: declared " + typeName(e.Declared) + ", actual " + typeName(e.Actual)
}
