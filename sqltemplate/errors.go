package sqltemplate

import (
	"errors"
	"fmt"
)

// Sentinel base errors, grouped by the taxonomy in the package design:
// ParseError, BindingError, TranslationError, ConversionError,
// SecurityError and ArgumentError all wrap one of these.
var (
	errParse       = errors.New("sqltemplate: parse error")
	errBinding     = errors.New("sqltemplate: binding error")
	errTranslation = errors.New("sqltemplate: translation error")
	errConversion  = errors.New("sqltemplate: conversion error")
	errSecurity    = errors.New("sqltemplate: security error")
	errArgument    = errors.New("sqltemplate: argument error")
)

// ParseError is reported while preparing a template: unbalanced
// directives, unknown handler names, or a required option missing.
type ParseError struct {
	Directive string // offending directive text, including braces when known
	Pos       int    // byte offset into the template, -1 if not applicable
	Reason    string
}

func (e *ParseError) Error() string {
	if e.Directive == "" {
		return fmt.Sprintf("sqltemplate: parse error at %d: %s", e.Pos, e.Reason)
	}
	return fmt.Sprintf("sqltemplate: parse error in %q at %d: %s", e.Directive, e.Pos, e.Reason)
}

func (e *ParseError) Unwrap() error { return errParse }

func newParseError(directive string, pos int, reason string) *ParseError {
	return &ParseError{Directive: directive, Pos: pos, Reason: reason}
}

// BindingError is reported when a directive cannot resolve a runtime
// variable or parameter: a missing var_provider, an unknown variable
// name, or a dynamic handler invoked without the parameter it expects.
// ({{arg}} without --param is a ParseError, reported at Prepare.)
type BindingError struct {
	Directive string
	Name      string // variable or parameter name
	Reason    string
}

func (e *BindingError) Error() string {
	return fmt.Sprintf("sqltemplate: binding error for %q in %q: %s", e.Name, e.Directive, e.Reason)
}

func (e *BindingError) Unwrap() error { return errBinding }

func newBindingError(directive, name, reason string) *BindingError {
	return &BindingError{Directive: directive, Name: name, Reason: reason}
}

// TranslationError is reported by the expression translator when it
// encounters an AST node kind it does not support.
type TranslationError struct {
	NodeKind string
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("sqltemplate: translation error: unsupported node kind %q", e.NodeKind)
}

func (e *TranslationError) Unwrap() error { return errTranslation }

func newTranslationError(kind string) *TranslationError {
	return &TranslationError{NodeKind: kind}
}

// ConversionError is reported at the driver boundary when a runtime
// value cannot be coerced to the requested type.
type ConversionError struct {
	Value  any
	Target string
	Reason string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("sqltemplate: conversion error: cannot convert %v (%T) to %s: %s", e.Value, e.Value, e.Target, e.Reason)
}

func (e *ConversionError) Unwrap() error { return errConversion }

func newConversionError(value any, target, reason string) *ConversionError {
	return &ConversionError{Value: value, Target: target, Reason: reason}
}

// SecurityError is reported by the injection guard when the rendered
// SQL fails a conservative safety check.
type SecurityError struct {
	SQL    string
	Reason string
	Pos    int
}

func (e *SecurityError) Error() string {
	return fmt.Sprintf("sqltemplate: security error at %d: %s", e.Pos, e.Reason)
}

func (e *SecurityError) Unwrap() error { return errSecurity }

func newSecurityError(sql, reason string, pos int) *SecurityError {
	return &SecurityError{SQL: sql, Reason: reason, Pos: pos}
}

// ArgumentError is reported when a caller passes a disallowed value,
// notably an empty identifier into the name mapper (MapName).
type ArgumentError struct {
	Param  string
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("sqltemplate: argument error: %s: %s", e.Param, e.Reason)
}

func (e *ArgumentError) Unwrap() error { return errArgument }

func newArgumentError(param, reason string) *ArgumentError {
	return &ArgumentError{Param: param, Reason: reason}
}
