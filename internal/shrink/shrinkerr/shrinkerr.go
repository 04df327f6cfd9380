// Copyright 2024 The r8-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package shrinkerr defines the error kinds produced by the minification
// core (spec §7). Callers distinguish them with errors.Is against the
// sentinel Kind values, following the same %w-wrapping idiom the teacher
// uses in its rename package.
package shrinkerr

import (
	"fmt"

	"golang.org/x/xerrors"
)

// Kind identifies which of the four error categories from spec §7 an error
// belongs to.
type Kind int

const (
	// InvariantViolation: a reserved name was already claimed by a
	// different member (apply-mapping conflict). Fatal.
	InvariantViolation Kind = iota
	// ResolutionFailure: a non-rebound reference (spec §4.6) could not be
	// resolved and its dependency targets disagree on rename. Reported,
	// not fatal: it simply yields no rename entry.
	ResolutionFailure
	// MissingType is tolerated, not an error in practice, but retained as
	// a Kind so diagnostics can record where a missing type was treated
	// as a library root.
	MissingType
	// IllegalConfiguration: contradictory keep rules, e.g. apply-mapping
	// requires renaming a class that keep rules pin to its original
	// name. Fatal.
	IllegalConfiguration
)

func (k Kind) String() string {
	switch k {
	case InvariantViolation:
		return "invariant violation"
	case ResolutionFailure:
		return "resolution failure"
	case MissingType:
		return "missing type"
	case IllegalConfiguration:
		return "illegal configuration"
	default:
		return "unknown error kind"
	}
}

// Error wraps an underlying cause with its Kind and a human-readable
// subject (the member or type name the error concerns).
type Error struct {
	Kind    Kind
	Subject string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Subject, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Subject)
}

func (e *Error) Unwrap() error { return e.cause }

// Is reports whether target is a zero-subject *Error of the same Kind. It
// lets callers write errors.Is(err, shrinkerr.Sentinel(shrinkerr.InvariantViolation))
// rather than comparing *Error directly (Kind has no Error() method, so it
// is not itself usable with errors.Is without this bridge).
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	return ok && other.Kind == e.Kind && other.Subject == ""
}

// New builds an *Error of the given kind, wrapping cause (which may be
// nil) with xerrors so %+v callers still see a stack-ish trail the way the
// teacher's xerrors-aliased "errors" package provides.
func New(kind Kind, subject string, cause error) *Error {
	if cause != nil {
		cause = xerrors.Errorf("%s: %w", subject, cause)
	}
	return &Error{Kind: kind, Subject: subject, cause: cause}
}

// Sentinel returns a zero-subject *Error usable as an errors.Is() target,
// e.g. errors.Is(err, shrinkerr.Sentinel(shrinkerr.ResolutionFailure)).
func Sentinel(kind Kind) *Error { return &Error{Kind: kind} }
