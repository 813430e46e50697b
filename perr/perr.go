/*
 * propgraph client
 *
 * Copyright 2026 propgraph Authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Package perr defines the error taxonomy shared by every package in this
module: UserInput, TransactionState, Transport and Consistency errors.

Errors are always wrapped in a *Error before they cross a public API
boundary so that callers can distinguish the taxonomy with errors.Is /
errors.As while still reaching the underlying cause with Unwrap.
*/
package perr

import (
	"errors"
	"fmt"

	"github.com/krotik/common/errorutil"
)

/*
Code classifies an error along the taxonomy used by the session and its
collaborators.
*/
type Code int

const (
	/*
	   UserInput marks an error caused by invalid caller input: a
	   user-supplied id on add, an invalid label, a cardinality
	   conflict, a multi-valued property read through the single-value
	   accessor, or a label rejected by the read partition.
	*/
	UserInput Code = iota

	/*
	   TransactionState marks an error caused by calling an operation
	   against a transaction that is not in the state it needs to be in
	   (double-open, or an operation that requires an open transaction
	   when none is open).
	*/
	TransactionState

	/*
	   Transport marks an error raised by the driver during statement
	   execution.
	*/
	Transport

	/*
	   Consistency marks an error detected at commit time that indicates
	   the in-memory working set and the back-end have diverged: an id
	   collision on create, or a missing endpoint vertex for an edge
	   insert.
	*/
	Consistency
)

func (c Code) String() string {
	switch c {
	case UserInput:
		return "UserInput"
	case TransactionState:
		return "TransactionState"
	case Transport:
		return "Transport"
	case Consistency:
		return "Consistency"
	}
	return "Unknown"
}

/*
Error is a taxonomy-tagged error. Detail carries a human-readable
description; Cause, if set, is the underlying error (typically a
Transport error returned by a driver).
*/
type Error struct {
	Code   Code
	Detail string
	Cause  error
}

/*
Error returns a human-readable string representation of this error.
*/
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%v: %v (%v)", e.Code, e.Detail, e.Cause)
	}
	return fmt.Sprintf("%v: %v", e.Code, e.Detail)
}

/*
Unwrap exposes the underlying cause for errors.Is / errors.As.
*/
func (e *Error) Unwrap() error {
	return e.Cause
}

/*
New creates a new taxonomy error with no underlying cause.
*/
func New(code Code, detail string) *Error {
	return &Error{Code: code, Detail: detail}
}

/*
Wrap creates a new taxonomy error wrapping an underlying cause, typically
a driver-raised error.
*/
func Wrap(code Code, detail string, cause error) *Error {
	return &Error{Code: code, Detail: detail, Cause: cause}
}

/*
Is reports whether err is a tagged Error of the given code.
*/
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

/*
MultipleProperties is returned when a single-value property accessor is
used on a key that currently holds more than one value.
*/
var MultipleProperties = New(UserInput, "property has more than one value")

/*
AssertOk panics if err is non-nil. Used for invariants that the
session's own bookkeeping must never violate — for example a registry
lookup at commit time failing for an element the session itself
queued — which is a programming error in this module, not a
reportable back-end or user error. A divergence the back-end itself
reports (an id collision, a missing edge endpoint) is not a
programming error and is surfaced as Consistency instead; see Wrap.
*/
func AssertOk(err error) {
	errorutil.AssertOk(err)
}

/*
AssertTrue panics with errString if condition is false.
*/
func AssertTrue(condition bool, errString string) {
	errorutil.AssertTrue(condition, errString)
}
