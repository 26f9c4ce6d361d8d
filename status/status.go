// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package status provides the message codes and the error type used at
// every boundary of gasp.
//
// Every exported operation of a Control or SolveIter returns an error which
// carries one of the closed set of codes below.  Hard errors abort the
// operation, warnings are only ever delivered to a logger.
package status

import (
	"errors"
	"fmt"
	"runtime"
)

// Code is a message code.  Codes below OperationUndefined are errors,
// the others are warnings.
type Code int

const (
	Success  Code = 0
	Runtime  Code = 1
	Logic    Code = 2
	BadAlloc Code = 3
	Unknown  Code = 4

	OperationUndefined Code = 5
	AtomUndefined      Code = 6
	FileIncluded       Code = 7
	VariableUnbounded  Code = 8
	GlobalVariable     Code = 9
)

// Message returns the fixed text for c.  Message is total: codes outside
// the enumeration give "unknown message code".
func Message(c Code) string {
	switch c {
	case Success:
		return "success"
	case Runtime:
		return "runtime error"
	case BadAlloc:
		return "bad allocation"
	case Logic:
		return "logic error"
	case Unknown:
		return "unknown error"
	case OperationUndefined:
		return "operation undefined"
	case AtomUndefined:
		return "atom undefined"
	case FileIncluded:
		return "file included"
	case VariableUnbounded:
		return "variable unbounded"
	case GlobalVariable:
		return "global variable"
	}
	return "unknown message code"
}

func (c Code) String() string {
	return Message(c)
}

// IsWarning reports whether c is one of the warning codes.
func (c Code) IsWarning() bool {
	return c >= OperationUndefined && c <= GlobalVariable
}

// Error is the error type crossing the boundary.
type Error struct {
	Code Code
	Msg  string
	Err  error
}

// Errorf creates an Error with code c.
func Errorf(c Code, format string, args ...any) *Error {
	return &Error{Code: c, Msg: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error with code c whose cause is err.
func Wrap(c Code, err error, format string, args ...any) *Error {
	return &Error{Code: c, Msg: fmt.Sprintf(format, args...), Err: err}
}

func (e *Error) Error() string {
	switch {
	case e.Msg == "" && e.Err == nil:
		return e.Code.String()
	case e.Msg == "":
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	case e.Err == nil:
		return e.Msg
	}
	return fmt.Sprintf("%s: %v", e.Msg, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf gives the code of err: Success for nil, the code of the
// outermost *Error in the chain, and Runtime otherwise.
func CodeOf(err error) Code {
	if err == nil {
		return Success
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return Runtime
}

// Signal is a non-zero value a host callback returns to abort the
// operation which invoked it.  A Signal is never collapsed into a code;
// it stays in the error chain and SignalOf recovers it.
type Signal int

func (s Signal) Error() string {
	return fmt.Sprintf("host signal %d", int(s))
}

// SignalOf returns the host signal in err's chain, if any.
func SignalOf(err error) (Signal, bool) {
	var s Signal
	if errors.As(err, &s) {
		return s, true
	}
	return 0, false
}

// Guard is deferred by boundary operations.  It converts a panic into an
// *Error and gives a code to errors which do not carry one, so nothing
// leaves the boundary without a code.
//
//	func (c *Control) Op() (err error) {
//		defer status.Guard(&err)
//		...
//	}
func Guard(errp *error) {
	if r := recover(); r != nil {
		*errp = fromPanic(r)
		return
	}
	if *errp == nil {
		return
	}
	var e *Error
	if errors.As(*errp, &e) {
		return
	}
	*errp = &Error{Code: Runtime, Err: *errp}
}

func fromPanic(r any) *Error {
	switch v := r.(type) {
	case *Error:
		return v
	case runtime.Error:
		return &Error{Code: Logic, Msg: "internal error", Err: v}
	case error:
		return &Error{Code: Unknown, Err: v}
	}
	return &Error{Code: Unknown, Msg: fmt.Sprint(r)}
}
