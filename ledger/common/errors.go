// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package common

import (
	"errors"
	"fmt"
)

// Sentinel errors so callers can classify failures with errors.Is
var (
	ErrPreconditionViolation = errors.New("precondition violation")
	ErrMalformedWireValue    = errors.New("malformed wire value")
	ErrArithmeticDomain      = errors.New("arithmetic domain error")
	ErrRemoteRejection       = errors.New("remote rejection")
)

// PreconditionError indicates a value handed to a pure function that the caller
// should have rejected upstream (wrong-length key, reserved metadata key, etc.)
type PreconditionError struct {
	Field  string
	Reason string
}

func NewPreconditionError(field string, format string, args ...any) PreconditionError {
	return PreconditionError{
		Field:  field,
		Reason: fmt.Sprintf(format, args...),
	}
}

func (e PreconditionError) Error() string {
	if e.Field == "" {
		return "precondition violation: " + e.Reason
	}
	return fmt.Sprintf("precondition violation: %s: %s", e.Field, e.Reason)
}

func (PreconditionError) Is(target error) bool {
	return target == ErrPreconditionViolation
}

// MalformedWireValueError indicates a transport value that could not be decoded
type MalformedWireValueError struct {
	Field  string
	Value  string
	Reason string
	Err    error
}

func (e MalformedWireValueError) Error() string {
	msg := "malformed wire value"
	if e.Field != "" {
		msg += " for " + e.Field
	}
	if e.Value != "" {
		msg += fmt.Sprintf(" %q", truncateValue(e.Value))
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e MalformedWireValueError) Unwrap() error { return e.Err }

func (MalformedWireValueError) Is(target error) bool {
	return target == ErrMalformedWireValue
}

// ArithmeticDomainError indicates a quote requested outside the domain of the
// pool math, such as a zero reserve in a denominator
type ArithmeticDomainError struct {
	Op     string
	Reason string
}

func (e ArithmeticDomainError) Error() string {
	return fmt.Sprintf("arithmetic domain error in %s: %s", e.Op, e.Reason)
}

func (ArithmeticDomainError) Is(target error) bool {
	return target == ErrArithmeticDomain
}

// RemoteRejectionError carries the verifier's verdict on an otherwise
// well-formed transaction. The message is passed through verbatim.
type RemoteRejectionError struct {
	StatusCode int
	Message    string
}

func (e RemoteRejectionError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("transaction rejected (HTTP %d)", e.StatusCode)
	}
	return fmt.Sprintf(
		"transaction rejected (HTTP %d): %s",
		e.StatusCode,
		e.Message,
	)
}

func (RemoteRejectionError) Is(target error) bool {
	return target == ErrRemoteRejection
}

func truncateValue(v string) string {
	const maxLen = 80
	if len(v) <= maxLen {
		return v
	}
	return v[:maxLen] + "..."
}
