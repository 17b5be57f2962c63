// Copyright (c) 2026 The Ember developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reverts carries the failure taxonomy of the contract components.
// A revert aborts the whole operation; the runtime rolls the state back as
// one unit, so no partial mutation ever survives.
package reverts

import (
	"errors"
	"fmt"
)

// Code is a taxonomy label of an operation failure.
type Code string

const (
	CodeInsufficientBalance   Code = "InsufficientBalance"
	CodeInsufficientAllowance Code = "InsufficientAllowance"
	CodeInvalidConfiguration  Code = "InvalidConfiguration"
	CodeUnauthorized          Code = "Unauthorized"
)

// RevertError is a hard operation failure with a taxonomy label plus context.
type RevertError struct {
	code    Code
	message string
}

func (e *RevertError) Error() string {
	if e.message == "" {
		return string(e.code)
	}
	return string(e.code) + ": " + e.message
}

// Code returns the taxonomy label.
func (e *RevertError) Code() Code {
	return e.code
}

// New creates a revert error with the given label and context message.
func New(code Code, format string, args ...any) *RevertError {
	return &RevertError{
		code:    code,
		message: fmt.Sprintf(format, args...),
	}
}

func InsufficientBalance(format string, args ...any) *RevertError {
	return New(CodeInsufficientBalance, format, args...)
}

func InsufficientAllowance(format string, args ...any) *RevertError {
	return New(CodeInsufficientAllowance, format, args...)
}

func InvalidConfiguration(format string, args ...any) *RevertError {
	return New(CodeInvalidConfiguration, format, args...)
}

func Unauthorized(format string, args ...any) *RevertError {
	return New(CodeUnauthorized, format, args...)
}

// IsRevert checks if err is (or wraps) a revert error.
func IsRevert(err error) bool {
	var re *RevertError
	return errors.As(err, &re)
}

// Is checks if err is a revert error with the given label.
func Is(err error, code Code) bool {
	var re *RevertError
	if !errors.As(err, &re) {
		return false
	}
	return re.code == code
}
