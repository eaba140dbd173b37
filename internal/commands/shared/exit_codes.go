// Copyright 2025 Tom Barlow
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

package shared

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for nf-schema-builder commands
const (
	ExitSuccess          = 0
	ExitValidationFailed = 1
	ExitInvalidSchema    = 2
	ExitMissingNextflow  = 3
	ExitServerError      = 4
	ExitIOError          = 5
)

// ExitError is an error that carries an exit code
type ExitError struct {
	Code    int
	Message string
	Cause   error
}

func (e *ExitError) Error() string {
	if e.Cause != nil {
		if e.Message == "" {
			return e.Cause.Error()
		}
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates an error for parameter validation failures
func NewValidationError(msg string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitValidationFailed,
		Message: msg,
		Cause:   cause,
	}
}

// NewInvalidSchemaError creates an error for malformed or non-conforming schema files
func NewInvalidSchemaError(msg string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitInvalidSchema,
		Message: msg,
		Cause:   cause,
	}
}

// NewMissingNextflowError creates an error for a missing nextflow binary
func NewMissingNextflowError(msg string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitMissingNextflow,
		Message: msg,
		Cause:   cause,
	}
}

// NewServerError creates an error for editor service failures
func NewServerError(msg string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitServerError,
		Message: msg,
		Cause:   cause,
	}
}

// NewIOError creates an error for file read/write failures
func NewIOError(msg string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitIOError,
		Message: msg,
		Cause:   cause,
	}
}

// HandleExitError checks if an error is an ExitError and exits with the appropriate code
func HandleExitError(err error) {
	if err == nil {
		return
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if msg := exitErr.Error(); msg != "" {
			fmt.Fprintln(os.Stderr, "Error:", msg)
		}
		os.Exit(exitErr.Code)
	}

	// Unclassified errors count as validation failures
	fmt.Fprintln(os.Stderr, "Error:", err.Error())
	os.Exit(ExitValidationFailed)
}
