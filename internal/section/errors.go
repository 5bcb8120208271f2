// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package section

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ValidationError reports per-field input problems. The submission
// never reached the store; the form stays open with the entered values
// so the member can correct and resubmit.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	return "validation failed: " + strings.Join(names, ", ")
}

// BackendError reports that the store rejected or failed an accepted
// submission: constraint violations, write failures.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: backend error: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// NetworkError reports that the request never completed, so the
// outcome is unknown and the operation may be retried.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// StorageError reports a binary store failure (upload or delete of an
// image file), distinct from record-level failures.
type StorageError struct {
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error for %q: %v", e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// AsValidation returns the ValidationError inside err, if any.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}

// IsRetryable reports whether the operation may be safely retried:
// only network failures qualify, since the store never saw the write
// complete.
func IsRetryable(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}
