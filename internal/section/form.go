// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package section

import (
	"context"
	"errors"
	"sync"
)

// ErrSubmitInFlight is returned by Commit while an earlier commit of
// the same form is still running. The duplicate submission is dropped;
// the first one decides the outcome.
var ErrSubmitInFlight = errors.New("submission already in flight")

// Validator turns raw field values into a record, reporting per-field
// problems. A non-empty error map means the record is not usable.
type Validator[T any] func(values map[string]string) (T, map[string]string)

// Submitter persists a validated record.
type Submitter[T any] func(ctx context.Context, record T) error

// Form tracks one edit session: the entered values, their validation
// errors, and whether a submission is currently in flight. A failed
// commit keeps the entered values so nothing the member typed is lost.
type Form[T any] struct {
	mu       sync.Mutex
	values   map[string]string
	errors   map[string]string
	inFlight bool

	validate Validator[T]
	submit   Submitter[T]
}

// NewForm creates a form session with the given validation and submit
// behavior.
func NewForm[T any](validate Validator[T], submit Submitter[T]) *Form[T] {
	return &Form[T]{
		values:   make(map[string]string),
		errors:   make(map[string]string),
		validate: validate,
		submit:   submit,
	}
}

// Begin initializes the form with the given values, e.g. the current
// record fields when editing. Entered values and errors are discarded.
// A commit already in flight keeps its guard, so a duplicate
// submission that re-begins the form still fails fast.
func (f *Form[T]) Begin(initial map[string]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = make(map[string]string, len(initial))
	for k, v := range initial {
		f.values[k] = v
	}
	f.errors = make(map[string]string)
}

// Set records a field edit.
func (f *Form[T]) Set(field, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[field] = value
}

// Values returns a copy of the entered values.
func (f *Form[T]) Values() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// Errors returns a copy of the current per-field errors.
func (f *Form[T]) Errors() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.errors))
	for k, v := range f.errors {
		out[k] = v
	}
	return out
}

// InFlight reports whether a commit is currently running.
func (f *Form[T]) InFlight() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inFlight
}

// Commit validates the entered values and submits the record. Exactly
// one commit runs at a time: re-entrant calls fail fast with
// ErrSubmitInFlight instead of producing a duplicate record. On
// validation failure the entered values and field errors are kept and
// a ValidationError is returned. On submit failure the values are kept
// so the member can retry. Only a fully successful commit resets the
// form.
func (f *Form[T]) Commit(ctx context.Context) error {
	f.mu.Lock()
	if f.inFlight {
		f.mu.Unlock()
		return ErrSubmitInFlight
	}
	f.inFlight = true
	values := make(map[string]string, len(f.values))
	for k, v := range f.values {
		values[k] = v
	}
	f.mu.Unlock()

	record, fieldErrs := f.validate(values)
	if len(fieldErrs) > 0 {
		f.mu.Lock()
		f.errors = fieldErrs
		f.inFlight = false
		f.mu.Unlock()
		return &ValidationError{Fields: fieldErrs}
	}

	err := f.submit(ctx, record)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight = false
	if err != nil {
		return err
	}
	f.values = make(map[string]string)
	f.errors = make(map[string]string)
	return nil
}

// Reset discards the form state without submitting.
func (f *Form[T]) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = make(map[string]string)
	f.errors = make(map[string]string)
	f.inFlight = false
}
