// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package gallery drives the rotating photo strip on album pages: the
// highlighted photo advances on a fixed interval and wraps at the end.
package gallery

import (
	"sync"
	"time"
)

// DefaultInterval is how long each photo stays highlighted.
const DefaultInterval = 5 * time.Second

// Rotator cycles an index over a photo list of known size. The index
// is always within [0, count) while count > 0, including after the
// list shrinks under it. Safe for concurrent use.
type Rotator struct {
	mu       sync.Mutex
	interval time.Duration
	count    int
	index    int
	onChange func(int)

	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
}

// NewRotator creates a stopped rotator. A zero interval defaults to
// DefaultInterval. onChange, if non-nil, is called with the new index
// after every advance or clamp; it must not call back into the rotator.
func NewRotator(interval time.Duration, onChange func(int)) *Rotator {
	if interval == 0 {
		interval = DefaultInterval
	}
	return &Rotator{interval: interval, onChange: onChange}
}

// SetCount updates the number of photos. When the list shrinks below
// the current index, the index clamps to the last photo rather than
// pointing past the end.
func (r *Rotator) SetCount(count int) {
	r.mu.Lock()
	r.count = count
	changed := false
	if count == 0 {
		if r.index != 0 {
			r.index = 0
			changed = true
		}
	} else if r.index >= count {
		r.index = count - 1
		changed = true
	}
	index := r.index
	cb := r.onChange
	r.mu.Unlock()

	if changed && cb != nil {
		cb(index)
	}
}

// Index returns the currently highlighted photo index.
func (r *Rotator) Index() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.index
}

// Select jumps to the given index, clamped into range. Manual
// selection does not stop the rotation.
func (r *Rotator) Select(index int) {
	r.mu.Lock()
	if r.count == 0 {
		index = 0
	} else if index < 0 {
		index = 0
	} else if index >= r.count {
		index = r.count - 1
	}
	r.index = index
	cb := r.onChange
	r.mu.Unlock()

	if cb != nil {
		cb(index)
	}
}

// advance moves to the next photo, wrapping at the end.
func (r *Rotator) advance() {
	r.mu.Lock()
	if r.count == 0 {
		r.mu.Unlock()
		return
	}
	r.index = (r.index + 1) % r.count
	index := r.index
	cb := r.onChange
	r.mu.Unlock()

	if cb != nil {
		cb(index)
	}
}

// Start begins auto-rotation. Calling Start on a running rotator is a
// no-op.
func (r *Rotator) Start() {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.stopCh = make(chan struct{})
	r.doneCh = make(chan struct{})
	stopCh, doneCh := r.stopCh, r.doneCh
	r.mu.Unlock()

	go func() {
		defer close(doneCh)
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.advance()
			case <-stopCh:
				return
			}
		}
	}()
}

// Stop halts auto-rotation and waits for the rotation goroutine to
// exit, so no advance fires after Stop returns. Stopping a stopped
// rotator is a no-op.
func (r *Rotator) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	stopCh, doneCh := r.stopCh, r.doneCh
	r.mu.Unlock()

	close(stopCh)
	<-doneCh
}

// Running reports whether auto-rotation is active.
func (r *Rotator) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}
