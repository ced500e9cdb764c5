// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package apptimer

// Tick is the hardware counter's value domain (spec's T): wide enough to
// hold one HAL.MaxCount() worth of raw ticks.
type Tick = Wrapping[uint32]

// RunTick is the running-clock domain (spec's R): wider than Tick so it can
// accumulate across many counter wraps/reprograms without itself wrapping
// inside the lifetime of any plausible timer.
type RunTick = Wrapping[uint64]

// NewTick and NewRunTick build a Tick/RunTick from a raw value.
func NewTick(v uint32) Tick       { return NewWrapping(v) }
func NewRunTick(v uint64) RunTick { return NewWrapping(v) }

// State is a Timer's position in its start/expire/stop lifecycle.
//
// This module keeps the three-state model (Stopped, Active, Expired) rather
// than collapsing Expired back into Active: IsActive reports true only for
// Active, so a timer whose handler has been selected for this dispatch but
// not yet run is not reported as active to a concurrent caller.
type State uint8

const (
	Stopped State = iota
	Active
	Expired
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Active:
		return "active"
	case Expired:
		return "expired"
	default:
		return "invalid"
	}
}

// Kind selects whether a Timer re-arms itself after it fires.
type Kind uint8

const (
	SingleShot Kind = iota
	Repeating
)

func (k Kind) String() string {
	if k == Repeating {
		return "repeating"
	}
	return "single-shot"
}

// Handler is invoked by the dispatcher when a Timer expires. ctx is the
// opaque value passed to Start. A Handler may call Start, Stop, Create or
// IsActive on any Timer, including its own, from within the call.
type Handler func(t *Timer, ctx any)

// Timer is a caller-owned timer record. The caller allocates it (as a field
// of a larger struct, or standalone) and must keep it alive for as long as
// it may be Active; the scheduler never copies or frees a Timer.
//
// The scheduler holds a non-owning back-reference to every Timer on the
// active list via next/prev: there is no ownership cycle, only the usual
// intrusive-list aliasing between container and element.
type Timer struct {
	next, prev *Timer // active-list links; both nil when not linked

	startCounts RunTick // running-clock value when this activation began
	totalCounts RunTick // requested duration for this activation, in ticks

	handler Handler
	context any

	state State
	kind  Kind
}

// State returns the timer's current lifecycle state.
func (t *Timer) State() State { return t.state }

// Kind returns the timer's current kind (SingleShot or Repeating).
func (t *Timer) Kind() Kind { return t.kind }

// linked reports whether t is currently on the active list.
func (t *Timer) linked() bool {
	return t.next != nil && t.prev != nil
}

// expiry returns the RunTick value at which this activation is due,
// computed in wrapping arithmetic: start_counts + total_counts.
func (t *Timer) expiry() RunTick {
	return t.startCounts.Add(t.totalCounts)
}

// remaining returns the ticks left until expiry relative to now, clamped to
// zero once the wraparound arithmetic says expiry is behind now (expiry −
// now wraps to a value larger than total_counts == expired).
func (t *Timer) remaining(now RunTick) RunTick {
	d := t.expiry().Sub(now)
	if d.Val() > t.totalCounts.Val() {
		return NewRunTick(0)
	}
	return d
}
