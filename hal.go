// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package apptimer

import "time"

// StatusToken is the opaque value threaded through a single SetInterrupts
// enable/disable pair. A HardwareTimer implementation may use it to save and
// restore whatever interrupt-mask state its target nests (architectures that
// support nested masking typically need to remember the pre-disable state so
// the matching enable call only unmasks if nothing else is still holding the
// section open).
type StatusToken struct {
	// State is opaque to the scheduler; each HardwareTimer implementation
	// defines and interprets whatever it stashes here. The zero value is
	// always valid to pass to the first SetInterrupts(false, ...) call of a
	// fresh critical section.
	State any
}

// HardwareTimer is the contract the embedding program supplies: a single
// free-running or auto-reloading counter that can raise an interrupt when it
// reaches a programmed target. The scheduler never drives real hardware
// itself — every operation in this package is implemented purely in terms of
// this interface.
type HardwareTimer interface {
	// Init performs one-time hardware initialization. Called once, from
	// Init, before the counter is ever started.
	Init() error

	// UnitsToTicks converts a caller-facing duration into RunTick units.
	// Pure conversion, no side effects.
	UnitsToTicks(d time.Duration) RunTick

	// Read returns the current raw counter value. May increase
	// monotonically up to MaxCount or wrap at a hardware-defined boundary;
	// the scheduler treats both behaviors identically (see §4.2).
	Read() Tick

	// SetTarget programs the counter to raise the "target reached" event
	// after counts more ticks. counts must be <= MaxCount().
	SetTarget(counts Tick)

	// SetRunning starts or stops the counter.
	SetRunning(on bool)

	// SetInterrupts masks or unmasks whatever interrupt(s) make scheduler
	// state changes atomic. token is reused, paired, within a single
	// enter/leave bracket: SetInterrupts(false, tok) ... SetInterrupts(true, tok).
	SetInterrupts(on bool, token *StatusToken)

	// MaxCount is the largest legal argument to SetTarget.
	MaxCount() Tick
}

// validHAL reports whether hw is usable: non-nil with a non-zero MaxCount.
// Go interfaces can't carry a nil method slot the way a C struct of
// function pointers can, so this only guards against a nil interface value
// and a zero MaxCount; an interface value whose underlying methods are
// present but broken is a contract violation Init cannot detect.
func validHAL(hw HardwareTimer) bool {
	if hw == nil {
		return false
	}
	return hw.MaxCount().Val() > 0
}
