// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package apptimer

// Stats is a snapshot of the scheduler's bookkeeping counters: an optional
// stats surface for observability and soak testing.
type Stats struct {
	ActiveCount         int     // current length of the active list
	HighWatermark       int     // largest ActiveCount ever observed
	ExpiryOverflowCount uint64  // count of "expired again during dispatch" reconcile events
	Head                *Timer  // the timer HA is currently programmed for, or nil
	RunningClock        RunTick // current running-clock value
	InsideDispatcher    bool    // true while TargetCountReached is executing
}

// Stats returns a snapshot of the scheduler's current bookkeeping counters.
func (s *Scheduler) Stats() Stats {
	return Stats{
		ActiveCount:         s.activeCount,
		HighWatermark:       s.highWatermark,
		ExpiryOverflowCount: s.expiryOverflowCount,
		Head:                s.active.front(),
		RunningClock:        s.runningClock,
		InsideDispatcher:    s.insideDispatcher,
	}
}
