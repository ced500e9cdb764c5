// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package apptimer

import "time"

// Scheduler multiplexes an arbitrary number of Timers onto a single
// HardwareTimer. All its mutable state is protected exclusively by the
// HardwareTimer's SetInterrupts critical section — Scheduler itself holds no
// internal mutex.
type Scheduler struct {
	hw HardwareTimer

	active activeList

	runningClock         RunTick
	lastProgrammedPeriod Tick
	countsAfterLastStart Tick
	insideDispatcher     bool
	initialized          bool

	activeCount         int
	highWatermark       int
	expiryOverflowCount uint64
}

// Init validates hw and prepares the scheduler for use. Idempotent: a
// second call returns nil without touching hw again.
func (s *Scheduler) Init(hw HardwareTimer) error {
	if s.initialized {
		return nil
	}
	if !validHAL(hw) {
		return ErrInvalidParam
	}
	if err := hw.Init(); err != nil {
		return ErrHardwareInit
	}
	s.hw = hw
	s.active.init()
	hw.SetRunning(false)
	var tok StatusToken
	hw.SetInterrupts(true, &tok)
	s.initialized = true
	return nil
}

// Create validates and (re)initializes t to Stopped with the given handler
// and kind. It is legal to call Create repeatedly on the same record while
// it is Stopped, to change its handler or kind, and from inside its own
// handler (state Expired), where the new kind decides whether it re-arms;
// calling it on a Timer that is Active is rejected.
func (s *Scheduler) Create(t *Timer, h Handler, k Kind) error {
	if !s.initialized {
		return ErrInvalidState
	}
	if t == nil {
		return ErrNullParam
	}
	if h == nil {
		return ErrNullParam
	}
	if k != SingleShot && k != Repeating {
		return ErrInvalidParam
	}
	if t.state == Active {
		return ErrInvalidState
	}
	t.handler = h
	t.kind = k
	t.context = nil
	return nil
}

// Start activates t for duration d, passing ctx to its handler on expiry.
// Starting an already-Active timer is a no-op that returns nil: idempotent
// restart is deliberately not provided; stop first.
func (s *Scheduler) Start(t *Timer, d time.Duration, ctx any) error {
	if !s.initialized {
		return ErrInvalidState
	}
	if t == nil {
		return ErrNullParam
	}
	if d <= 0 {
		return ErrInvalidParam
	}
	if t.state == Active {
		return nil
	}

	total := s.hw.UnitsToTicks(d)

	var tok StatusToken
	s.hw.SetInterrupts(false, &tok)

	t.context = ctx
	t.totalCounts = total

	wasEmpty := s.active.isEmpty()
	if wasEmpty && !s.insideDispatcher {
		t.startCounts = NewRunTick(0)
	} else {
		t.startCounts = s.now()
	}

	s.active.insert(t, s.now())
	t.state = Active
	s.bumpActiveCount(1)

	becameHead := s.active.front() == t
	if becameHead && !s.insideDispatcher {
		if !wasEmpty {
			s.foldElapsedIntoRunningClock()
		}
		period := s.clampToMaxCount(total)
		s.hw.SetRunning(false)
		s.hw.SetTarget(period)
		s.hw.SetRunning(true)
		s.countsAfterLastStart = s.hw.Read()
		s.lastProgrammedPeriod = period
	}

	s.hw.SetInterrupts(true, &tok)
	return nil
}

// Stop cancels t. Stopping an already-Stopped timer is a no-op. Stopping a
// timer whose handler has been selected for the current dispatch but has not
// run yet prevents that handler from being invoked at all: the dispatcher
// checks t's state immediately before calling the handler and skips the call
// once Stop has moved it out of Expired — an eager state transition rather
// than a separate pending flag.
func (s *Scheduler) Stop(t *Timer) error {
	if !s.initialized {
		return ErrInvalidState
	}
	if t == nil {
		return ErrNullParam
	}
	if t.state == Stopped {
		return nil
	}

	var tok StatusToken
	s.hw.SetInterrupts(false, &tok)

	wasHead := t.linked() && s.active.front() == t
	if t.linked() {
		s.active.remove(t)
		s.bumpActiveCount(-1)
	}
	t.state = Stopped

	if !s.insideDispatcher {
		if s.active.isEmpty() {
			s.hw.SetRunning(false)
			s.runningClock = NewRunTick(0)
		} else if wasHead {
			s.foldElapsedIntoRunningClock()
			head := s.active.front()
			period := s.clampToMaxCount(head.remaining(s.runningClock))
			s.hw.SetRunning(false)
			s.hw.SetTarget(period)
			s.hw.SetRunning(true)
			s.countsAfterLastStart = s.hw.Read()
			s.lastProgrammedPeriod = period
		}
	}

	s.hw.SetInterrupts(true, &tok)
	return nil
}

// IsActive reports whether t is linked into the active list right now.
func (s *Scheduler) IsActive(t *Timer) bool {
	if t == nil {
		return false
	}
	return t.state == Active
}

// now returns the current running-clock value. Callers must hold the
// HardwareTimer critical section.
func (s *Scheduler) now() RunTick {
	if s.hw == nil {
		return NewRunTick(0)
	}
	elapsed := s.hw.Read().Sub(s.countsAfterLastStart)
	return s.runningClock.Add(NewRunTick(uint64(elapsed.Val())))
}

// foldElapsedIntoRunningClock advances runningClock by the ticks consumed
// since the last HA restart, folding them in before a reprogram.
func (s *Scheduler) foldElapsedIntoRunningClock() {
	s.runningClock = s.now()
}

// clampToMaxCount converts a RunTick delta into a legal SetTarget argument,
// clamped to hw.MaxCount(). This is what lets a period longer than one
// counter span converge over repeated dispatches without a distinct
// "multi-tick" timer type.
func (s *Scheduler) clampToMaxCount(r RunTick) Tick {
	max := s.hw.MaxCount()
	if r.Val() > uint64(max.Val()) {
		return max
	}
	return NewTick(uint32(r.Val()))
}

func (s *Scheduler) bumpActiveCount(delta int) {
	s.activeCount += delta
	if s.activeCount < 0 {
		BUG("active timer count went negative: %d\n", s.activeCount)
		s.activeCount = 0
	}
	if s.activeCount > s.highWatermark {
		s.highWatermark = s.activeCount
	}
}
