// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

// Package hosthal is a reference apptimer.HardwareTimer built on a
// free-running host-OS goroutine ticker: a host-OS polling adapter, external
// to the scheduler core, included here so the module is testable and
// runnable without real microcontroller hardware.
package hosthal

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/intuitivelabs/apptimer"
	"github.com/intuitivelabs/timestamp"
)

const maxHostCount = ^uint32(0)

// HostHAL simulates a free-running 32-bit hardware counter driven by a
// time.Ticker. SetRunning, SetTarget and Read are only ever safe to call
// while the caller holds the critical section opened by SetInterrupts(false,
// ...) — exactly as a real interrupt-masked register access would be; the
// ticker goroutine is the only concurrent actor and it acquires the same
// mutex SetInterrupts uses before touching any of this adapter's state.
type HostHAL struct {
	mu      sync.Mutex
	counter uint32
	target  uint32
	running bool

	tickDuration time.Duration
	sched        *apptimer.Scheduler

	lastTick timestamp.TS
	badTime  int

	cancel chan struct{}
	wg     sync.WaitGroup
}

// New creates a HostHAL that advances its simulated counter once per
// tickDuration of wall-clock time.
func New(tickDuration time.Duration) *HostHAL {
	return &HostHAL{tickDuration: tickDuration}
}

// Bind attaches the Scheduler this adapter will drive. Must be called
// before Start.
func (h *HostHAL) Bind(s *apptimer.Scheduler) { h.sched = s }

// Init satisfies apptimer.HardwareTimer; there is no real hardware to set up.
func (h *HostHAL) Init() error { return nil }

// UnitsToTicks rounds d up to a whole number of ticks, never fewer, so a
// timer never expires earlier than requested.
func (h *HostHAL) UnitsToTicks(d time.Duration) apptimer.RunTick {
	if d <= 0 {
		return apptimer.NewRunTick(1)
	}
	ticks := uint64(d / h.tickDuration)
	if d%h.tickDuration != 0 || ticks == 0 {
		ticks++
	}
	return apptimer.NewRunTick(ticks)
}

// Read returns the current simulated counter value.
func (h *HostHAL) Read() apptimer.Tick {
	return apptimer.NewTick(atomic.LoadUint32(&h.counter))
}

// SetTarget programs the simulated counter to match counts ticks after its
// current value.
func (h *HostHAL) SetTarget(counts apptimer.Tick) {
	atomic.StoreUint32(&h.target, atomic.LoadUint32(&h.counter)+counts.Val())
}

// SetRunning starts or stops the simulated counter.
func (h *HostHAL) SetRunning(on bool) {
	h.running = on
}

// SetInterrupts is this adapter's critical section: a plain mutex. The
// scheduler never nests a disable inside another disable on the same
// goroutine, so a non-reentrant lock is sufficient. token records whether
// its bracket holds the lock, so an enable with a fresh token (as
// Scheduler.Init issues) leaves the mutex alone.
func (h *HostHAL) SetInterrupts(on bool, token *apptimer.StatusToken) {
	if !on {
		h.mu.Lock()
		token.State = true
		return
	}
	if held, _ := token.State.(bool); held {
		token.State = nil
		h.mu.Unlock()
	}
}

// MaxCount is the largest legal SetTarget argument: the full 32-bit range.
func (h *HostHAL) MaxCount() apptimer.Tick {
	return apptimer.NewTick(maxHostCount)
}

// Start begins driving the bound Scheduler from a background goroutine.
func (h *HostHAL) Start() {
	h.cancel = make(chan struct{})
	h.lastTick = timestamp.Now()
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		ticker := time.NewTicker(h.tickDuration)
		defer ticker.Stop()
		for {
			select {
			case <-h.cancel:
				return
			case <-ticker.C:
				h.tick()
			}
		}
	}()
}

// Shutdown stops the driving goroutine and waits for it to exit.
func (h *HostHAL) Shutdown() {
	if h.cancel != nil {
		close(h.cancel)
	}
	h.wg.Wait()
}

// tick advances the simulated counter by however many real ticks have
// elapsed since the last call, replaying more than one step if the host
// scheduler stalled rather than silently losing ticks.
func (h *HostHAL) tick() {
	now := timestamp.Now()
	if now.Before(h.lastTick) {
		h.badTime++
		if h.badTime > 10 {
			h.lastTick = now
		}
		return
	}
	h.badTime = 0
	elapsed := now.Sub(h.lastTick)
	n := uint64(elapsed / h.tickDuration)
	if n == 0 {
		return
	}
	h.lastTick = h.lastTick.Add(time.Duration(n) * h.tickDuration)
	for i := uint64(0); i < n; i++ {
		h.advanceOneTick()
	}
}

// advanceOneTick increments the simulated counter by one and, if it just
// reached the programmed target while running, invokes the dispatcher.
func (h *HostHAL) advanceOneTick() {
	h.mu.Lock()
	reached := false
	if h.running {
		h.counter++
		atomic.StoreUint32(&h.counter, h.counter)
		reached = h.counter == h.target
	}
	h.mu.Unlock()
	if reached {
		h.sched.TargetCountReached()
	}
}
