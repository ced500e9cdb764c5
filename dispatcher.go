// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package apptimer

// TargetCountReached is the dispatcher: the single entry point a
// HardwareTimer adapter calls, exactly once per "counter reached target"
// event, from whatever context raises it (interrupt handler, polling loop,
// goroutine — the scheduler does not care).
func (s *Scheduler) TargetCountReached() {
	if !s.initialized {
		BUG("TargetCountReached called before Init\n")
		return
	}

	s.insideDispatcher = true
	var tok StatusToken
	s.hw.SetInterrupts(false, &tok)

	// step 3-4: advance the running clock to where the head was scheduled
	// to expire, not to whatever hw.Read() says right now.
	expiryNow := s.runningClock.Add(NewRunTick(uint64(s.lastProgrammedPeriod.Val())))
	s.runningClock = expiryNow

	// step 5: reprogram for MaxCount and restart immediately, so the
	// dispatcher begins timing its own execution (including every handler
	// it is about to call) before it runs a single one of them.
	s.hw.SetTarget(s.hw.MaxCount())
	s.hw.SetRunning(true)
	s.countsAfterLastStart = s.hw.Read()

	// step 6: detach the expired prefix as a single batch, so handlers never
	// observe the list mid-mutation.
	expired := s.active.detachExpired(expiryNow)
	for _, t := range expired {
		t.state = Expired
		s.bumpActiveCount(-1)
	}

	// step 7: run handlers with interrupts re-enabled — handlers must stay
	// brief regardless, but re-enabling lets a concurrent HAL event (e.g.
	// the host adapter's ticker goroutine) make forward progress while a
	// slow handler runs.
	s.hw.SetInterrupts(true, &tok)
	for _, t := range expired {
		if t.state != Expired {
			// a sibling handler already called Start or Stop on t before
			// its turn came up; honor that and skip calling its handler.
			continue
		}
		if t.handler != nil {
			t.handler(t, t.context)
		}
		switch t.state {
		case Expired:
			// handler did not restart or stop it
			if t.kind == Repeating {
				s.hw.SetInterrupts(false, &tok)
				t.startCounts = expiryNow
				s.active.insert(t, expiryNow)
				t.state = Active
				s.bumpActiveCount(1)
				s.hw.SetInterrupts(true, &tok)
			} else {
				t.state = Stopped
			}
		case Active, Stopped:
			// handler called Start or Stop on itself; already reconciled
		}
	}

	// step 8: reconcile HA with the final list.
	s.hw.SetInterrupts(false, &tok)
	if s.active.isEmpty() {
		s.hw.SetRunning(false)
		s.runningClock = NewRunTick(0)
		s.lastProgrammedPeriod = NewTick(0)
	} else {
		s.foldElapsedIntoRunningClock()
		head := s.active.front()
		remaining := head.remaining(s.runningClock)
		var period Tick
		if remaining.Val() == 0 {
			// expired during handler execution: service it next dispatch,
			// accepting one tick of late delivery.
			period = NewTick(1)
			s.expiryOverflowCount++
		} else {
			period = s.clampToMaxCount(remaining)
		}
		s.hw.SetRunning(false)
		s.hw.SetTarget(period)
		s.hw.SetRunning(true)
		s.countsAfterLastStart = s.hw.Read()
		s.lastProgrammedPeriod = period
	}

	s.hw.SetInterrupts(true, &tok)
	s.insideDispatcher = false
}
