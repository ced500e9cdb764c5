// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package apptimer

// activeList is a sorted, intrusive, doubly-linked list of started and
// unexpired Timers, ascending by remaining time to expiry. It is doubly
// linked solely to make arbitrary-position removal O(1); traversal is
// always forward from the sentinel head.
type activeList struct {
	head Timer // sentinel; only next/prev are meaningful
}

func (l *activeList) init() {
	l.head.next = &l.head
	l.head.prev = &l.head
}

func (l *activeList) isEmpty() bool {
	return l.head.next == &l.head
}

// front returns the soonest-to-expire timer, or nil if the list is empty.
func (l *activeList) front() *Timer {
	if l.isEmpty() {
		return nil
	}
	return l.head.next
}

// insert places t into the list in ascending order of remaining time to
// expiry at now: walk from head, insert before the first entry whose
// remaining time exceeds t's; newcomers with equal remaining time go after
// existing entries of the same expiry (FIFO tie-break).
func (l *activeList) insert(t *Timer, now RunTick) {
	if t.linked() {
		PANIC("activeList.insert called on an already-linked timer %p\n", t)
	}
	newRemaining := t.remaining(now)
	pos := l.head.next
	for pos != &l.head {
		if newRemaining.LT(pos.remaining(now)) {
			break
		}
		pos = pos.next
	}
	// insert t immediately before pos
	t.prev = pos.prev
	t.next = pos
	pos.prev.next = t
	pos.prev = t
}

// remove unlinks t from the list. t must currently be linked.
func (l *activeList) remove(t *Timer) {
	if !t.linked() {
		PANIC("activeList.remove called on a detached timer %p\n", t)
	}
	t.prev.next = t.next
	t.next.prev = t.prev
	t.next = nil
	t.prev = nil
}

// detachExpired removes every leading run of timers whose remaining time at
// now is zero and returns them, in list order, as a plain slice. Because the
// list is sorted, the expired prefix is always contiguous from the head.
func (l *activeList) detachExpired(now RunTick) []*Timer {
	var out []*Timer
	for {
		t := l.front()
		if t == nil || t.remaining(now).Val() != 0 {
			break
		}
		l.remove(t)
		out = append(out, t)
	}
	return out
}
