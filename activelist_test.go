// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package apptimer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func listOrder(l *activeList) []*Timer {
	var out []*Timer
	for t := l.front(); t != nil; t = t.next {
		if t == &l.head {
			break
		}
		out = append(out, t)
	}
	return out
}

func TestActiveListInsertOrder(t *testing.T) {
	var l activeList
	l.init()
	assert.True(t, l.isEmpty())

	now := NewRunTick(0)
	a := &Timer{startCounts: now, totalCounts: NewRunTick(30)}
	b := &Timer{startCounts: now, totalCounts: NewRunTick(10)}
	c := &Timer{startCounts: now, totalCounts: NewRunTick(20)}

	l.insert(a, now)
	l.insert(b, now)
	l.insert(c, now)

	got := listOrder(&l)
	assert.Equal(t, []*Timer{b, c, a}, got)
}

func TestActiveListFIFOTieBreak(t *testing.T) {
	var l activeList
	l.init()
	now := NewRunTick(0)
	first := &Timer{startCounts: now, totalCounts: NewRunTick(10)}
	second := &Timer{startCounts: now, totalCounts: NewRunTick(10)}

	l.insert(first, now)
	l.insert(second, now)

	assert.Equal(t, []*Timer{first, second}, listOrder(&l))
}

func TestActiveListRemove(t *testing.T) {
	var l activeList
	l.init()
	now := NewRunTick(0)
	a := &Timer{startCounts: now, totalCounts: NewRunTick(10)}
	b := &Timer{startCounts: now, totalCounts: NewRunTick(20)}
	l.insert(a, now)
	l.insert(b, now)

	l.remove(a)
	assert.False(t, a.linked())
	assert.Equal(t, []*Timer{b}, listOrder(&l))
	assert.True(t, l.front() == b)
}

func TestActiveListDetachExpired(t *testing.T) {
	var l activeList
	l.init()
	now := NewRunTick(100)
	expiredA := &Timer{startCounts: now, totalCounts: NewRunTick(0)}
	expiredB := &Timer{startCounts: now, totalCounts: NewRunTick(0)}
	notYet := &Timer{startCounts: now, totalCounts: NewRunTick(5)}

	l.insert(expiredA, now)
	l.insert(expiredB, now)
	l.insert(notYet, now)

	got := l.detachExpired(now)
	assert.Equal(t, []*Timer{expiredA, expiredB}, got)
	assert.Equal(t, []*Timer{notYet}, listOrder(&l))
	assert.False(t, expiredA.linked())
	assert.False(t, expiredB.linked())
}

func TestActiveListDetachExpiredNoneReady(t *testing.T) {
	var l activeList
	l.init()
	now := NewRunTick(0)
	t1 := &Timer{startCounts: now, totalCounts: NewRunTick(50)}
	l.insert(t1, now)

	got := l.detachExpired(now)
	assert.Nil(t, got)
	assert.True(t, t1.linked())
}

func TestActiveListInsertPanicsOnLinkedTimer(t *testing.T) {
	var l activeList
	l.init()
	now := NewRunTick(0)
	a := &Timer{startCounts: now, totalCounts: NewRunTick(10)}
	l.insert(a, now)
	assert.Panics(t, func() { l.insert(a, now) })
}
