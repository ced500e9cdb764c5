// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package hosthal

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/intuitivelabs/apptimer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostHALDrivesRealDispatch(t *testing.T) {
	hw := New(time.Millisecond)
	var sched apptimer.Scheduler
	hw.Bind(&sched)
	require.NoError(t, sched.Init(hw))
	hw.Start()
	defer hw.Shutdown()

	var fireCount int64
	var timer apptimer.Timer
	require.NoError(t, sched.Create(&timer, func(*apptimer.Timer, any) {
		atomic.AddInt64(&fireCount, 1)
	}, apptimer.Repeating))
	require.NoError(t, sched.Start(&timer, 5*time.Millisecond, nil))

	deadline := time.Now().Add(200 * time.Millisecond)
	for atomic.LoadInt64(&fireCount) < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	assert.GreaterOrEqual(t, atomic.LoadInt64(&fireCount), int64(3))
	assert.True(t, sched.IsActive(&timer))
}

func TestHostHALUnitsToTicksRoundsUp(t *testing.T) {
	hw := New(time.Millisecond)
	assert.Equal(t, uint64(1), hw.UnitsToTicks(500*time.Microsecond).Val())
	assert.Equal(t, uint64(1), hw.UnitsToTicks(time.Millisecond).Val())
	assert.Equal(t, uint64(2), hw.UnitsToTicks(time.Millisecond+time.Microsecond).Val())
}

func TestHostHALSingleShotStopsAfterOneFire(t *testing.T) {
	hw := New(time.Millisecond)
	var sched apptimer.Scheduler
	hw.Bind(&sched)
	require.NoError(t, sched.Init(hw))
	hw.Start()
	defer hw.Shutdown()

	var fireCount int64
	var timer apptimer.Timer
	require.NoError(t, sched.Create(&timer, func(*apptimer.Timer, any) {
		atomic.AddInt64(&fireCount, 1)
	}, apptimer.SingleShot))
	require.NoError(t, sched.Start(&timer, 5*time.Millisecond, nil))

	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, int64(1), atomic.LoadInt64(&fireCount))
	assert.False(t, sched.IsActive(&timer))
}
