// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

// Package metrics exports a Scheduler's Stats() as Prometheus gauges. It is
// an optional external collaborator, not part of the scheduler core: the
// core never imports this package.
package metrics

import (
	"github.com/intuitivelabs/apptimer"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector samples a Scheduler's Stats() on demand and publishes them as
// gauges under the given namespace.
type Collector struct {
	sched *apptimer.Scheduler

	active          prometheus.Gauge
	highWatermark   prometheus.Gauge
	expiryOverflows prometheus.Gauge
	runningClock    prometheus.Gauge
	insideDispatch  prometheus.Gauge
}

// NewCollector builds and registers the gauge set for sched under namespace.
// It does not start any background sampling loop; call Sample() whenever
// fresh values are needed (e.g. from an HTTP /metrics handler just before
// serving, or on a ticker in the caller's soak harness).
func NewCollector(namespace string, sched *apptimer.Scheduler) *Collector {
	c := &Collector{sched: sched}
	c.active = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "apptimer",
		Name:      "active_timers",
		Help:      "Number of timers currently in the Active state.",
	})
	c.highWatermark = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "apptimer",
		Name:      "active_timers_high_watermark",
		Help:      "Highest number of simultaneously Active timers observed.",
	})
	c.expiryOverflows = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "apptimer",
		Name:      "expiry_overflow_total",
		Help:      "Times the dispatcher had to clamp a reprogram period to 1 tick because the next deadline had already passed.",
	})
	c.runningClock = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "apptimer",
		Name:      "running_clock_ticks",
		Help:      "Current value of the scheduler's running clock, in RunTick units.",
	})
	c.insideDispatch = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "apptimer",
		Name:      "inside_dispatcher",
		Help:      "1 while TargetCountReached is executing, 0 otherwise.",
	})
	return c
}

// Sample pulls a fresh Stats() snapshot and updates every gauge. Cheap
// enough to call from a Prometheus Collect-time hook or a soak harness's
// reporting loop.
func (c *Collector) Sample() {
	st := c.sched.Stats()
	c.active.Set(float64(st.ActiveCount))
	c.highWatermark.Set(float64(st.HighWatermark))
	c.expiryOverflows.Set(float64(st.ExpiryOverflowCount))
	c.runningClock.Set(float64(st.RunningClock.Val()))
	if st.InsideDispatcher {
		c.insideDispatch.Set(1)
	} else {
		c.insideDispatch.Set(0)
	}
}
