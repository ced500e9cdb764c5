// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

// Command apptimersoak drives a scheduler with a large population of
// timers, a fraction of which restart or stop themselves, or stop a
// sibling, from inside their own handler, to exercise the re-entrancy and
// stopped-while-pending races a unit test can't easily generate at scale.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"sync/atomic"
	"time"

	"github.com/intuitivelabs/apptimer"
	"github.com/intuitivelabs/apptimer/hosthal"
	"github.com/intuitivelabs/apptimer/metrics"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "apptimersoak"
	app.Usage = "apptimersoak [options]"
	app.Description = "Stress-drives an apptimer.Scheduler against a simulated hardware counter."
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config",
			Usage: "Path to a YAML soak config file (flags below override it)",
		},
		cli.IntFlag{
			Name:  "timers",
			Usage: "Number of timers to create (0 = use config/default)",
		},
		cli.DurationFlag{
			Name:  "duration",
			Usage: "How long to run the soak (0 = use config/default)",
		},
		cli.BoolFlag{
			Name:  "quiet",
			Usage: "Suppress the progress bar",
		},
	}
	app.Action = runSoak

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "apptimersoak:", err)
		os.Exit(1)
	}
}

func runSoak(c *cli.Context) error {
	cfg, err := loadSoakConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if n := c.Int("timers"); n != 0 {
		cfg.Timers = n
	}
	if d := c.Duration("duration"); d != 0 {
		cfg.Duration = d
	}

	hw := hosthal.New(cfg.TickInterval)
	var sched apptimer.Scheduler
	hw.Bind(&sched)
	if err := sched.Init(hw); err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	hw.Start()
	defer hw.Shutdown()

	collector := metrics.NewCollector("apptimersoak", &sched)

	var fireCount int64
	timers := make([]*apptimer.Timer, cfg.Timers)
	rng := rand.New(rand.NewSource(1))

	randomPeriod := func() time.Duration {
		span := cfg.MaxPeriod - cfg.MinPeriod
		if span <= 0 {
			return cfg.MinPeriod
		}
		return cfg.MinPeriod + time.Duration(rng.Int63n(int64(span)))
	}

	for i := range timers {
		t := &apptimer.Timer{}
		idx := i
		handler := func(self *apptimer.Timer, ctx any) {
			atomic.AddInt64(&fireCount, 1)
			if rng.Intn(100) < cfg.ReentrantPct {
				// Exercise re-entrancy from inside dispatch: by
				// index mod 3, a handler stops itself, restarts
				// itself with a new period, or stops its successor
				// sibling.
				switch idx % 3 {
				case 0:
					sched.Stop(self)
				case 1:
					sched.Start(self, randomPeriod(), ctx)
				case 2:
					sib := timers[(idx+1)%len(timers)]
					if sched.IsActive(sib) {
						sched.Stop(sib)
					}
				}
			}
		}
		kind := apptimer.SingleShot
		if i%2 == 0 {
			kind = apptimer.Repeating
		}
		if err := sched.Create(t, handler, kind); err != nil {
			return fmt.Errorf("create timer %d: %w", i, err)
		}
		if err := sched.Start(t, randomPeriod(), nil); err != nil {
			return fmt.Errorf("start timer %d: %w", i, err)
		}
		timers[i] = t
	}

	var bar *progressbar.ProgressBar
	if !c.Bool("quiet") {
		bar = progressbar.Default(int64(cfg.Duration / time.Second))
	}

	deadline := time.Now().Add(cfg.Duration)
	for time.Now().Before(deadline) {
		time.Sleep(time.Second)
		collector.Sample()
		if bar != nil {
			bar.Add(1)
		}
	}

	st := sched.Stats()
	fmt.Printf("handlers fired: %d, peak active: %d, expiry overflows: %d\n",
		atomic.LoadInt64(&fireCount), st.HighWatermark, st.ExpiryOverflowCount)
	return nil
}
