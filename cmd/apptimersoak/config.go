// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package main

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// SoakConfig describes one soak run: how many timers to juggle, how long to
// run, and the simulated hardware's tick resolution. A yaml file is optional;
// flags override whatever it sets.
type SoakConfig struct {
	Timers       int           `yaml:"timers"`
	Duration     time.Duration `yaml:"duration"`
	TickInterval time.Duration `yaml:"tick_interval"`
	MinPeriod    time.Duration `yaml:"min_period"`
	MaxPeriod    time.Duration `yaml:"max_period"`
	ReentrantPct int           `yaml:"reentrant_pct"`
}

// defaultSoakConfig returns the built-in baseline, used whenever no
// -config file is given or a field is left zero in one that is.
func defaultSoakConfig() SoakConfig {
	return SoakConfig{
		Timers:       1000,
		Duration:     30 * time.Second,
		TickInterval: time.Millisecond,
		MinPeriod:    2 * time.Millisecond,
		MaxPeriod:    500 * time.Millisecond,
		ReentrantPct: 10,
	}
}

// loadSoakConfig reads a yaml config file, if path is non-empty, and
// overlays it onto the defaults. A missing or empty path is not an error.
func loadSoakConfig(path string) (SoakConfig, error) {
	cfg := defaultSoakConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	var overlay SoakConfig
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return cfg, err
	}
	if overlay.Timers != 0 {
		cfg.Timers = overlay.Timers
	}
	if overlay.Duration != 0 {
		cfg.Duration = overlay.Duration
	}
	if overlay.TickInterval != 0 {
		cfg.TickInterval = overlay.TickInterval
	}
	if overlay.MinPeriod != 0 {
		cfg.MinPeriod = overlay.MinPeriod
	}
	if overlay.MaxPeriod != 0 {
		cfg.MaxPeriod = overlay.MaxPeriod
	}
	if overlay.ReentrantPct != 0 {
		cfg.ReentrantPct = overlay.ReentrantPct
	}
	return cfg, nil
}
