// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package apptimer

import (
	"github.com/intuitivelabs/slog"
)

// log is the package-wide logger. Level defaults to slog.LWARN so a zero
// value Scheduler isn't noisy. log is unexported, so the level can only be
// raised from inside this package.
var log = slog.Log{Level: slog.LWARN, Prefix: "apptimer: "}

// DBGon reports whether debug-level logging is enabled.
func DBGon() bool { return log.DBGon() }

// ERRon reports whether error-level logging is enabled.
func ERRon() bool { return log.ERRon() }

// WARNon reports whether warning-level logging is enabled.
func WARNon() bool { return log.WARNon() }

// DBG logs a debug-level trace message.
func DBG(f string, args ...any) { log.DBG(f, args...) }

// WARN logs a warning.
func WARN(f string, args ...any) { log.WARN(f, args...) }

// ERR logs an error.
func ERR(f string, args ...any) { log.ERR(f, args...) }

// BUG logs an internal-invariant violation and continues: invariant
// violations within the scheduler are not defensively handled — they
// indicate an ISR/caller discipline bug in the embedding program. BUG makes
// the violation visible without panicking or retrying.
func BUG(f string, args ...any) { log.BUG(f, args...) }

// PANIC logs and then panics: reserved for active-list corruption that would
// otherwise silently break every subsequent operation (a linked-list
// invariant broken badly enough that continuing cannot be made safe).
func PANIC(f string, args ...any) { log.PANIC(f, args...) }
