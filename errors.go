// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package apptimer

import "errors"

// ErrNullParam is returned when a required pointer argument was nil.
var ErrNullParam = errors.New("apptimer: required parameter is nil")

// ErrInvalidParam is returned when a semantic constraint failed: an unknown
// Kind, a zero duration, or an incomplete HardwareTimer contract.
var ErrInvalidParam = errors.New("apptimer: invalid parameter")

// ErrInvalidState is returned when an operation is attempted before Init
// has succeeded, or (for Create) on a Timer that is Active.
var ErrInvalidState = errors.New("apptimer: invalid scheduler or timer state")

// ErrHardwareInit is returned when the HardwareTimer's own Init reports
// failure.
var ErrHardwareInit = errors.New("apptimer: hardware timer initialization failed")
