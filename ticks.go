// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package apptimer

// Unsigned is the set of integer widths a Wrapping counter can be built on.
type Unsigned interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Wrapping is a monotonically-increasing counter that wraps silently at its
// backing type's width. It has no 0 or reference value: two Wrapping values
// can only be meaningfully compared as long as their difference, interpreted
// on the backing width, does not exceed half the value space (the same
// convention TCP sequence numbers use).
//
// All arithmetic and comparisons must go through its methods; comparing the
// raw value with < or > directly is meaningless once either side has wrapped.
type Wrapping[T Unsigned] struct {
	v T
}

// NewWrapping creates a Wrapping counter from a raw value.
func NewWrapping[T Unsigned](v T) Wrapping[T] {
	return Wrapping[T]{v: v}
}

// half returns half of the backing type's value space (1 << (bits-1)).
func half[T Unsigned]() T {
	var zero T
	bits := 0
	for s := T(1); s != zero; s <<= 1 {
		bits++
	}
	return T(1) << (bits - 1)
}

// Val returns the raw counter value.
func (t Wrapping[T]) Val() T {
	return t.v
}

// EQ reports whether t == u, taking wraparound into account.
func (t Wrapping[T]) EQ(u Wrapping[T]) bool {
	return t.v == u.v
}

// NE reports whether t != u, taking wraparound into account.
func (t Wrapping[T]) NE(u Wrapping[T]) bool {
	return !t.EQ(u)
}

// LT reports whether t < u, taking wraparound into account: the top bit of
// (t-u) is set iff t is "behind" u on the circular value space.
func (t Wrapping[T]) LT(u Wrapping[T]) bool {
	return t.v-u.v >= half[T]()
}

// GT reports whether t > u, taking wraparound into account.
func (t Wrapping[T]) GT(u Wrapping[T]) bool {
	return !t.LT(u) && t.NE(u)
}

// GE reports whether t >= u, taking wraparound into account.
func (t Wrapping[T]) GE(u Wrapping[T]) bool {
	return !t.LT(u)
}

// LE reports whether t <= u, taking wraparound into account.
func (t Wrapping[T]) LE(u Wrapping[T]) bool {
	return t.LT(u) || t.EQ(u)
}

// Add returns t + u, wrapping silently.
func (t Wrapping[T]) Add(u Wrapping[T]) Wrapping[T] {
	return Wrapping[T]{t.v + u.v}
}

// Sub returns t - u, wrapping silently. The result is only meaningful as a
// "ticks until/since" delta when it is known to be < half the value space.
func (t Wrapping[T]) Sub(u Wrapping[T]) Wrapping[T] {
	return Wrapping[T]{t.v - u.v}
}

// Min returns whichever of t, u compares lower.
func (t Wrapping[T]) Min(u Wrapping[T]) Wrapping[T] {
	if t.LT(u) {
		return t
	}
	return u
}
