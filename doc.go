// Copyright 2017 The Memory Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package memory implements a segregated-fit heap allocator: a single
// contiguous arena grown one page at a time from an OS-backed page
// provider, managed with segregated main free lists, small-block quick
// lists, boundary-tag coalescing and block splitting.
//
// The allocator is single-threaded: callers must serialize Allocate, Free
// and Reallocate calls externally. Its zero value is ready for use.
package memory

import "unsafe"

// Tunables fixed at build time, mirroring the constants a C allocator of
// this shape would carry as #defines.
const (
	mrow  = 8    // one memory row
	align = 16   // payload alignment
	page  = 4096 // bytes grown per call to the page provider

	minBlock = 32 // smallest possible block (header+footer+2 link words)

	numFreeLists  = 10
	numQuickLists = 12
	qlCapacity    = 5

	qlMaxSize = minBlock + align*numQuickLists // exclusive upper bound, 224

	prologueSize = 4 * mrow // 32
	epilogueSize = mrow     // 8

	// magic is XOR'd into every stored header/footer word. Not a
	// security mechanism - a cheap detector of wild writes and
	// use-after-free header corruption.
	magic = uint64(0xdeadbeefcafebabe)
)

// Flag bits of a header/footer word, pre-obfuscation.
const (
	flagAllocated = uint64(1) << 0
	flagInQuick   = uint64(1) << 1
)

func roundUp16(n int) int {
	return (n + align - 1) &^ (align - 1)
}

func addPtr(p unsafe.Pointer, off int) unsafe.Pointer {
	return unsafe.Pointer(uintptr(p) + uintptr(off))
}

func subPtr(p unsafe.Pointer, off int) unsafe.Pointer {
	return unsafe.Pointer(uintptr(p) - uintptr(off))
}
