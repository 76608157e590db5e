// Copyright 2017 The Memory Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memory

// coalesce merges b, assumed to be a free block not currently in any
// list, with its immediate left and/or right neighbor if they are also
// free, and returns the (possibly merged) block. The prologue and
// epilogue are always marked allocated, so coalescing never escapes the
// heap interior.
func (a *Allocator) coalesce(b block) block {
	prev := b.prev()
	next := b.next()
	prevAlloc := prev.allocated()
	nextAlloc := next.allocated()
	size := b.blockSize()

	switch {
	case prevAlloc && nextAlloc:
		return b

	case prevAlloc && !nextAlloc:
		if !a.removeMain(next) {
			a.logInternalError("coalesce: right neighbor not found in any main list")
		}
		size += next.blockSize()
		b.setHeaderAndFooter(pack(0, size, false, false), size)
		return b

	case !prevAlloc && nextAlloc:
		if !a.removeMain(prev) {
			a.logInternalError("coalesce: left neighbor not found in any main list")
		}
		size += prev.blockSize()
		prev.setHeaderAndFooter(pack(0, size, false, false), size)
		return prev

	default: // both free
		if !a.removeMain(next) {
			a.logInternalError("coalesce: right neighbor not found in any main list")
		}
		if !a.removeMain(prev) {
			a.logInternalError("coalesce: left neighbor not found in any main list")
		}
		size += prev.blockSize() + next.blockSize()
		prev.setHeaderAndFooter(pack(0, size, false, false), size)
		return prev
	}
}
