// Copyright 2017 The Memory Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memory

import (
	"unsafe"

	"github.com/cznic/mathutil"
)

// classIndex returns the main free list index for a block of blockSize
// bytes. Class 0 holds exactly the minimum block size; class i (for
// i >= 1) holds minBlock*2^(i-1) < size <= minBlock*2^i; the last class is
// a catch-all for anything larger.
func classIndex(blockSize int) int {
	if blockSize <= minBlock {
		return 0
	}
	n := (blockSize + minBlock - 1) / minBlock // ceil(size / minBlock)
	i := mathutil.BitLen(n - 1)
	if i > numFreeLists-1 {
		return numFreeLists - 1
	}
	return i
}

// linkAt overlays a *links at p - either a sentinel living in
// Allocator.mainLists, or the body of a free block in the heap.
func linkAt(p unsafe.Pointer) *links { return (*links)(p) }

// insertMain places b at the head of the main list for its current block
// size (LIFO insertion after the class sentinel).
func (a *Allocator) insertMain(b block) {
	idx := classIndex(b.blockSize())
	sentinel := unsafe.Pointer(&a.mainLists[idx])
	node := unsafe.Pointer(b.links())

	sl := linkAt(sentinel)
	n := node
	next := sl.next
	sl.next = n
	linkAt(next).prev = n
	linkAt(n).prev = sentinel
	linkAt(n).next = next
}

// unlinkMain removes b from whatever main list it is currently threaded
// into, given that the caller already knows b is a node in some list (not
// a sentinel). It does not search; it simply splices b out using its own
// prev/next pointers.
func unlinkMain(b block) {
	n := b.links()
	prev, next := n.prev, n.next
	linkAt(prev).next = next
	linkAt(next).prev = prev
	n.prev, n.next = nil, nil
}

// removeMain searches the main list matching b's recorded size for the
// exact node address b and unlinks it if found. Used by the coalescer,
// which only knows a neighbor's size class, not which list node it is.
func (a *Allocator) removeMain(b block) bool {
	idx := classIndex(b.blockSize())
	sentinel := unsafe.Pointer(&a.mainLists[idx])
	node := unsafe.Pointer(b.links())

	cur := linkAt(sentinel).next
	for cur != sentinel {
		if cur == node {
			unlinkMain(b)
			return true
		}
		cur = linkAt(cur).next
	}
	return false
}

// findFit returns the first block whose size is >= blockSize, searching
// the matching size class first-fit and then progressively larger
// classes. The returned block is left in its list; the caller unlinks it.
func (a *Allocator) findFit(blockSize int) (block, bool) {
	start := classIndex(blockSize)
	for i := start; i < numFreeLists; i++ {
		sentinel := unsafe.Pointer(&a.mainLists[i])
		cur := linkAt(sentinel).next
		for cur != sentinel {
			b := blockFromLinks(cur)
			if b.blockSize() >= blockSize {
				return b, true
			}
			cur = linkAt(cur).next
		}
	}
	return nil, false
}

// blockFromLinks recovers a block's header address from the address of
// its link area (header + mrow).
func blockFromLinks(p unsafe.Pointer) block { return block(subPtr(p, mrow)) }

// resetMainLists makes every class sentinel point to itself, the empty
// circular list.
func (a *Allocator) resetMainLists() {
	for i := range a.mainLists {
		s := unsafe.Pointer(&a.mainLists[i])
		a.mainLists[i].prev = s
		a.mainLists[i].next = s
	}
}
