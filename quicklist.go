// Copyright 2017 The Memory Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memory

import "unsafe"

// quickList is a bounded singly linked stack of recently freed blocks, all
// of the exact same size.
type quickList struct {
	first  unsafe.Pointer // heap address of the block's header, or nil
	length int
}

// quickIndex returns the quick list index holding blocks of exactly size
// bytes. Only valid for minBlock <= size < qlMaxSize.
func quickIndex(size int) int { return (size - minBlock) / align }

// insertQuick pushes b onto the quick list for its size, flushing that
// list first if it is already at capacity. b must be a free block not
// currently in any list.
func (a *Allocator) insertQuick(b block) {
	idx := quickIndex(b.blockSize())
	if a.quickLists[idx].length >= qlCapacity {
		a.flushQuick(idx)
	}

	word := b.header() | flagInQuick | flagAllocated
	b.setHeader(word) // footer deliberately left stale: neighbors read the header and see an allocated block

	*b.qnext() = a.quickLists[idx].first
	a.quickLists[idx].first = unsafe.Pointer(b)
	a.quickLists[idx].length++
}

// popQuick pops and returns the head of quick list idx, or (nil, false) if
// it is empty.
func (a *Allocator) popQuick(idx int) (block, bool) {
	first := a.quickLists[idx].first
	if first == nil {
		return nil, false
	}

	b := block(first)
	a.quickLists[idx].first = *b.qnext()
	*b.qnext() = nil
	a.quickLists[idx].length--
	return b, true
}

// flushQuick drains quick list idx entirely: every entry is turned back
// into a proper free block (cleared flags, rewritten footer), coalesced
// with its neighbors and reinserted into the main lists.
func (a *Allocator) flushQuick(idx int) {
	if idx < 0 || idx >= numQuickLists {
		a.logInternalError("flushQuick: index %d out of range", idx)
		return
	}

	for {
		b, ok := a.popQuick(idx)
		if !ok {
			break
		}

		word := b.header() &^ flagInQuick &^ flagAllocated
		b.setHeaderAndFooter(word, blockSizeOf(word))

		merged := a.coalesce(b)
		a.insertMain(merged)
	}
}
