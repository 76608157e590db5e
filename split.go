// Copyright 2017 The Memory Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memory

import "unsafe"

// splitFree carves a requestedBlockSize-byte prefix off free block b,
// returning the remainder (if any) to the main lists. b must already be
// unlinked from whatever list it came from. If the remainder would be
// smaller than minBlock, no split happens and b is returned unchanged -
// the allocation simply inherits the extra bytes as internal
// fragmentation. The returned block is still marked free; the caller
// (Allocate) sets the allocated bit in a follow-up step.
func (a *Allocator) splitFree(b block, requestedBlockSize int) block {
	fragSize := b.blockSize() - requestedBlockSize
	if fragSize < minBlock {
		return b
	}

	b.setHeaderAndFooter(pack(0, requestedBlockSize, false, false), requestedBlockSize)

	frag := block(addPtr(unsafe.Pointer(b), requestedBlockSize))
	frag.setHeaderAndFooter(pack(0, fragSize, false, false), fragSize)
	a.insertMain(frag)

	return b
}

// splitAllocated is splitFree's counterpart for Reallocate-shrink: b is
// still an allocated block (not unlinked from any list, since allocated
// blocks aren't in lists). The trailing fragment is coalesced with its
// new right neighbor before being inserted into a main list, since that
// neighbor was untouched by the resize and may already have been free.
func (a *Allocator) splitAllocated(b block, requestedBlockSize, payloadSize int) block {
	fragSize := b.blockSize() - requestedBlockSize
	if fragSize < minBlock {
		b.setHeaderAndFooter(pack(payloadSize, b.blockSize(), false, true), b.blockSize())
		return b
	}

	b.setHeaderAndFooter(pack(payloadSize, requestedBlockSize, false, true), requestedBlockSize)

	frag := block(addPtr(unsafe.Pointer(b), requestedBlockSize))
	frag.setHeaderAndFooter(pack(0, fragSize, false, false), fragSize)

	merged := a.coalesce(frag)
	a.insertMain(merged)

	return b
}
