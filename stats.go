// Copyright 2017 The Memory Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memory

import "unsafe"

// Fragmentation reports the fraction of currently allocated payload bytes
// relative to the total block size backing them: the closer to 1, the
// less internal fragmentation. It is 0 when nothing is allocated.
func (a *Allocator) Fragmentation() float64 {
	allocated := a.allocatedBlockBytes()
	if allocated == 0 {
		return 0
	}
	return float64(a.runningPayload) / float64(allocated)
}

// Utilization reports the fraction of the heap's current total size that
// the highest payload total ever recorded accounts for: peak payload over
// heap size. It is 0 when the heap has not been grown yet.
func (a *Allocator) Utilization() float64 {
	if a.provider == nil {
		return 0
	}
	heapSize := a.provider.end() - a.provider.start()
	if heapSize == 0 {
		return 0
	}
	return float64(a.peakPayload) / float64(heapSize)
}

// PeakPayload returns the highest total of live payload bytes ever
// observed across the Allocator's lifetime.
func (a *Allocator) PeakPayload() int { return a.peakPayload }

// LivePayload returns the current total of live payload bytes.
func (a *Allocator) LivePayload() int { return a.runningPayload }

// allocatedBlockBytes walks the heap from the first block after the
// prologue to the epilogue, summing the block size of every currently
// allocated block that is not parked in a quick list.
func (a *Allocator) allocatedBlockBytes() int {
	if a.provider == nil {
		return 0
	}

	total := 0
	b := block(unsafe.Pointer(a.provider.start() + mrow + uintptr(prologueSize)))
	end := a.provider.end() - mrow

	for uintptr(b) < end {
		bs := b.blockSize()
		if bs == 0 {
			break
		}
		if b.allocated() && !b.inQuickList() {
			total += bs
		}
		b = b.next()
	}
	return total
}
