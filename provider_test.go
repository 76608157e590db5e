// Copyright 2017 The Memory Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memory

import "unsafe"

// fakeProvider is a pageProvider backed by an ordinary Go byte slice
// instead of an OS mapping, so tests can grow it deterministically and
// inspect the raw heap bytes without touching mmap.
type fakeProvider struct {
	buf  []byte
	base uintptr
	used int
}

func newFakeProvider(pages int) *fakeProvider {
	buf := make([]byte, pages*page)
	return &fakeProvider{buf: buf, base: uintptr(pointerOf(buf))}
}

func (p *fakeProvider) grow() (unsafe.Pointer, error) {
	if p.used+page > len(p.buf) {
		return nil, ErrNoMem
	}
	addr := unsafe.Pointer(p.base + uintptr(p.used))
	p.used += page
	return addr, nil
}

func (p *fakeProvider) start() uintptr { return p.base }
func (p *fakeProvider) end() uintptr   { return p.base + uintptr(p.used) }
