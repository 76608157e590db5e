// Copyright 2017 The Memory Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPackUnpack(t *testing.T) {
	cases := []struct {
		payload, block    int
		inQuick, allocated bool
	}{
		{0, minBlock, false, false},
		{1, minBlock, false, true},
		{4096, 4112, false, true},
		{32, 48, true, true},
	}

	for _, c := range cases {
		w := pack(c.payload, c.block, c.inQuick, c.allocated)
		assert.Equal(t, c.payload, payloadSizeOf(w))
		assert.Equal(t, c.block, blockSizeOf(w))
		assert.Equal(t, c.inQuick, quickBit(w))
		assert.Equal(t, c.allocated, allocBit(w))
	}
}

func TestHeaderFooterObfuscated(t *testing.T) {
	buf := make([]byte, page)
	b := block(pointerOf(buf))

	b.setHeaderAndFooter(pack(64, 96, false, true), 96)

	raw := *(*uint64)(pointerOf(buf))
	assert.NotEqual(t, pack(64, 96, false, true), raw, "stored word must be obfuscated on the wire")
	assert.Equal(t, pack(64, 96, false, true), b.header())
}

func TestRoundUp16(t *testing.T) {
	assert.Equal(t, 16, roundUp16(1))
	assert.Equal(t, 16, roundUp16(16))
	assert.Equal(t, 32, roundUp16(17))
	assert.Equal(t, 0, roundUp16(0))
}
