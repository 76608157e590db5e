// Copyright 2017 The Memory Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memory

import (
	"errors"

	"github.com/sirupsen/logrus"
)

// ErrNoMem is returned (as ENOMEM would be, via errno, in the original C
// allocator) when the page provider can no longer grow the heap.
var ErrNoMem = errors.New("memory: out of memory")

// ErrInvalid is returned by Reallocate when given a pointer that fails
// validation (the EINVAL case of spec.md §7). Free never returns this: an
// invalid pointer to Free is a client contract violation and panics,
// mirroring the original C allocator's abort().
var ErrInvalid = errors.New("memory: invalid pointer")

// diagnosticLog receives internal-consistency anomalies that are bugs in
// the allocator itself, not part of its user-visible contract (spec.md
// §7) - e.g. a coalescing partner that was expected in a main list but
// wasn't found there. Free also reports an invalid pointer here before it
// panics. It defaults to logrus's standard logger; tests may
// swap it out to assert on anomaly-free runs.
var diagnosticLog = logrus.StandardLogger()

func (a *Allocator) logInternalError(format string, args ...interface{}) {
	diagnosticLog.WithField("component", "memory").Errorf(format, args...)
}
