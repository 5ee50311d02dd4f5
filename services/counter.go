////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package services

import (
	"sync"

	"go.uber.org/atomic"
)

// jobCounter hands out job indices 0..jobs-1, each exactly once.
type jobCounter interface {
	// Next returns the next job index, or false once every job has been
	// handed out.
	Next() (int, bool)
}

func newJobCounter(kind CounterKind, jobs int) jobCounter {
	if kind == MutexCounter {
		return &lockedCounter{jobs: jobs}
	}
	return &atomicCounter{jobs: int64(jobs)}
}

// atomicCounter increments past the job count once drained; the value is
// only compared, never used as an index.
type atomicCounter struct {
	next atomic.Int64
	jobs int64
}

func (c *atomicCounter) Next() (int, bool) {
	idx := c.next.Inc() - 1
	if idx >= c.jobs {
		return -1, false
	}
	return int(idx), true
}

type lockedCounter struct {
	sync.Mutex
	next int
	jobs int
}

func (c *lockedCounter) Next() (int, bool) {
	c.Lock()
	defer c.Unlock()
	if c.next == c.jobs {
		return -1, false
	}
	idx := c.next
	c.next++
	return idx, true
}
