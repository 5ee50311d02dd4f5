////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package services

import (
	"sync"

	"github.com/cznic/mathutil"
	jww "github.com/spf13/jwalterweatherman"
)

// QueueDispatcher starts a fixed set of workers which pull job indices from a
// shared counter until it runs out. The counter is the only state the
// workers share.
type QueueDispatcher struct {
	Counter CounterKind
}

func (q *QueueDispatcher) Strategy() Strategy {
	return Queue
}

// Run blocks until every worker has left its loop. A worker whose job fails
// stops pulling; the others keep draining the counter. The first failure is
// returned once all workers are done.
func (q *QueueDispatcher) Run(p Plan, job JobFunc) error {
	counter := newJobCounter(q.Counter, p.JobCount)
	numWorkers := mathutil.Min(p.Workers, p.JobCount)

	var first firstError
	var wg sync.WaitGroup
	wg.Add(numWorkers)

	for w := 0; w < numWorkers; w++ {
		go func(worker int) {
			defer wg.Done()
			for {
				idx, ok := counter.Next()
				if !ok {
					return
				}
				if err := job(worker, idx); err != nil {
					first.capture(err)
					return
				}
			}
		}(w)
	}

	wg.Wait()
	return first.err
}

// firstError keeps the first error reported by any worker.
type firstError struct {
	sync.Mutex
	err error
}

func (f *firstError) capture(err error) {
	f.Lock()
	defer f.Unlock()
	if f.err == nil {
		f.err = err
		return
	}
	jww.WARN.Printf("Additional worker failure after %v: %+v", f.err, err)
}
