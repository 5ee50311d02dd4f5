////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package measure

import "time"

// WorkerStats is the running total of one worker.
type WorkerStats struct {
	Jobs int
	Busy time.Duration
}

// Workers keeps one running total per worker id. A slot is only written by
// the goroutine currently holding that worker id, so no lock is taken. Read
// it with Stats once the workers have returned.
type Workers struct {
	slots []WorkerStats
}

// NewWorkers allocates totals for worker ids [0, n).
func NewWorkers(n int) *Workers {
	return &Workers{slots: make([]WorkerStats, n)}
}

// Record adds one job which started at start to the worker's total.
func (w *Workers) Record(worker int, start time.Time) {
	s := &w.slots[worker]
	s.Jobs++
	s.Busy += time.Since(start)
}

// Stats returns a copy of every worker's total.
func (w *Workers) Stats() []WorkerStats {
	stats := make([]WorkerStats, len(w.slots))
	copy(stats, w.slots)
	return stats
}
