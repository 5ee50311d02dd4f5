////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package services

import (
	"time"

	"github.com/google/uuid"
	"gitlab.com/elixxir/workpile/internal/measure"
	"gitlab.com/elixxir/workpile/region"
)

// Report describes a finished dispatch.
type Report struct {
	ID             uuid.UUID
	Strategy       Strategy
	Extent         region.Extent
	Workers        int
	ReductionDepth int
	JobCount       int

	// JobsPerWorker and Busy are indexed by worker id.
	JobsPerWorker []int
	Busy          []time.Duration

	// Phases holds the time spent in each phase which ran, keyed by
	// PreDispatchPhase, JobsPhase and PostDispatchPhase.
	Phases map[string]time.Duration

	Started time.Time
	Elapsed time.Duration
	Err     string
}

func newReport(p Plan, s Strategy) *Report {
	return &Report{
		ID:             uuid.New(),
		Strategy:       s,
		Extent:         p.Extent.Clone(),
		Workers:        p.Workers,
		ReductionDepth: p.ReductionDepth,
		JobCount:       p.JobCount,
		JobsPerWorker:  make([]int, p.Workers),
		Busy:           make([]time.Duration, p.Workers),
		Started:        time.Now(),
	}
}

func (r *Report) finish(elapsed time.Duration, metrics *measure.Metrics,
	tally *measure.Workers, err error) {
	r.Elapsed = elapsed
	for w, s := range tally.Stats() {
		r.JobsPerWorker[w] = s.Jobs
		r.Busy[w] = s.Busy
	}
	r.Phases = make(map[string]time.Duration)
	for tag, span := range metrics.Spans() {
		r.Phases[tag] = span.Busy
	}
	if err != nil {
		r.Err = err.Error()
	}
}

// JobsRun returns the number of jobs which ran, successfully or not.
func (r *Report) JobsRun() int {
	n := 0
	for _, c := range r.JobsPerWorker {
		n += c
	}
	return n
}
