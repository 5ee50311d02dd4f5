////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package services

import (
	"runtime"

	"gitlab.com/elixxir/workpile/region"
)

// Plan is the decomposition of one dispatch. It is computed once before any
// job runs and is read only while workers are active.
type Plan struct {
	Extent         region.Extent
	ReductionDepth int
	JobCount       int
	Workers        int
}

// NewPlan validates the domain, resolves the worker count and picks the
// reduction depth.
func NewPlan(extent region.Extent, workers, reductionDepth,
	jobsPerWorker int) (Plan, error) {
	if err := extent.Validate(); err != nil {
		return Plan{}, invalidConfiguration("%s", err)
	}
	if workers < 0 {
		return Plan{}, invalidConfiguration("negative worker count %d",
			workers)
	}
	if workers == AutoNumWorkers {
		workers = runtime.GOMAXPROCS(0)
	}

	depth, jobs, err := region.DecomposeWithTarget(extent, workers,
		reductionDepth, jobsPerWorker)
	if err != nil {
		return Plan{}, invalidConfiguration("%s", err)
	}

	return Plan{
		Extent:         extent.Clone(),
		ReductionDepth: depth,
		JobCount:       jobs,
		Workers:        workers,
	}, nil
}

// Region returns the region of a job.
func (p Plan) Region(jobIndex int) region.Region {
	return region.MapJobToRegion(p.Extent, p.ReductionDepth, jobIndex)
}

// JobFunc runs a single job on behalf of a worker.
type JobFunc func(worker, jobIndex int) error

// Dispatcher runs every job of a plan exactly once and blocks until all of
// them have finished or a failure stopped the dispatch.
type Dispatcher interface {
	Run(p Plan, job JobFunc) error
	Strategy() Strategy
}

// NewDispatcher builds the dispatcher selected by the configuration.
// Names are matched ignoring case and empty names select the defaults.
func NewDispatcher(cfg Config) (Dispatcher, error) {
	if cfg.Strategy == "" {
		return &BulkDispatcher{}, nil
	}
	strategy, err := ParseStrategy(string(cfg.Strategy))
	if err != nil {
		return nil, invalidConfiguration("%s", err)
	}
	if strategy == Bulk {
		return &BulkDispatcher{}, nil
	}

	counter := AtomicCounter
	if cfg.Counter != "" {
		if counter, err = ParseCounterKind(string(cfg.Counter)); err != nil {
			return nil, invalidConfiguration("%s", err)
		}
	}
	return &QueueDispatcher{Counter: counter}, nil
}
