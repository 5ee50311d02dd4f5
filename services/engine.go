////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

// Package services splits a rectangular domain into jobs and runs a Task on
// every job's region across a bounded set of workers.
package services

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"
	"gitlab.com/elixxir/workpile/internal/measure"
	"gitlab.com/elixxir/workpile/internal/state"
	"gitlab.com/elixxir/workpile/region"
	"go.uber.org/atomic"
)

// Tags of the phase timings recorded in a Report.
const (
	PreDispatchPhase  = "PreDispatch"
	JobsPhase         = "Jobs"
	PostDispatchPhase = "PostDispatch"
)

// Engine owns the configuration of a dispatch and runs it. An Engine may be
// reused for successive dispatches but runs at most one at a time.
type Engine struct {
	config     Config
	dispatcher Dispatcher
	machine    *state.Machine

	// mux guards plan and configured together with the state checks which
	// decide whether they may change
	mux        sync.Mutex
	plan       Plan
	configured bool

	dispatches atomic.Uint64
}

// NewEngine builds an engine using the dispatcher selected by cfg.
func NewEngine(cfg Config) (*Engine, error) {
	dispatcher, err := NewDispatcher(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.JobsPerWorker <= 0 {
		cfg.JobsPerWorker = region.JobsPerWorkerTarget
	}
	return &Engine{
		config:     cfg,
		dispatcher: dispatcher,
		machine:    state.NewMachine(),
	}, nil
}

// Configure sets the domain of the next dispatch and decomposes it into
// jobs. workers of AutoNumWorkers resolves to GOMAXPROCS and a negative
// reductionDepth is chosen automatically; a depth above the dimension of the
// extent is clamped to it.
func (e *Engine) Configure(extent region.Extent, workers, reductionDepth int) error {
	e.mux.Lock()
	defer e.mux.Unlock()

	if e.machine.Get() == state.RUNNING {
		return errors.WithMessage(ErrContractViolation,
			"cannot configure an engine while it is dispatching")
	}

	reductionDepth = region.ClampDepth(reductionDepth, extent.Dimension())
	plan, err := NewPlan(extent, workers, reductionDepth,
		e.config.JobsPerWorker)
	if err != nil {
		return err
	}

	e.plan = plan
	e.configured = true

	jww.DEBUG.Printf("Domain %s: %d jobs at reduction depth %d on %d "+
		"workers (%s)", plan.Extent, plan.JobCount, plan.ReductionDepth,
		plan.Workers, e.dispatcher.Strategy())

	return nil
}

// Plan returns the decomposition computed by the last Configure call.
func (e *Engine) Plan() Plan {
	e.mux.Lock()
	defer e.mux.Unlock()
	return e.plan
}

// Status returns the lifecycle state of the engine.
func (e *Engine) Status() state.Status {
	return e.machine.Get()
}

// Dispatches returns how many dispatches the engine has started.
func (e *Engine) Dispatches() uint64 {
	return e.dispatches.Load()
}

// Dispatch runs the task over the configured domain and blocks until every
// job has completed or a failure stopped it. The returned report describes
// the dispatch whether or not it succeeded.
func (e *Engine) Dispatch(task Task) (*Report, error) {
	if task == nil {
		return nil, invalidConfiguration("no task to dispatch")
	}
	plan, err := e.start()
	if err != nil {
		return nil, err
	}
	e.dispatches.Inc()

	metrics := &measure.Metrics{}
	tally := measure.NewWorkers(plan.Workers)
	report := newReport(plan, e.dispatcher.Strategy())
	start := time.Now()

	err = e.run(plan, task, metrics, tally)

	report.finish(time.Since(start), metrics, tally, err)
	if _, uerr := e.machine.Update(state.DRAINED); uerr != nil {
		jww.FATAL.Panicf("Dispatch %s could not drain: %+v", report.ID, uerr)
	}

	if err != nil {
		return report, err
	}
	jww.INFO.Printf("Dispatch %s: %d jobs done in %s", report.ID,
		plan.JobCount, report.Elapsed)
	return report, nil
}

// start moves the engine to RUNNING and returns the plan the dispatch will
// use. The plan cannot change until the engine leaves RUNNING.
func (e *Engine) start() (Plan, error) {
	e.mux.Lock()
	defer e.mux.Unlock()

	if !e.configured {
		return Plan{}, invalidConfiguration("engine dispatched before " +
			"Configure")
	}
	if _, err := e.machine.Update(state.RUNNING); err != nil {
		return Plan{}, errors.WithMessage(ErrContractViolation, err.Error())
	}
	return e.plan, nil
}

func (e *Engine) run(plan Plan, task Task, metrics *measure.Metrics,
	tally *measure.Workers) error {
	metrics.Measure(PreDispatchPhase)
	err := task.PreDispatch()
	metrics.Measure(PreDispatchPhase)
	if err != nil {
		return errors.WithMessage(err, "pre-dispatch hook failed")
	}

	metrics.Measure(JobsPhase)
	err = e.dispatcher.Run(plan, e.job(plan, task, tally))
	metrics.Measure(JobsPhase)
	if err != nil {
		return err
	}

	metrics.Measure(PostDispatchPhase)
	err = task.PostDispatch()
	metrics.Measure(PostDispatchPhase)
	if err != nil {
		return errors.WithMessage(err, "post-dispatch hook failed")
	}
	return nil
}

// job maps a job index to its region and runs the task on it. Panics are
// recovered and reported as worker failures.
func (e *Engine) job(plan Plan, task Task, tally *measure.Workers) JobFunc {
	return func(worker, jobIndex int) (err error) {
		r := plan.Region(jobIndex)

		start := time.Now()
		defer func() {
			tally.Record(worker, start)
			if rec := recover(); rec != nil {
				err = newJobError(ErrWorkerFailure, worker, jobIndex,
					errors.Errorf("panic: %v", rec))
			}
			if err != nil {
				jww.ERROR.Printf("Worker %d / job %d (%s) failed, "+
					"cannot continue: %v", worker, jobIndex, r, err)
			}
		}()

		if perr := task.ProcessRegion(r); perr != nil {
			return newJobError(ErrWorkerFailure, worker, jobIndex, perr)
		}
		return nil
	}
}

// ThreadedProcessRegion exists for callers used to splitting a domain by
// thread id. Regions are only ever processed through Dispatch, so it always
// fails.
func (e *Engine) ThreadedProcessRegion(r region.Region, threadID int) error {
	return errors.WithMessagef(ErrContractViolation, "region %s on thread "+
		"%d: thread ids are not supported, process regions through "+
		"Dispatch", r, threadID)
}
