////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package services

import (
	"strings"

	"github.com/pkg/errors"
	"gitlab.com/elixxir/workpile/region"
)

// Strategy selects the dispatcher used by an Engine.
type Strategy string

const (
	// Bulk hands the whole job range to a bounded parallel-for.
	Bulk Strategy = "bulk"
	// Queue runs a fixed set of workers draining a shared job counter.
	Queue Strategy = "queue"
)

// CounterKind selects how the Queue dispatcher guards its job counter.
type CounterKind string

const (
	AtomicCounter CounterKind = "atomic"
	MutexCounter  CounterKind = "mutex"
)

// AutoNumWorkers lets the runtime pick the worker count.
const AutoNumWorkers = 0

// Config holds the externally tunable parameters of an Engine.
type Config struct {
	// Workers bounds the number of jobs running at once. AutoNumWorkers
	// resolves to GOMAXPROCS.
	Workers int
	// ReductionDepth is the number of trailing axes split into jobs.
	// Negative values pick it automatically.
	ReductionDepth int
	// JobsPerWorker is the target of the automatic heuristic.
	JobsPerWorker int
	Strategy      Strategy
	Counter       CounterKind
}

// DefaultConfig returns an automatic configuration using the bulk dispatcher.
func DefaultConfig() Config {
	return Config{
		Workers:        AutoNumWorkers,
		ReductionDepth: region.AutoReductionDepth,
		JobsPerWorker:  region.JobsPerWorkerTarget,
		Strategy:       Bulk,
		Counter:        AtomicCounter,
	}
}

// ParseStrategy reads a strategy name, ignoring case.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(s)) {
	case Bulk:
		return Bulk, nil
	case Queue:
		return Queue, nil
	}
	return "", errors.Errorf("unknown dispatch strategy %q", s)
}

// ParseCounterKind reads a counter name, ignoring case.
func ParseCounterKind(s string) (CounterKind, error) {
	switch CounterKind(strings.ToLower(s)) {
	case AtomicCounter:
		return AtomicCounter, nil
	case MutexCounter:
		return MutexCounter, nil
	}
	return "", errors.Errorf("unknown job counter %q", s)
}
