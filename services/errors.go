////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package services

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidConfiguration is returned before any worker starts when the
	// domain, worker count or reduction depth cannot be dispatched.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrWorkerFailure is the kind of every error raised by ProcessRegion.
	ErrWorkerFailure = errors.New("worker failure")
	// ErrContractViolation is returned when regions are processed outside
	// of a dispatch.
	ErrContractViolation = errors.New("contract violation")
)

// JobError is a failure tied to a single job.
type JobError struct {
	Kind   error
	Index  int
	Worker int
	Err    error
}

func newJobError(kind error, worker, index int, err error) *JobError {
	return &JobError{Kind: kind, Index: index, Worker: worker, Err: err}
}

func (e *JobError) Error() string {
	return fmt.Sprintf("%s: job %d on worker %d: %s", e.Kind, e.Index,
		e.Worker, e.Err)
}

// Is matches the kind of the failure so errors.Is(err, ErrWorkerFailure)
// holds for any job failure.
func (e *JobError) Is(target error) bool {
	return target == e.Kind
}

// Unwrap returns the error raised by the job.
func (e *JobError) Unwrap() error {
	return e.Err
}

// Cause returns the error raised by the job for errors.Cause.
func (e *JobError) Cause() error {
	return e.Err
}

func invalidConfiguration(format string, args ...interface{}) error {
	return errors.WithMessagef(ErrInvalidConfiguration, format, args...)
}
