////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package region

// decompose.go splits a domain into jobs. The trailing ReductionDepth axes are
// cut into unit slices, one job per combination of their coordinates, while
// the leading axes stay whole inside every job.

import (
	"github.com/cznic/mathutil"
	"github.com/pkg/errors"
)

// JobsPerWorkerTarget is the default number of jobs the automatic heuristic
// tries to give each worker.
const JobsPerWorkerTarget = 20

// AutoReductionDepth asks Decompose to choose the reduction depth.
const AutoReductionDepth = -1

// ErrUnresolvedWorkers is returned by Decompose when the automatic heuristic
// is asked to run without a positive worker count.
var ErrUnresolvedWorkers = errors.New("worker count must be resolved " +
	"before choosing the reduction depth")

// ClampDepth limits a requested reduction depth to the dimension of the
// domain. Negative values are left untouched and mean automatic.
func ClampDepth(depth, dimension int) int {
	if depth > dimension {
		return dimension
	}
	return depth
}

// JobCount returns the number of jobs produced by splitting the trailing
// depth axes of the extent.
func JobCount(e Extent, depth int) (int, error) {
	if depth < 0 || depth > len(e) {
		return 0, errors.Errorf("reduction depth %d outside [0, %d]",
			depth, len(e))
	}
	n, err := product(e[len(e)-depth:])
	if err != nil {
		return 0, err
	}
	if n > int64(mathutil.MaxInt) {
		return 0, errors.Errorf("job count %d does not fit in an int", n)
	}
	return int(n), nil
}

// Decompose picks the reduction depth and job count for a dispatch using the
// default JobsPerWorkerTarget.
func Decompose(e Extent, workers, requestedDepth int) (depth, jobs int, err error) {
	return DecomposeWithTarget(e, workers, requestedDepth, JobsPerWorkerTarget)
}

// DecomposeWithTarget picks the reduction depth and job count for a dispatch.
//
// A requested depth of zero or more is used as is, clamped to the dimension
// of the extent. A negative depth consumes axes starting from the last one
// until at least jobsPerWorker*workers jobs exist or no axis is left.
func DecomposeWithTarget(e Extent, workers, requestedDepth,
	jobsPerWorker int) (depth, jobs int, err error) {
	if err = e.Validate(); err != nil {
		return 0, 0, err
	}

	requestedDepth = ClampDepth(requestedDepth, len(e))
	if requestedDepth >= 0 {
		jobs, err = JobCount(e, requestedDepth)
		return requestedDepth, jobs, err
	}

	if workers <= 0 {
		return 0, 0, ErrUnresolvedWorkers
	}
	if jobsPerWorker <= 0 {
		jobsPerWorker = JobsPerWorkerTarget
	}

	minJobs, overflow := mulOverflowInt64(int64(jobsPerWorker),
		int64(workers))
	if overflow {
		minJobs = int64(mathutil.MaxInt)
	}

	count := int64(1)
	for axis := len(e) - 1; axis >= 0 && count < minJobs; axis-- {
		count, overflow = mulOverflowInt64(count, int64(e[axis]))
		if overflow || count > int64(mathutil.MaxInt) {
			return 0, 0, errors.Errorf("job count overflows while "+
				"reducing axis %d of %s", axis, e)
		}
		depth++
	}

	return depth, int(count), nil
}

// MapJobToRegion returns the region handled by a job.
//
// The job index is expanded in mixed radix over the reduced axes, the first
// reduced axis being the least significant digit. The last axis takes the
// remaining quotient without a modulo. Whole axes span the full domain.
//
// jobIndex must lie in [0, JobCount(e, depth)) and depth in [0, len(e)].
// The function keeps no state and is safe for concurrent use.
func MapJobToRegion(e Extent, depth, jobIndex int) Region {
	d := len(e)
	r := Region{
		Origin: make(Origin, d),
		Extent: e.Clone(),
	}
	if depth <= 0 {
		return r
	}

	remaining := jobIndex
	for axis := d - depth; axis < d-1; axis++ {
		r.Origin[axis] = remaining % e[axis]
		r.Extent[axis] = 1
		remaining /= e[axis]
	}
	r.Origin[d-1] = remaining
	r.Extent[d-1] = 1

	return r
}
