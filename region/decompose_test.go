////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package region

import (
	"reflect"
	"testing"

	"github.com/pkg/errors"
)

var testDomain = Extent{30, 10, 5}

// Depth zero yields a single job covering the whole domain.
func TestMapJobToRegion_DepthZero(t *testing.T) {
	jobs, err := JobCount(testDomain, 0)
	if err != nil {
		t.Fatalf("JobCount errored: %+v", err)
	}
	if jobs != 1 {
		t.Errorf("Expected 1 job, got %d", jobs)
	}

	r := MapJobToRegion(testDomain, 0, 0)
	expected := Region{Origin: Origin{0, 0, 0}, Extent: Extent{30, 10, 5}}
	if !reflect.DeepEqual(r, expected) {
		t.Errorf("Region mismatch: expected %s, got %s", expected, r)
	}
}

func TestMapJobToRegion_DepthOne(t *testing.T) {
	jobs, err := JobCount(testDomain, 1)
	if err != nil {
		t.Fatalf("JobCount errored: %+v", err)
	}
	if jobs != 5 {
		t.Fatalf("Expected 5 jobs, got %d", jobs)
	}

	for i := 0; i < jobs; i++ {
		r := MapJobToRegion(testDomain, 1, i)
		expected := Region{Origin: Origin{0, 0, i}, Extent: Extent{30, 10, 1}}
		if !reflect.DeepEqual(r, expected) {
			t.Errorf("Job %d: expected %s, got %s", i, expected, r)
		}
	}
}

func TestMapJobToRegion_DepthTwo(t *testing.T) {
	jobs, err := JobCount(testDomain, 2)
	if err != nil {
		t.Fatalf("JobCount errored: %+v", err)
	}
	if jobs != 50 {
		t.Fatalf("Expected 50 jobs, got %d", jobs)
	}

	r := MapJobToRegion(testDomain, 2, 12)
	expected := Region{Origin: Origin{0, 2, 1}, Extent: Extent{30, 1, 1}}
	if !reflect.DeepEqual(r, expected) {
		t.Errorf("Job 12: expected %s, got %s", expected, r)
	}
}

func TestMapJobToRegion_DepthFull(t *testing.T) {
	jobs, err := JobCount(testDomain, 3)
	if err != nil {
		t.Fatalf("JobCount errored: %+v", err)
	}
	if jobs != 1500 {
		t.Fatalf("Expected 1500 jobs, got %d", jobs)
	}

	for i := 0; i < jobs; i++ {
		r := MapJobToRegion(testDomain, 3, i)
		if !reflect.DeepEqual(r.Extent, Extent{1, 1, 1}) {
			t.Errorf("Job %d: expected unit extent, got %s", i, r.Extent)
		}
	}
}

// The regions of every job partition the domain: each cell is covered by
// exactly one job and no region leaves the domain.
func TestMapJobToRegion_Partition(t *testing.T) {
	domains := []Extent{
		{30, 10, 5},
		{4, 8},
		{7},
		{3, 1, 4, 2},
		{1, 1, 1},
	}

	for _, domain := range domains {
		vol, err := Volume(domain)
		if err != nil {
			t.Fatalf("Volume errored: %+v", err)
		}
		for depth := 0; depth <= len(domain); depth++ {
			jobs, err := JobCount(domain, depth)
			if err != nil {
				t.Fatalf("JobCount errored: %+v", err)
			}

			hits := make(map[string]int, vol)
			for i := 0; i < jobs; i++ {
				r := MapJobToRegion(domain, depth, i)
				if !r.Within(domain) {
					t.Errorf("domain %s depth %d: job %d region %s leaves "+
						"the domain", domain, depth, i, r)
				}
				r.Each(func(coord []int) {
					hits[Extent(coord).String()]++
				})
			}

			if int64(len(hits)) != vol {
				t.Errorf("domain %s depth %d: covered %d cells, expected %d",
					domain, depth, len(hits), vol)
			}
			for cell, n := range hits {
				if n != 1 {
					t.Errorf("domain %s depth %d: cell %s covered %d times",
						domain, depth, cell, n)
				}
			}
		}
	}
}

func TestMapJobToRegion_Deterministic(t *testing.T) {
	for i := 0; i < 50; i++ {
		a := MapJobToRegion(testDomain, 2, i)
		b := MapJobToRegion(testDomain, 2, i)
		if !reflect.DeepEqual(a, b) {
			t.Errorf("Job %d mapped to %s then %s", i, a, b)
		}
	}
}

// The first reduced axis is the least significant digit of the job index
// while the heuristic consumes axes from the last one. Changing either order
// changes which axes are parallelized first.
func TestMapJobToRegion_AxisOrder(t *testing.T) {
	domain := Extent{2, 3, 4}
	first := MapJobToRegion(domain, 2, 1)
	if !reflect.DeepEqual(first.Origin, Origin{0, 1, 0}) {
		t.Errorf("Job 1 should step the first reduced axis, got %s", first)
	}
	carry := MapJobToRegion(domain, 2, 3)
	if !reflect.DeepEqual(carry.Origin, Origin{0, 0, 1}) {
		t.Errorf("Job 3 should carry into the last axis, got %s", carry)
	}
}

func TestDecompose_Explicit(t *testing.T) {
	expected := []int{1, 5, 50, 1500}
	for depth, want := range expected {
		gotDepth, jobs, err := Decompose(testDomain, 4, depth)
		if err != nil {
			t.Fatalf("Decompose errored: %+v", err)
		}
		if gotDepth != depth || jobs != want {
			t.Errorf("depth %d: expected (%d, %d), got (%d, %d)", depth,
				depth, want, gotDepth, jobs)
		}
	}
}

func TestDecompose_ClampsDepth(t *testing.T) {
	depth, jobs, err := Decompose(testDomain, 4, 9)
	if err != nil {
		t.Fatalf("Decompose errored: %+v", err)
	}
	if depth != 3 || jobs != 1500 {
		t.Errorf("Expected depth 3 with 1500 jobs, got %d with %d", depth, jobs)
	}
}

// Increasing the depth never decreases the job count and the full depth
// equals the volume of the domain.
func TestDecompose_Monotone(t *testing.T) {
	domain := Extent{3, 1, 4, 2}
	previous := 0
	for depth := 0; depth <= len(domain); depth++ {
		_, jobs, err := Decompose(domain, 1, depth)
		if err != nil {
			t.Fatalf("Decompose errored: %+v", err)
		}
		if jobs < previous {
			t.Errorf("depth %d: %d jobs is fewer than %d", depth, jobs,
				previous)
		}
		previous = jobs
	}
	vol, _ := Volume(domain)
	if int64(previous) != vol {
		t.Errorf("Full depth should give %d jobs, got %d", vol, previous)
	}
}

// Domain (4,4) with two workers needs 40 jobs, so both axes get reduced.
func TestDecompose_AutoSmallDomain(t *testing.T) {
	depth, jobs, err := Decompose(Extent{4, 4}, 2, AutoReductionDepth)
	if err != nil {
		t.Fatalf("Decompose errored: %+v", err)
	}
	if depth != 2 {
		t.Errorf("Expected depth 2, got %d", depth)
	}
	if jobs != 16 {
		t.Errorf("Expected 16 jobs, got %d", jobs)
	}
}

func TestDecompose_AutoStopsAtTarget(t *testing.T) {
	// 4 workers want 80 jobs: 5 after the last axis, 50 after the second,
	// 1500 after the first
	depth, jobs, err := Decompose(testDomain, 4, AutoReductionDepth)
	if err != nil {
		t.Fatalf("Decompose errored: %+v", err)
	}
	if depth != 3 || jobs != 1500 {
		t.Errorf("Expected (3, 1500), got (%d, %d)", depth, jobs)
	}

	// 2 workers want 40 jobs, reached after two axes
	depth, jobs, err = Decompose(testDomain, 2, AutoReductionDepth)
	if err != nil {
		t.Fatalf("Decompose errored: %+v", err)
	}
	if depth != 2 || jobs != 50 {
		t.Errorf("Expected (2, 50), got (%d, %d)", depth, jobs)
	}
}

func TestDecompose_AutoTerminates(t *testing.T) {
	domains := []Extent{{1}, {1, 1, 1}, {2, 2}, {1000, 1000}}
	for _, domain := range domains {
		for workers := 1; workers < 64; workers *= 2 {
			depth, jobs, err := Decompose(domain, workers, AutoReductionDepth)
			if err != nil {
				t.Fatalf("Decompose errored: %+v", err)
			}
			if depth < 0 || depth > len(domain) {
				t.Errorf("domain %s workers %d: depth %d out of range",
					domain, workers, depth)
			}
			if jobs < 1 {
				t.Errorf("domain %s workers %d: %d jobs", domain, workers,
					jobs)
			}
		}
	}
}

func TestDecomposeWithTarget(t *testing.T) {
	depth, jobs, err := DecomposeWithTarget(testDomain, 1, AutoReductionDepth, 5)
	if err != nil {
		t.Fatalf("DecomposeWithTarget errored: %+v", err)
	}
	if depth != 1 || jobs != 5 {
		t.Errorf("Expected (1, 5), got (%d, %d)", depth, jobs)
	}
}

func TestDecompose_UnresolvedWorkers(t *testing.T) {
	_, _, err := Decompose(testDomain, 0, AutoReductionDepth)
	if !errors.Is(err, ErrUnresolvedWorkers) {
		t.Errorf("Expected ErrUnresolvedWorkers, got %v", err)
	}

	// explicit depths do not depend on the worker count
	if _, _, err = Decompose(testDomain, 0, 1); err != nil {
		t.Errorf("Explicit depth should not need workers: %+v", err)
	}
}

func TestDecompose_InvalidExtent(t *testing.T) {
	for _, domain := range []Extent{{}, {4, 0}, {-1, 3}} {
		_, _, err := Decompose(domain, 2, AutoReductionDepth)
		if !errors.Is(err, ErrInvalidExtent) {
			t.Errorf("domain %v: expected ErrInvalidExtent, got %v",
				domain, err)
		}
	}
}

func TestDecompose_Overflow(t *testing.T) {
	huge := Extent{1 << 40, 1 << 40}
	if _, _, err := Decompose(huge, 1, 2); err == nil {
		t.Errorf("Expected an overflow error")
	}
}
