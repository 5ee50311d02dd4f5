////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

// Package region holds the geometry of a dispatch: the extent of the compute
// domain, the sub-regions handed to jobs and the arithmetic which maps a flat
// job index onto one of those sub-regions.
package region

import (
	"fmt"
	"math"
	"math/bits"
	"strings"

	"github.com/cznic/mathutil"
	"github.com/pkg/errors"
)

// ErrInvalidExtent is returned when an extent has no axes or an axis of size
// zero or less.
var ErrInvalidExtent = errors.New("invalid extent")

// Extent is the size of a domain or region along each axis. Axis 0 is the
// fastest varying axis of the backing storage.
type Extent []int

// Origin is a coordinate inside a domain.
type Origin []int

// Dimension returns the number of axes.
func (e Extent) Dimension() int {
	return len(e)
}

// Clone returns a copy which does not share backing memory with e.
func (e Extent) Clone() Extent {
	c := make(Extent, len(e))
	copy(c, e)
	return c
}

// Validate checks that the extent has at least one axis and that every axis
// is strictly positive.
func (e Extent) Validate() error {
	if len(e) == 0 {
		return errors.WithMessage(ErrInvalidExtent, "extent has no axes")
	}
	for axis, size := range e {
		if size <= 0 {
			return errors.WithMessagef(ErrInvalidExtent,
				"axis %d has size %d", axis, size)
		}
	}
	return nil
}

// Volume returns the number of cells covered by the extent. An error is
// returned if the product does not fit in an int64.
func Volume(e Extent) (int64, error) {
	return product(e)
}

func product(sizes []int) (int64, error) {
	p := int64(1)
	for _, s := range sizes {
		var overflow bool
		p, overflow = mulOverflowInt64(p, int64(s))
		if overflow {
			return 0, errors.Errorf("product of %v overflows int64", sizes)
		}
	}
	return p, nil
}

// mulOverflowInt64 returns a*b and whether the product overflows an int64.
func mulOverflowInt64(a, b int64) (int64, bool) {
	negative := (a < 0) != (b < 0)
	ua, ub := uint64(a), uint64(b)
	if a < 0 {
		ua = -ua
	}
	if b < 0 {
		ub = -ub
	}

	hi, lo := bits.Mul64(ua, ub)
	if hi != 0 {
		return 0, true
	}
	if negative {
		if lo > 1<<63 {
			return 0, true
		}
		return int64(-lo), false
	}
	if lo > math.MaxInt64 {
		return 0, true
	}
	return int64(lo), false
}

func (e Extent) String() string {
	parts := make([]string, len(e))
	for i, s := range e {
		parts[i] = fmt.Sprint(s)
	}
	return "(" + strings.Join(parts, ",") + ")"
}

// Region is a rectangular sub-domain: the cells c with
// Origin[d] <= c[d] < Origin[d]+Extent[d] on every axis d.
type Region struct {
	Origin Origin
	Extent Extent
}

// Dimension returns the number of axes of the region.
func (r Region) Dimension() int {
	return len(r.Extent)
}

// Size returns the number of cells inside the region.
func (r Region) Size() int {
	n := 1
	for _, s := range r.Extent {
		n *= s
	}
	return n
}

// Equal reports whether both regions cover the same cells with the same
// dimension.
func (r Region) Equal(o Region) bool {
	if len(r.Origin) != len(o.Origin) || len(r.Extent) != len(o.Extent) {
		return false
	}
	for d := range r.Origin {
		if r.Origin[d] != o.Origin[d] || r.Extent[d] != o.Extent[d] {
			return false
		}
	}
	return true
}

// Contains reports whether coord lies inside the region.
func (r Region) Contains(coord []int) bool {
	if len(coord) != len(r.Extent) {
		return false
	}
	for d, c := range coord {
		if c < r.Origin[d] || c >= r.Origin[d]+r.Extent[d] {
			return false
		}
	}
	return true
}

// Overlaps reports whether the two regions share at least one cell.
func (r Region) Overlaps(o Region) bool {
	if len(r.Extent) != len(o.Extent) {
		return false
	}
	for d := range r.Extent {
		lo := mathutil.Max(r.Origin[d], o.Origin[d])
		hi := mathutil.Min(r.Origin[d]+r.Extent[d], o.Origin[d]+o.Extent[d])
		if lo >= hi {
			return false
		}
	}
	return true
}

// Within reports whether the region lies entirely inside a domain of the
// given extent.
func (r Region) Within(domain Extent) bool {
	if len(r.Extent) != len(domain) || len(r.Origin) != len(domain) {
		return false
	}
	for d := range domain {
		if r.Origin[d] < 0 || r.Extent[d] < 0 ||
			r.Origin[d]+r.Extent[d] > domain[d] {
			return false
		}
	}
	return true
}

// Each calls fn for every coordinate inside the region, axis 0 varying
// fastest. The slice passed to fn is reused between calls.
func (r Region) Each(fn func(coord []int)) {
	if r.Size() == 0 {
		return
	}
	coord := make([]int, len(r.Origin))
	copy(coord, r.Origin)
	for {
		fn(coord)
		d := 0
		for ; d < len(coord); d++ {
			coord[d]++
			if coord[d] < r.Origin[d]+r.Extent[d] {
				break
			}
			coord[d] = r.Origin[d]
		}
		if d == len(coord) {
			return
		}
	}
}

func (r Region) String() string {
	o := Extent(r.Origin)
	return fmt.Sprintf("origin%s extent%s", o.String(), r.Extent.String())
}
