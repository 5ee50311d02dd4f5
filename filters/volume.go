////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

// Package filters contains voxel transforms run through services.Engine.
package filters

import (
	"github.com/pkg/errors"
	"gitlab.com/elixxir/workpile/region"
)

// Volume is a dense N dimensional buffer of int16 samples stored with axis 0
// varying fastest.
type Volume struct {
	extent  region.Extent
	strides []int
	data    []int16
}

// NewVolume allocates a zeroed volume.
func NewVolume(extent region.Extent) (*Volume, error) {
	if err := extent.Validate(); err != nil {
		return nil, err
	}
	n, err := region.Volume(extent)
	if err != nil {
		return nil, errors.WithMessage(err, "cannot allocate volume")
	}

	strides := make([]int, len(extent))
	stride := 1
	for d, size := range extent {
		strides[d] = stride
		stride *= size
	}

	return &Volume{
		extent:  extent.Clone(),
		strides: strides,
		data:    make([]int16, n),
	}, nil
}

// Extent returns the size of the volume.
func (v *Volume) Extent() region.Extent {
	return v.extent.Clone()
}

// Bounds returns the region covering the whole volume.
func (v *Volume) Bounds() region.Region {
	return region.Region{
		Origin: make(region.Origin, len(v.extent)),
		Extent: v.extent.Clone(),
	}
}

func (v *Volume) offset(coord []int) int {
	off := 0
	for d, c := range coord {
		off += c * v.strides[d]
	}
	return off
}

// At returns the sample at coord, which must lie inside the volume.
func (v *Volume) At(coord []int) int16 {
	return v.data[v.offset(coord)]
}

// Set writes the sample at coord, which must lie inside the volume.
func (v *Volume) Set(coord []int, value int16) {
	v.data[v.offset(coord)] = value
}

// Fill sets every sample.
func (v *Volume) Fill(value int16) {
	for i := range v.data {
		v.data[i] = value
	}
}

// SameExtent reports whether both volumes have the same size on every axis.
func SameExtent(a, b *Volume) bool {
	if len(a.extent) != len(b.extent) {
		return false
	}
	for d := range a.extent {
		if a.extent[d] != b.extent[d] {
			return false
		}
	}
	return true
}

// Find returns the first coordinate whose sample does not satisfy ok.
func (v *Volume) Find(ok func(int16) bool) ([]int, bool) {
	var bad []int
	v.Bounds().Each(func(coord []int) {
		if bad == nil && !ok(v.At(coord)) {
			bad = append([]int(nil), coord...)
		}
	})
	return bad, bad != nil
}
