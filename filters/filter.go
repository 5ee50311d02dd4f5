////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package filters

import (
	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"
	"gitlab.com/elixxir/workpile/region"
)

// pointFilter maps every input sample to one output sample. The output is
// allocated by PreDispatch when it was not supplied.
type pointFilter struct {
	name   string
	Input  *Volume
	Output *Volume
	fn     func(int16) int16
}

func (f *pointFilter) PreDispatch() error {
	if f.Input == nil {
		return errors.Errorf("%s: no input volume", f.name)
	}
	if f.Output == nil {
		out, err := NewVolume(f.Input.Extent())
		if err != nil {
			return errors.WithMessagef(err, "%s: cannot allocate output",
				f.name)
		}
		f.Output = out
	}
	if !SameExtent(f.Input, f.Output) {
		return errors.Errorf("%s: input extent %s does not match output "+
			"extent %s", f.name, f.Input.extent, f.Output.extent)
	}
	return nil
}

func (f *pointFilter) ProcessRegion(r region.Region) error {
	if !r.Within(f.Input.extent) {
		return errors.Errorf("%s: region %s outside of %s", f.name, r,
			f.Input.extent)
	}
	r.Each(func(coord []int) {
		f.Output.Set(coord, f.fn(f.Input.At(coord)))
	})
	return nil
}

func (f *pointFilter) PostDispatch() error {
	jww.DEBUG.Printf("%s: wrote %s", f.name, f.Output.extent)
	return nil
}

// Increment adds a constant to every sample.
type Increment struct {
	pointFilter
}

// NewIncrement builds a filter writing input+delta to output. A nil output
// is allocated on dispatch.
func NewIncrement(input, output *Volume, delta int16) *Increment {
	return &Increment{pointFilter{
		name:   "Increment",
		Input:  input,
		Output: output,
		fn:     func(v int16) int16 { return v + delta },
	}}
}

// Threshold writes above where the sample is at least level and below
// elsewhere.
type Threshold struct {
	pointFilter
}

// NewThreshold builds a binary threshold filter. A nil output is allocated
// on dispatch.
func NewThreshold(input, output *Volume, level, below, above int16) *Threshold {
	return &Threshold{pointFilter{
		name:   "Threshold",
		Input:  input,
		Output: output,
		fn: func(v int16) int16 {
			if v >= level {
				return above
			}
			return below
		},
	}}
}
