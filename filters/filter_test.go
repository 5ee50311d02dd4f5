////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package filters

import (
	"testing"

	"gitlab.com/elixxir/workpile/region"
	"gitlab.com/elixxir/workpile/services"
)

var strategies = []services.Config{
	{Strategy: services.Bulk},
	{Strategy: services.Queue, Counter: services.AtomicCounter},
	{Strategy: services.Queue, Counter: services.MutexCounter},
}

func dispatch(t *testing.T, cfg services.Config, extent region.Extent,
	workers, depth int, task services.Task) {
	e, err := services.NewEngine(cfg)
	if err != nil {
		t.Fatalf("NewEngine errored: %+v", err)
	}
	if err = e.Configure(extent, workers, depth); err != nil {
		t.Fatalf("Configure errored: %+v", err)
	}
	if _, err = e.Dispatch(task); err != nil {
		t.Fatalf("Dispatch errored: %+v", err)
	}
}

// A zero 4x8 image incremented by one must be one everywhere.
func TestIncrement_Image(t *testing.T) {
	for _, cfg := range strategies {
		input, err := NewVolume(region.Extent{4, 8})
		if err != nil {
			t.Fatalf("NewVolume errored: %+v", err)
		}

		inc := NewIncrement(input, nil, 1)
		dispatch(t, cfg, input.Extent(), services.AutoNumWorkers,
			region.AutoReductionDepth, inc)

		if coord, found := inc.Output.Find(func(v int16) bool {
			return v == 1
		}); found {
			t.Errorf("%s: value %d != 1 at %v", cfg.Strategy,
				inc.Output.At(coord), coord)
		}
	}
}

func TestIncrement_EveryDepth(t *testing.T) {
	extent := region.Extent{6, 5, 4}
	for _, cfg := range strategies {
		for depth := 0; depth <= len(extent); depth++ {
			input, _ := NewVolume(extent)
			input.Fill(10)
			output, _ := NewVolume(extent)

			dispatch(t, cfg, extent, 3, depth, NewIncrement(input, output, 5))

			if coord, found := output.Find(func(v int16) bool {
				return v == 15
			}); found {
				t.Errorf("%s depth %d: value %d != 15 at %v", cfg.Strategy,
					depth, output.At(coord), coord)
			}
		}
	}
}

func TestThreshold(t *testing.T) {
	input, _ := NewVolume(region.Extent{5, 5})
	input.Bounds().Each(func(coord []int) {
		input.Set(coord, int16(coord[0]+coord[1]))
	})

	th := NewThreshold(input, nil, 4, 0, 255)
	dispatch(t, services.DefaultConfig(), input.Extent(), 2, 1, th)

	th.Output.Bounds().Each(func(coord []int) {
		expected := int16(0)
		if coord[0]+coord[1] >= 4 {
			expected = 255
		}
		if th.Output.At(coord) != expected {
			t.Errorf("At %v: expected %d, got %d", coord, expected,
				th.Output.At(coord))
		}
	})
}

func TestPointFilter_Mismatch(t *testing.T) {
	input, _ := NewVolume(region.Extent{4, 4})
	output, _ := NewVolume(region.Extent{4, 5})

	if err := NewIncrement(input, output, 1).PreDispatch(); err == nil {
		t.Errorf("Mismatched extents should fail the pre-dispatch hook")
	}
	if err := NewIncrement(nil, output, 1).PreDispatch(); err == nil {
		t.Errorf("A missing input should fail the pre-dispatch hook")
	}
}

func TestPointFilter_RegionOutside(t *testing.T) {
	input, _ := NewVolume(region.Extent{4, 4})
	inc := NewIncrement(input, nil, 1)
	if err := inc.PreDispatch(); err != nil {
		t.Fatalf("PreDispatch errored: %+v", err)
	}

	r := region.Region{Origin: region.Origin{3, 0}, Extent: region.Extent{2, 1}}
	if err := inc.ProcessRegion(r); err == nil {
		t.Errorf("A region outside of the volume should be rejected")
	}
}

func TestVolume_Layout(t *testing.T) {
	v, err := NewVolume(region.Extent{3, 2})
	if err != nil {
		t.Fatalf("NewVolume errored: %+v", err)
	}
	v.Set([]int{1, 1}, 7)
	if v.data[4] != 7 {
		t.Errorf("Axis 0 should vary fastest, data: %v", v.data)
	}
	if _, err = NewVolume(region.Extent{0, 2}); err == nil {
		t.Errorf("Zero sized volume accepted")
	}
}
