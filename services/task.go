////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package services

import "gitlab.com/elixxir/workpile/region"

// Task is the computation run by a dispatch.
//
// PreDispatch runs once, alone, before any region is processed. ProcessRegion
// runs once per job, possibly on several goroutines at the same time; the
// regions passed to it never overlap, so it may write its output without
// locking but must keep any scratch state local to the call. PostDispatch
// runs once, alone, after every ProcessRegion call has returned.
type Task interface {
	PreDispatch() error
	ProcessRegion(r region.Region) error
	PostDispatch() error
}

// RegionFunc adapts a function to a Task with no setup or teardown.
type RegionFunc func(r region.Region) error

func (f RegionFunc) PreDispatch() error {
	return nil
}

func (f RegionFunc) ProcessRegion(r region.Region) error {
	return f(r)
}

func (f RegionFunc) PostDispatch() error {
	return nil
}
