////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package state

import (
	"fmt"
)

// Status is the lifecycle position of a dispatch.
type Status uint32

const (
	// IDLE is the state before the first dispatch. The job counter is zero.
	IDLE = Status(iota)
	// RUNNING means workers are pulling jobs.
	RUNNING
	// DRAINED means every worker has stopped pulling jobs.
	DRAINED
	NUM_STATUS
)

// Stringer to get the name of the status, primarily for error prints
func (s Status) String() string {
	switch s {
	case IDLE:
		return "IDLE"
	case RUNNING:
		return "RUNNING"
	case DRAINED:
		return "DRAINED"
	default:
		return fmt.Sprintf("UNKNOWN STATE: %d", s)
	}
}
