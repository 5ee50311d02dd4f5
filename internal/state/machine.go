////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

// Package state tracks the lifecycle of a dispatch: IDLE -> RUNNING -> DRAINED,
// and DRAINED -> RUNNING again when the engine is reused.
package state

import (
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Machine is a mutex guarded status with a table of valid transitions.
type Machine struct {
	status Status
	sync.RWMutex

	// closed and replaced on every state change to wake up waiters
	changed chan struct{}

	//holds valid state transitions
	stateMap [NUM_STATUS][NUM_STATUS]bool
}

// NewMachine builds a machine in the IDLE state.
func NewMachine() *Machine {
	m := &Machine{
		status:  IDLE,
		changed: make(chan struct{}),
	}

	m.addStateTransition(IDLE, RUNNING)
	m.addStateTransition(RUNNING, DRAINED)
	m.addStateTransition(DRAINED, RUNNING)

	return m
}

// Get returns the current status.
func (m *Machine) Get() Status {
	m.RLock()
	defer m.RUnlock()
	return m.status
}

// Update moves to nextStatus if the transition is valid and wakes up any
// goroutine blocked in WaitFor.
func (m *Machine) Update(nextStatus Status) (bool, error) {
	m.Lock()
	defer m.Unlock()

	if nextStatus >= NUM_STATUS || !m.stateMap[m.status][nextStatus] {
		return false, errors.Errorf("not a valid state change from "+
			"%s to %s", m.status, nextStatus)
	}

	m.status = nextStatus
	close(m.changed)
	m.changed = make(chan struct{})

	return true, nil
}

// WaitFor blocks until the machine reaches one of the expected states or the
// timeout expires. It returns immediately if the machine is already in one
// of them, and errors if none of them can be reached from the current state.
func (m *Machine) WaitFor(timeout time.Duration, expected ...Status) (Status, error) {
	expectedMap := make(map[Status]bool, len(expected))
	for _, val := range expected {
		expectedMap[val] = true
	}

	m.RLock()
	current, changed := m.status, m.changed
	m.RUnlock()

	if expectedMap[current] {
		return current, nil
	}

	validTransition := false
	for _, s := range expected {
		if s < NUM_STATUS && m.stateMap[current][s] {
			validTransition = true
		}
	}
	if !validTransition {
		return current, errors.Errorf("Cannot wait for state %s which "+
			"cannot be reached from the current state %s", expected, current)
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case <-changed:
			m.RLock()
			current, changed = m.status, m.changed
			m.RUnlock()
			if expectedMap[current] {
				return current, nil
			}
		case <-timer.C:
			return m.Get(), errors.Errorf("Timer of %s timed out before "+
				"state update", timeout)
		}
	}
}

// adds a state transition to the state object
func (m *Machine) addStateTransition(from Status, to ...Status) {
	for _, t := range to {
		m.stateMap[from][t] = true
	}
}
