////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

// Handles the Map backend for dispatch storage

package storage

import (
	"sort"

	"github.com/pkg/errors"
)

// InsertDispatch stores a new Dispatch in the Map
func (m *MapImpl) InsertDispatch(dispatch *Dispatch) error {
	m.Lock()
	defer m.Unlock()

	if _, ok := m.dispatches[dispatch.Id]; ok {
		return errors.Errorf("Dispatch %s already stored", dispatch.Id)
	}
	m.dispatches[dispatch.Id] = dispatch
	return nil
}

// GetDispatch returns the Dispatch with the given ID from the Map
// Or an error if a matching Dispatch does not exist
func (m *MapImpl) GetDispatch(id string) (*Dispatch, error) {
	m.Lock()
	defer m.Unlock()

	if val, ok := m.dispatches[id]; ok {
		return val, nil
	}
	return nil, errors.Errorf("Unable to locate Dispatch for ID %s", id)
}

// GetDispatches returns up to limit Dispatches, most recent first
func (m *MapImpl) GetDispatches(limit int) ([]*Dispatch, error) {
	m.Lock()
	defer m.Unlock()

	result := make([]*Dispatch, 0, len(m.dispatches))
	for _, d := range m.dispatches {
		result = append(result, d)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Started.After(result[j].Started)
	})
	if limit >= 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
