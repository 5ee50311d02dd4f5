////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

// Handles the high level storage API.
// This layer merges the business logic layer and the database layer

package storage

import (
	"strconv"
	"strings"

	"gitlab.com/elixxir/workpile/services"
)

// Storage API for the storage layer
type Storage struct {
	// Stored database interface
	database
}

// NewStorage Create a new Storage object wrapping a database interface.
// Without connection information a map backend is used when devMode is set.
func NewStorage(username, password, dbName, address, port string,
	devMode bool) (*Storage, error) {
	db, err := newDatabase(username, password, dbName, address, port, devMode)
	if err != nil {
		return nil, err
	}
	return &Storage{db}, nil
}

// Record stores the summary of a finished dispatch
func (s *Storage) Record(report *services.Report) (*Dispatch, error) {
	d := NewDispatch(report)
	return d, s.InsertDispatch(d)
}

// NewDispatch converts a dispatch report into its stored form
func NewDispatch(report *services.Report) *Dispatch {
	perWorker := make([]string, len(report.JobsPerWorker))
	for i, n := range report.JobsPerWorker {
		perWorker[i] = strconv.Itoa(n)
	}

	return &Dispatch{
		Id:             report.ID.String(),
		Strategy:       string(report.Strategy),
		Extent:         report.Extent.String(),
		Workers:        report.Workers,
		ReductionDepth: report.ReductionDepth,
		JobCount:       report.JobCount,
		JobsPerWorker:  strings.Join(perWorker, ","),
		Started:        report.Started,
		Elapsed:        report.Elapsed,
		Error:          report.Err,
	}
}
