////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

// Handles the database ORM for dispatches

package storage

import (
	"context"
	"errors"
	"time"

	jww "github.com/spf13/jwalterweatherman"
)

// Helper for forcing panics in the event of a CDE, otherwise acts as a pass-through
func catchCde(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		jww.FATAL.Panicf("Database call timed out: %+v", err.Error())
	}
	return err
}

// InsertDispatch stores a new Dispatch in the Database
func (d *DatabaseImpl) InsertDispatch(dispatch *Dispatch) error {
	ctx, cancel := context.WithTimeout(context.Background(), DbTimeout*time.Second)
	defer cancel()

	return catchCde(d.db.WithContext(ctx).Create(dispatch).Error)
}

// GetDispatch returns the Dispatch with the given ID from the Database
func (d *DatabaseImpl) GetDispatch(id string) (*Dispatch, error) {
	ctx, cancel := context.WithTimeout(context.Background(), DbTimeout*time.Second)
	defer cancel()

	result := &Dispatch{Id: id}
	err := d.db.WithContext(ctx).Take(result).Error
	return result, catchCde(err)
}

// GetDispatches returns up to limit Dispatches, most recent first
func (d *DatabaseImpl) GetDispatches(limit int) ([]*Dispatch, error) {
	ctx, cancel := context.WithTimeout(context.Background(), DbTimeout*time.Second)
	defer cancel()

	var result []*Dispatch
	err := d.db.WithContext(ctx).Order("started desc").Limit(limit).
		Find(&result).Error
	return result, catchCde(err)
}
