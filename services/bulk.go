////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package services

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// BulkDispatcher hands the whole job range to an errgroup limited to the
// plan's worker count. Every job is its own scheduling unit, so the group
// balances the load instead of a static chunking of the range.
type BulkDispatcher struct{}

func (b *BulkDispatcher) Strategy() Strategy {
	return Bulk
}

// Run schedules one goroutine per job, at most p.Workers at a time. The
// first failure cancels the group; jobs not started by then are skipped and
// the failure is returned by Wait.
func (b *BulkDispatcher) Run(p Plan, job JobFunc) error {
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(p.Workers)

	// slots give each running job a stable worker id in [0, p.Workers)
	slots := make(chan int, p.Workers)
	for w := 0; w < p.Workers; w++ {
		slots <- w
	}

	for idx := 0; idx < p.JobCount; idx++ {
		if ctx.Err() != nil {
			break
		}
		jobIndex := idx
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			worker := <-slots
			defer func() { slots <- worker }()
			return job(worker, jobIndex)
		})
	}

	return g.Wait()
}
