////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

// Package measure records tagged timestamps taken around the phases of a
// dispatch and keeps running per worker totals of the jobs.
package measure

import (
	"sync"
	"time"
)

// Metrics holds the list of events recorded during a dispatch. It is meant
// for a bounded number of tags, not one event per job.
type Metrics struct {
	Events []Metric
	sync.Mutex
}

// Metric is a single measurement: a tag and the time it was taken at.
type Metric struct {
	Tag       string
	Timestamp time.Time
}

// Span is the aggregate of every start/end pair recorded under one tag.
type Span struct {
	Count int
	Busy  time.Duration
}

// Measure appends an event for tag and returns its timestamp.
func (ms *Metrics) Measure(tag string) time.Time {
	metric := Metric{
		Tag:       tag,
		Timestamp: time.Now(),
	}

	ms.Lock()
	ms.Events = append(ms.Events, metric)
	ms.Unlock()

	return metric.Timestamp
}

// GetEvents returns a copy of the event list.
func (ms *Metrics) GetEvents() []Metric {
	ms.Lock()
	defer ms.Unlock()
	metricsEvents := make([]Metric, len(ms.Events))

	copy(metricsEvents, ms.Events)

	return metricsEvents
}

// Spans pairs up consecutive events carrying the same tag and sums the time
// between each start and its end.
//
// Events of different tags may be interleaved, e.g.
//
//	A, B, A, A, B
//
// becomes Delta(A, A) and Delta(B, B) plus an open start for A, which is
// ignored.
func (ms *Metrics) Spans() map[string]Span {
	events := ms.GetEvents()

	starts := make(map[string]time.Time)
	spans := make(map[string]Span)

	for _, e := range events {
		start, ok := starts[e.Tag]
		if !ok {
			starts[e.Tag] = e.Timestamp
			continue
		}
		s := spans[e.Tag]
		s.Count++
		s.Busy += e.Timestamp.Sub(start)
		spans[e.Tag] = s
		delete(starts, e.Tag)
	}

	return spans
}
