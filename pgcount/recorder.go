/*
 * propgraph client
 *
 * Copyright 2026 propgraph Authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Package pgcount is optional Prometheus instrumentation for the commit,
rollback and sequence-refill events a Session and an id.Provider
already raise. Package session (Session.SetMetrics) and package id
(id.WithMetrics) accept an optional *Recorder; callers that want
metrics construct one and hand it to client.WithMetrics /
id.WithMetrics, and a nil Recorder keeps the core usable with no
metrics endpoint at all.
*/
package pgcount

import "github.com/prometheus/client_golang/prometheus"

/*
Recorder holds the three counters this module emits. A Recorder is
safe for concurrent use, inheriting that guarantee from the underlying
prometheus.Counter implementation.
*/
type Recorder struct {
	commits     prometheus.Counter
	rollbacks   prometheus.Counter
	poolRefills prometheus.Counter
}

/*
NewRecorder creates the three counters and registers them against reg.
Registering the same Recorder's counters against the same registerer
twice returns the AlreadyRegisteredError reg.Register itself returns.
*/
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		commits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "propgraph",
			Subsystem: "session",
			Name:      "commits_total",
			Help:      "Total number of transactions committed.",
		}),
		rollbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "propgraph",
			Subsystem: "session",
			Name:      "rollbacks_total",
			Help:      "Total number of transactions rolled back.",
		}),
		poolRefills: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "propgraph",
			Subsystem: "id",
			Name:      "pool_refills_total",
			Help:      "Total number of sequence-pool refill round trips to the back-end.",
		}),
	}

	for _, c := range []prometheus.Collector{r.commits, r.rollbacks, r.poolRefills} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return r, nil
}

/*
Commit records a successful Session.Commit.
*/
func (r *Recorder) Commit() {
	if r == nil {
		return
	}
	r.commits.Inc()
}

/*
Rollback records a Session.Rollback, whether explicit or from Close
discarding an open transaction.
*/
func (r *Recorder) Rollback() {
	if r == nil {
		return
	}
	r.rollbacks.Inc()
}

/*
PoolRefill records one round trip through a sequence id.Provider's
back-end refill statement.
*/
func (r *Recorder) PoolRefill() {
	if r == nil {
		return
	}
	r.poolRefills.Inc()
}
