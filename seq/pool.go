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
Package seq holds the monotonic-counter bookkeeping behind a
server-backed sequence allocator: a local (counter, maximum) pair that
is refilled in poolSize-sized ranges from a back-end counter node. It
is split out of package id so the pool-exhaustion/refill logic can be
unit tested against a fake Refill function without pulling in the
driver or session packages.
*/
package seq

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/propgraph/client/plog"
)

var log = plog.Get("seq")

/*
RefillFunc atomically increments the back-end counter node by poolSize
and returns the new top of the range. It is expected to run as a single
transactional statement against the back-end.
*/
type RefillFunc func(poolSize int64) (newTop int64, err error)

/*
Pool hands out strictly monotonic, unique int64 values. Each Next is an
atomic increment of counter followed by a read of maximum under the
mutex; a refill holds that mutex for its whole back-end round trip, so
every caller waits while a refill is in flight, not only the callers
whose increment ran past the local range.
*/
type Pool struct {
	poolSize int64
	refill   RefillFunc

	mu      sync.Mutex
	counter int64
	maximum int64
}

/*
NewPool creates a Pool that refills poolSize ids at a time using refill.
*/
func NewPool(poolSize int64, refill RefillFunc) *Pool {
	if poolSize < 1 {
		poolSize = 1
	}
	return &Pool{poolSize: poolSize, refill: refill}
}

/*
Next returns the next id in the sequence, refilling the local range from
the back-end if it is exhausted. Concurrent callers take the mutex
briefly on every call and wait on it while a refill is in flight.
*/
func (p *Pool) Next() (int64, error) {
	for {
		next := atomic.AddInt64(&p.counter, 1)

		p.mu.Lock()
		max := p.maximum
		p.mu.Unlock()

		if next <= max {
			return next, nil
		}

		if err := p.refillLocked(next); err != nil {
			return 0, err
		}
		// Another goroutine may have already advanced counter past our
		// failed attempt; loop and retry against the refreshed range.
	}
}

/*
refillLocked re-checks exhaustion under the mutex and, if still
exhausted, issues exactly one Refill call. Local counter and maximum are
only mutated after Refill succeeds; a failed refill leaves no id from
the attempted range observable.
*/
func (p *Pool) refillLocked(attempted int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if attempted <= p.maximum {
		// Someone else refilled while we were waiting for the lock.
		return nil
	}

	newTop, err := p.refill(p.poolSize)
	if err != nil {
		return err
	}

	atomic.StoreInt64(&p.counter, newTop-p.poolSize)
	p.maximum = newTop
	log.Debug(fmt.Sprintf("refilled pool: range (%d, %d]", newTop-p.poolSize, newTop))

	return nil
}
