/*
 * propgraph client
 *
 * Copyright 2026 propgraph Authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package pgcount

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("writing metric: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestRecorderIncrements(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewRecorder(reg)
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}

	rec.Commit()
	rec.Commit()
	rec.Rollback()
	rec.PoolRefill()
	rec.PoolRefill()
	rec.PoolRefill()

	if v := counterValue(t, rec.commits); v != 2 {
		t.Fatalf("expected 2 commits, got %v", v)
	}
	if v := counterValue(t, rec.rollbacks); v != 1 {
		t.Fatalf("expected 1 rollback, got %v", v)
	}
	if v := counterValue(t, rec.poolRefills); v != 3 {
		t.Fatalf("expected 3 pool refills, got %v", v)
	}
}

/*
TestRecorderNilIsNoOp covers the nil-Recorder fast path relied on by
every caller that wires metrics as an optional, possibly-unset field.
*/
func TestRecorderNilIsNoOp(t *testing.T) {
	var rec *Recorder
	rec.Commit()
	rec.Rollback()
	rec.PoolRefill()
}

func TestNewRecorderRejectsDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewRecorder(reg); err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}
	if _, err := NewRecorder(reg); err == nil {
		t.Fatalf("expected an error registering a second Recorder against the same registry")
	}
}
