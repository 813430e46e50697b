/*
 * propgraph client
 *
 * Copyright 2026 propgraph Authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package boltstub

import (
	"context"
	"errors"

	"github.com/propgraph/client/driver"
)

var errColumnOutOfRange = errors.New("boltstub: column index out of range")

/*
wireNode wraps a store node as a driver.Node, converting stored
driver.Value properties back to the plain Go representation
driver.FromObject expects.
*/
type wireNode struct {
	n *node
}

func (w wireNode) Get(key string) (interface{}, bool) {
	v, ok := w.n.props[key]
	if !ok {
		return nil, false
	}
	obj, err := toPlain(v)
	if err != nil {
		return nil, false
	}
	return obj, true
}

func (w wireNode) Keys() []string {
	keys := make([]string, 0, len(w.n.props))
	for k := range w.n.props {
		keys = append(keys, k)
	}
	return keys
}

func (w wireNode) Labels() []string { return append([]string(nil), w.n.labels...) }
func (w wireNode) ID() int64        { return w.n.internal }

/*
wireRelationship wraps a store relationship as a driver.Relationship.
*/
type wireRelationship struct {
	r      *relationship
	outInt int64
	inInt  int64
}

func (w wireRelationship) Get(key string) (interface{}, bool) {
	v, ok := w.r.props[key]
	if !ok {
		return nil, false
	}
	obj, err := toPlain(v)
	if err != nil {
		return nil, false
	}
	return obj, true
}

func (w wireRelationship) Keys() []string {
	keys := make([]string, 0, len(w.r.props))
	for k := range w.r.props {
		keys = append(keys, k)
	}
	return keys
}

func (w wireRelationship) Type() string       { return w.r.relType }
func (w wireRelationship) StartNodeID() int64 { return w.outInt }
func (w wireRelationship) EndNodeID() int64   { return w.inInt }

/*
toPlain inverses driver.FromObject: it converts a stored driver.Value
back into the plain Go representation (nil, int64, float64, bool,
string, []interface{}) that FromObject accepts on the way back in.
*/
func toPlain(v driver.Value) (interface{}, error) {
	obj, err := v.AsObject()
	if err != nil {
		return nil, err
	}
	if list, ok := obj.([]driver.Value); ok {
		out := make([]interface{}, len(list))
		for i, item := range list {
			p, err := toPlain(item)
			if err != nil {
				return nil, err
			}
			out[i] = p
		}
		return out, nil
	}
	return obj, nil
}

/*
record is a single result row, addressed positionally.
*/
type record struct {
	values []driver.Value
}

func (r record) Get(i int) (driver.Value, error) {
	if i < 0 || i >= len(r.values) {
		return driver.Value{}, errColumnOutOfRange
	}
	return r.values[i], nil
}

/*
recordStream is a pre-computed, lazily-walked sequence of records.
boltstub evaluates a statement eagerly and hands back every resulting
row up front, since the in-memory store has no reason to stream
incrementally.
*/
type recordStream struct {
	rows []record
	pos  int
}

func newRecordStream(rows []record) *recordStream {
	return &recordStream{rows: rows}
}

func (s *recordStream) Next(ctx context.Context) (driver.Record, error) {
	if s.pos >= len(s.rows) {
		return nil, driver.ErrStreamDone
	}
	rec := s.rows[s.pos]
	s.pos++
	return rec, nil
}

func (s *recordStream) Close(ctx context.Context) error { return nil }
