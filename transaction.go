/*
 * propgraph client
 *
 * Copyright 2026 propgraph Authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package client

import (
	"context"

	"github.com/propgraph/client/driver"
	"github.com/propgraph/client/element"
	"github.com/propgraph/client/id"
	"github.com/propgraph/client/partition"
	"github.com/propgraph/client/session"
)

/*
Transaction is the per-caller handle binding a Session's lifecycle to
an explicit begin/commit/rollback protocol. It is not safe for
concurrent use; each caller obtains its own Transaction from Graph.Tx.
*/
type Transaction struct {
	sess *session.Session
}

func newTransaction(backend driver.Session, part partition.Partition, vertexIDs, edgeIDs, propertyIDs id.Provider) *Transaction {
	return &Transaction{sess: session.New(backend, part, vertexIDs, edgeIDs, propertyIDs)}
}

/*
Open eagerly opens the back-end transaction. Every method below that
talks to the back-end opens it lazily on first use (AddVertex and
AddEdge do not; they only queue work for Commit), so calling Open explicitly
is only needed to surface a TransactionState error at a specific point
rather than at the first operation.
*/
func (t *Transaction) Open(ctx context.Context) error { return t.sess.Open(ctx) }

/*
IsOpen reports whether a back-end transaction is currently bound.
*/
func (t *Transaction) IsOpen() bool { return t.sess.IsOpen() }

/*
Commit flushes every queued mutation in order and finalizes the
touched elements. See session.Session.Commit for the exact ordering.
*/
func (t *Transaction) Commit(ctx context.Context) error { return t.sess.Commit(ctx) }

/*
Rollback discards uncommitted mutations and restores in-memory state
to the last-committed snapshot.
*/
func (t *Transaction) Rollback(ctx context.Context) error { return t.sess.Rollback(ctx) }

/*
Close closes the outstanding transaction (as a rollback, if it was
never explicitly committed) and the underlying back-end connection.
Close is idempotent and safe to defer unconditionally.
*/
func (t *Transaction) Close(ctx context.Context) error { return t.sess.Close(ctx) }

/*
AddVertex creates a transient vertex with the given labels and
single-cardinality properties.
*/
func (t *Transaction) AddVertex(labels []string, props map[string]driver.Value) (*element.Vertex, error) {
	return t.sess.AddVertex(labels, props)
}

/*
AddEdge creates a transient edge between out and in, both of which
must have been obtained from this same Transaction.
*/
func (t *Transaction) AddEdge(label string, out, in *element.Vertex, props map[string]driver.Value) (*element.Edge, error) {
	return t.sess.AddEdge(label, out, in, props)
}

/*
Vertices fetches vertices by id, or every vertex the bound partition
allows if ids is empty.
*/
func (t *Transaction) Vertices(ctx context.Context, ids ...string) ([]*element.Vertex, error) {
	return t.sess.Vertices(ctx, ids...)
}

/*
Edges fetches edges by id, or every edge the bound partition allows on
both endpoints if ids is empty.
*/
func (t *Transaction) Edges(ctx context.Context, ids ...string) ([]*element.Edge, error) {
	return t.sess.Edges(ctx, ids...)
}

/*
IncidentEdges returns v's incident edges in the given direction,
optionally filtered to a set of labels.
*/
func (t *Transaction) IncidentEdges(ctx context.Context, v *element.Vertex, dir session.Direction, labels ...string) ([]*element.Edge, error) {
	return t.sess.IncidentEdges(ctx, v, dir, labels...)
}

/*
Neighbors returns the far endpoint of each of v's incident edges in
the given direction, deduplicated by id.
*/
func (t *Transaction) Neighbors(ctx context.Context, v *element.Vertex, dir session.Direction, labels ...string) ([]*element.Vertex, error) {
	return t.sess.Neighbors(ctx, v, dir, labels...)
}

/*
CreateIndex emits a CREATE INDEX passthrough statement.
*/
func (t *Transaction) CreateIndex(ctx context.Context, label, property string) error {
	return t.sess.CreateIndex(ctx, label, property)
}

/*
Run executes an arbitrary parameterized statement and returns the raw
record stream for the caller to decode.
*/
func (t *Transaction) Run(ctx context.Context, stmt driver.Statement) (driver.RecordStream, error) {
	return t.sess.RunRaw(ctx, stmt)
}
