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
Package session implements the transactional working set: registries of
live, deleted, transient and dirty elements, the query-to-stream bridge
that reconciles in-memory state with rows streamed from the back-end,
and the commit/rollback orchestration that flushes mutations as
ordered statements. Session is the element.Host implementation element
elements reach back into; it never imports package element's test
helpers and element never imports session, which is what keeps the
Session <-> Vertex/Edge reference cycle from becoming an import cycle.

A Session is not safe for concurrent mutation from multiple callers;
each caller owns an independent Session (see the root client package).
*/
package session

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/propgraph/client/driver"
	"github.com/propgraph/client/element"
	"github.com/propgraph/client/id"
	"github.com/propgraph/client/partition"
	"github.com/propgraph/client/perr"
	"github.com/propgraph/client/pgcount"
	"github.com/propgraph/client/plog"
)

var log = plog.Get("session")

/*
Session is the per-caller transactional working set. It owns every
Vertex, Edge and VertexProperty it creates or materializes.
*/
type Session struct {
	backend   driver.Session
	tx        driver.Tx
	partition partition.Partition

	vertexIDs   id.Provider
	edgeIDs     id.Provider
	propertyIDs id.Provider

	vertices map[string]*element.Vertex
	edges    map[string]*element.Edge

	transientVertexOrder []*element.Vertex
	transientEdgeOrder   []*element.Edge

	vertexUpdateQueue map[string]*element.Vertex
	edgeUpdateQueue   map[string]*element.Edge
	vertexDeleteQueue map[string]*element.Vertex
	edgeDeleteQueue   map[string]*element.Edge

	verticesLoaded bool
	edgesLoaded    bool

	closed  bool
	metrics *pgcount.Recorder
}

/*
New creates a Session bound to a single back-end connection. part may
be partition.Unrestricted(); the three id providers may be the same
instance if the back-end field-names the id property identically for
vertices, edges and vertex-properties, which is the common case.
*/
func New(backend driver.Session, part partition.Partition, vertexIDs, edgeIDs, propertyIDs id.Provider) *Session {
	s := &Session{
		backend:           backend,
		partition:         part,
		vertexIDs:         vertexIDs,
		edgeIDs:           edgeIDs,
		propertyIDs:       propertyIDs,
		vertices:          make(map[string]*element.Vertex),
		edges:             make(map[string]*element.Edge),
		vertexUpdateQueue: make(map[string]*element.Vertex),
		edgeUpdateQueue:   make(map[string]*element.Edge),
		vertexDeleteQueue: make(map[string]*element.Vertex),
		edgeDeleteQueue:   make(map[string]*element.Edge),
	}

	runtime.SetFinalizer(s, func(leaked *Session) {
		if !leaked.closed {
			log.Error(fmt.Sprintf("session garbage-collected without Close (tx open=%v)", leaked.IsOpen()))
		}
	})

	return s
}

/*
IDField returns the id property/parameter name shared by this
session's vertex and edge statements.
*/
func (s *Session) IDField() string { return s.vertexIDs.FieldName() }

/*
SetMetrics binds a Recorder that Commit and Rollback report through. A
nil Recorder (the default) disables instrumentation entirely.
*/
func (s *Session) SetMetrics(rec *pgcount.Recorder) { s.metrics = rec }

/*
IsOpen reports whether a back-end transaction is currently bound.
*/
func (s *Session) IsOpen() bool { return s.tx != nil && s.tx.IsOpen() }

/*
ensureTx lazily opens the back-end transaction, implementing the
implicit readWrite() precondition every I/O point in this package
relies on.
*/
func (s *Session) ensureTx(ctx context.Context) (driver.Tx, error) {
	if s.closed {
		return nil, perr.New(perr.TransactionState, "session is closed")
	}
	if s.tx != nil {
		return s.tx, nil
	}
	tx, err := s.backend.BeginTransaction(ctx)
	if err != nil {
		return nil, perr.Wrap(perr.Transport, "opening transaction", err)
	}
	s.tx = tx
	return tx, nil
}

/*
Open eagerly opens the back-end transaction, returning
perr.TransactionState if one is already open.
*/
func (s *Session) Open(ctx context.Context) error {
	if s.IsOpen() {
		return perr.New(perr.TransactionState, "transaction is already open")
	}
	_, err := s.ensureTx(ctx)
	return err
}

func (s *Session) run(ctx context.Context, stmt driver.Statement) (driver.RecordStream, error) {
	tx, err := s.ensureTx(ctx)
	if err != nil {
		return nil, err
	}
	stream, err := tx.Run(ctx, stmt)
	if err != nil {
		return nil, perr.Wrap(perr.Transport, fmt.Sprintf("running statement %q", stmt.Text), err)
	}
	return stream, nil
}

/*
runCreate is run's counterpart for the two create-flush steps. A
back-end may reject a create statement because the in-memory working
set has diverged from it — an id it was about to assign collided, or
an edge's endpoint vertex is no longer there — and those two cases are
Consistency errors, not generic Transport failures. Every other
failure (a dropped connection, a malformed statement) still surfaces
as Transport.
*/
func (s *Session) runCreate(ctx context.Context, stmt driver.Statement) (driver.RecordStream, error) {
	tx, err := s.ensureTx(ctx)
	if err != nil {
		return nil, err
	}
	stream, err := tx.Run(ctx, stmt)
	if err != nil {
		if errors.Is(err, driver.ErrDuplicateID) || errors.Is(err, driver.ErrMissingEndpoint) {
			return nil, perr.Wrap(perr.Consistency, fmt.Sprintf("running statement %q", stmt.Text), err)
		}
		return nil, perr.Wrap(perr.Transport, fmt.Sprintf("running statement %q", stmt.Text), err)
	}
	return stream, nil
}

/*
Close closes the outstanding transaction, treating it as a rollback if
it was never explicitly committed, and then closes the back-end
connection. Close is idempotent.
*/
func (s *Session) Close(ctx context.Context) error {
	if s.closed {
		return nil
	}
	s.closed = true
	runtime.SetFinalizer(s, nil)

	var rollbackErr error
	if s.IsOpen() {
		rollbackErr = s.Rollback(ctx)
	}

	if err := s.backend.Close(ctx); err != nil {
		if rollbackErr != nil {
			return rollbackErr
		}
		return perr.Wrap(perr.Transport, "closing back-end session", err)
	}
	return rollbackErr
}

// --- element.Host ---

/*
ValidateLabel reports whether label may be added to or removed from a
vertex under the bound read partition.
*/
func (s *Session) ValidateLabel(label string) bool { return s.partition.ValidateLabel(label) }

/*
NextVertexPropertyID allocates a fresh VertexProperty id.
*/
func (s *Session) NextVertexPropertyID() (string, error) { return s.propertyIDs.Generate() }

/*
MarkVertexDirty enqueues a persisted vertex for an update statement at
commit. Transient vertices are never enqueued (invariant 2).
*/
func (s *Session) MarkVertexDirty(v *element.Vertex) {
	if !v.IsTransient() {
		s.vertexUpdateQueue[v.ID()] = v
	}
}

/*
MarkEdgeDirty enqueues a persisted edge for an update statement at
commit.
*/
func (s *Session) MarkEdgeDirty(e *element.Edge) {
	if !e.IsTransient() {
		s.edgeUpdateQueue[e.ID()] = e
	}
}

/*
EnqueueVertexRemove cascades removal to every incident edge, then
retires the vertex from the live registry into the delete queue (or
simply drops it, if it was never persisted).
*/
func (s *Session) EnqueueVertexRemove(v *element.Vertex) error {
	incident := append(append([]*element.Edge(nil), v.OutEdges()...), v.InEdges()...)
	for _, e := range incident {
		if !e.IsDeleted() {
			if err := e.Remove(); err != nil {
				return err
			}
		}
	}

	delete(s.vertices, v.ID())
	delete(s.vertexUpdateQueue, v.ID())

	if v.IsTransient() {
		s.transientVertexOrder = removeVertex(s.transientVertexOrder, v)
	} else {
		s.vertexDeleteQueue[v.ID()] = v
	}

	return nil
}

/*
EnqueueEdgeRemove detaches the edge from both endpoints' adjacency
sets and retires it from the live registry into the delete queue (or
simply drops it, if it was never persisted).
*/
func (s *Session) EnqueueEdgeRemove(e *element.Edge) error {
	e.Out().DetachOutEdge(e)
	e.In().DetachInEdge(e)

	delete(s.edges, e.ID())
	delete(s.edgeUpdateQueue, e.ID())

	if e.IsTransient() {
		s.transientEdgeOrder = removeEdge(s.transientEdgeOrder, e)
	} else {
		s.edgeDeleteQueue[e.ID()] = e
	}

	return nil
}

func removeVertex(s []*element.Vertex, v *element.Vertex) []*element.Vertex {
	for i, e := range s {
		if e == v {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}

func removeEdge(s []*element.Edge, e *element.Edge) []*element.Edge {
	for i, x := range s {
		if x == e {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}
