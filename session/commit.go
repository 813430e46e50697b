/*
 * propgraph client
 *
 * Copyright 2026 propgraph Authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package session

import (
	"context"
	"fmt"

	"github.com/propgraph/client/element"
	"github.com/propgraph/client/perr"
)

/*
Commit flushes every queued mutation to the back-end in the fixed
order required for referential consistency — delete edges, delete
vertices, create vertices, create edges, update edges, update
vertices — then finalizes every touched element and clears the
queues. A failure at any step fails the back-end transaction and
leaves the session's in-memory state untouched; the caller must call
Rollback before using the session again.
*/
func (s *Session) Commit(ctx context.Context) error {
	if _, err := s.ensureTx(ctx); err != nil {
		return err
	}

	steps := []func(context.Context) error{
		s.flushEdgeDeletes,
		s.flushVertexDeletes,
		s.flushVertexCreates,
		s.flushEdgeCreates,
		s.flushEdgeUpdates,
		s.flushVertexUpdates,
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			s.tx.Failure(ctx)
			s.tx.Close(ctx)
			s.tx = nil
			return err
		}
	}

	if err := s.tx.Success(ctx); err != nil {
		s.tx.Close(ctx)
		s.tx = nil
		return perr.Wrap(perr.Transport, "committing transaction", err)
	}
	if err := s.tx.Close(ctx); err != nil {
		s.tx = nil
		return perr.Wrap(perr.Transport, "closing committed transaction", err)
	}
	s.tx = nil

	vertexCreates, edgeCreates := len(s.transientVertexOrder), len(s.transientEdgeOrder)
	s.finalizeAfterCommit()
	s.metrics.Commit()
	log.Debug(fmt.Sprintf("committed transaction (%d vertex creates, %d edge creates)", vertexCreates, edgeCreates))
	return nil
}

func (s *Session) flushEdgeDeletes(ctx context.Context) error {
	for _, e := range s.edgeDeleteQueue {
		if _, err := s.run(ctx, e.DeleteStatement()); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) flushVertexDeletes(ctx context.Context) error {
	for _, v := range s.vertexDeleteQueue {
		if _, err := s.run(ctx, v.DeleteStatement()); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) flushVertexCreates(ctx context.Context) error {
	for _, v := range s.transientVertexOrder {
		perr.AssertTrue(s.vertices[v.ID()] == v, "transient vertex missing from registry at commit")
		if _, err := s.runCreate(ctx, v.InsertStatement()); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) flushEdgeCreates(ctx context.Context) error {
	for _, e := range s.transientEdgeOrder {
		perr.AssertTrue(s.edges[e.ID()] == e, "transient edge missing from registry at commit")
		if _, err := s.runCreate(ctx, e.InsertStatement()); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) flushEdgeUpdates(ctx context.Context) error {
	for _, e := range s.edgeUpdateQueue {
		if _, err := s.run(ctx, e.UpdateStatement()); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) flushVertexUpdates(ctx context.Context) error {
	for _, v := range s.vertexUpdateQueue {
		if _, err := s.run(ctx, v.UpdateStatement()); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) finalizeAfterCommit() {
	for _, v := range s.transientVertexOrder {
		v.Finalize()
	}
	for _, e := range s.transientEdgeOrder {
		e.Finalize()
	}
	for _, v := range s.vertexUpdateQueue {
		v.Finalize()
	}
	for _, e := range s.edgeUpdateQueue {
		e.Finalize()
	}

	s.transientVertexOrder = nil
	s.transientEdgeOrder = nil
	s.vertexUpdateQueue = make(map[string]*element.Vertex)
	s.edgeUpdateQueue = make(map[string]*element.Edge)
	s.vertexDeleteQueue = make(map[string]*element.Vertex)
	s.edgeDeleteQueue = make(map[string]*element.Edge)
}

/*
Rollback instructs the back-end to fail and close the current
transaction, then restores in-memory state: transient elements are
discarded, dirty elements are restored to their last-committed
snapshot, and deleted elements are reinstated with their adjacency
relinked.
*/
func (s *Session) Rollback(ctx context.Context) error {
	if s.tx == nil {
		if _, err := s.ensureTx(ctx); err != nil {
			return err
		}
	}

	s.tx.Failure(ctx)
	closeErr := s.tx.Close(ctx)
	s.tx = nil

	s.restoreOnRollback()
	s.metrics.Rollback()
	log.Debug("rolled back transaction")

	if closeErr != nil {
		return perr.Wrap(perr.Transport, "closing rolled-back transaction", closeErr)
	}
	return nil
}

func (s *Session) restoreOnRollback() {
	for _, e := range s.transientEdgeOrder {
		e.Out().DetachOutEdge(e)
		e.In().DetachInEdge(e)
		delete(s.edges, e.ID())
	}
	for _, v := range s.transientVertexOrder {
		delete(s.vertices, v.ID())
	}

	for _, v := range s.vertexUpdateQueue {
		v.RestoreLabels()
		v.RestoreProperties()
	}
	for _, e := range s.edgeUpdateQueue {
		e.RestoreProperties()
	}

	for _, v := range s.vertexDeleteQueue {
		v.Undelete()
		v.RestoreLabels()
		v.RestoreProperties()
		s.vertices[v.ID()] = v
	}
	for _, e := range s.edgeDeleteQueue {
		e.Undelete()
		e.RestoreProperties()
		e.Out().AttachOutEdge(e)
		e.In().AttachInEdge(e)
		s.edges[e.ID()] = e
	}

	if len(s.vertexUpdateQueue) > 0 || len(s.vertexDeleteQueue) > 0 {
		s.verticesLoaded = false
	}
	if len(s.edgeUpdateQueue) > 0 || len(s.edgeDeleteQueue) > 0 {
		s.edgesLoaded = false
	}

	s.transientVertexOrder = nil
	s.transientEdgeOrder = nil
	s.vertexUpdateQueue = make(map[string]*element.Vertex)
	s.edgeUpdateQueue = make(map[string]*element.Edge)
	s.vertexDeleteQueue = make(map[string]*element.Vertex)
	s.edgeDeleteQueue = make(map[string]*element.Edge)
}
