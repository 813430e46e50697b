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
Package client is the user-facing entry point of the property-graph
client: Graph is the shared, immutable factory; Transaction is the
per-caller handle through which vertices and edges are read, mutated,
and eventually committed or rolled back.
*/
package client

import (
	"context"

	"github.com/propgraph/client/driver"
	"github.com/propgraph/client/id"
	"github.com/propgraph/client/partition"
	"github.com/propgraph/client/pgcount"
	"github.com/propgraph/client/session"
)

/*
Traversal directions, re-exported from package session for callers
that only import the root package.
*/
const (
	Out  = session.Out
	In   = session.In
	Both = session.Both
)

/*
Graph holds the driver, the read partition and the id providers. It is
safe for concurrent use: every method that touches graph state does so
through a fresh per-caller Transaction. The Graph does not own a
Transaction's lifetime — the caller does, and must Close it.
*/
type Graph struct {
	driver      driver.Driver
	partition   partition.Partition
	vertexIDs   id.Provider
	edgeIDs     id.Provider
	propertyIDs id.Provider
	metrics     *pgcount.Recorder
}

/*
Option configures a Graph at construction time.
*/
type Option func(*Graph)

/*
WithPartition binds a non-default read partition. The default is
partition.Unrestricted().
*/
func WithPartition(p partition.Partition) Option {
	return func(g *Graph) { g.partition = p }
}

/*
WithVertexIDProvider overrides the default native vertex id provider.
*/
func WithVertexIDProvider(p id.Provider) Option {
	return func(g *Graph) { g.vertexIDs = p }
}

/*
WithEdgeIDProvider overrides the default native edge id provider.
*/
func WithEdgeIDProvider(p id.Provider) Option {
	return func(g *Graph) { g.edgeIDs = p }
}

/*
WithPropertyIDProvider overrides the default native vertex-property id
provider.
*/
func WithPropertyIDProvider(p id.Provider) Option {
	return func(g *Graph) { g.propertyIDs = p }
}

/*
WithMetrics records every Transaction's commits and rollbacks against
rec. Metrics are opt-in: the default Graph carries no Recorder and
pays no instrumentation cost.
*/
func WithMetrics(rec *pgcount.Recorder) Option {
	return func(g *Graph) { g.metrics = rec }
}

/*
NewGraph constructs a Graph bound to d, defaulting to an unrestricted
partition and native id providers for vertices, edges and
vertex-properties.
*/
func NewGraph(d driver.Driver, opts ...Option) *Graph {
	g := &Graph{
		driver:      d,
		partition:   partition.Unrestricted(),
		vertexIDs:   id.NewNativeProvider(),
		edgeIDs:     id.NewNativeProvider(),
		propertyIDs: id.NewNativeProvider(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

/*
Tx opens a fresh back-end connection and hands back a Transaction
bound to a new Session. The caller owns the Transaction's lifetime and
must Close it on every exit path.
*/
func (g *Graph) Tx(ctx context.Context) (*Transaction, error) {
	backend, err := g.driver.NewSession(ctx)
	if err != nil {
		return nil, err
	}
	tx := newTransaction(backend, g.partition, g.vertexIDs, g.edgeIDs, g.propertyIDs)
	tx.sess.SetMetrics(g.metrics)
	return tx, nil
}

/*
CreateIndex opens a short-lived transaction to emit a CREATE INDEX
passthrough statement and commits it.
*/
func (g *Graph) CreateIndex(ctx context.Context, label, property string) error {
	tx, err := g.Tx(ctx)
	if err != nil {
		return err
	}
	defer tx.Close(ctx)

	if err := tx.CreateIndex(ctx, label, property); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
