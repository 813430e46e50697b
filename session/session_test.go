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
	"testing"

	"github.com/propgraph/client/boltstub"
	"github.com/propgraph/client/driver"
	"github.com/propgraph/client/element"
	"github.com/propgraph/client/id"
	"github.com/propgraph/client/partition"
)

func newTestSession(t *testing.T, d *boltstub.Driver, part partition.Partition) *Session {
	t.Helper()
	backend, err := d.NewSession(context.Background())
	if err != nil {
		t.Fatalf("opening back-end session: %v", err)
	}
	s := New(backend, part, id.NewNativeProvider(), id.NewNativeProvider(), id.NewNativeProvider())
	t.Cleanup(func() {
		s.Close(context.Background())
	})
	return s
}

func mustProp(t *testing.T, v *element.Vertex, name string) driver.Value {
	t.Helper()
	val, ok, err := v.Property(name)
	if err != nil {
		t.Fatalf("reading property %q: %v", name, err)
	}
	if !ok {
		t.Fatalf("property %q not set", name)
	}
	return val
}

/*
TestAddVertexAndCommit covers S1: a vertex created in one transaction is
visible, by id, in a fresh transaction against the same back-end.
*/
func TestAddVertexAndCommit(t *testing.T) {
	ctx := context.Background()
	d := boltstub.New()

	s1 := newTestSession(t, d, partition.Unrestricted())
	v, err := s1.AddVertex([]string{"Person"}, map[string]driver.Value{"name": driver.String("Ada")})
	if err != nil {
		t.Fatalf("AddVertex: %v", err)
	}
	if !v.IsTransient() {
		t.Fatalf("newly added vertex should be transient before commit")
	}
	id1 := v.ID()

	if err := s1.Commit(ctx); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if v.IsTransient() {
		t.Fatalf("vertex should no longer be transient after commit")
	}

	s2 := newTestSession(t, d, partition.Unrestricted())
	if err := s2.Open(ctx); err != nil {
		t.Fatalf("Open: %v", err)
	}
	got, err := s2.Vertices(ctx, id1)
	if err != nil {
		t.Fatalf("Vertices: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 vertex, got %d", len(got))
	}
	name := mustProp(t, got[0], "name")
	if s, _ := name.AsObject(); s != "Ada" {
		t.Fatalf("expected name=Ada, got %v", s)
	}
	if err := s2.Commit(ctx); err != nil {
		t.Fatalf("Commit: %v", err)
	}
}

/*
TestAddEdgeAndFetch covers edge creation and the resident/remote split
in Edges: after commit, the edge is visible in a new session together
with both of its endpoint vertices.
*/
func TestAddEdgeAndFetch(t *testing.T) {
	ctx := context.Background()
	d := boltstub.New()

	s1 := newTestSession(t, d, partition.Unrestricted())
	a, err := s1.AddVertex([]string{"Person"}, map[string]driver.Value{"name": driver.String("Ada")})
	if err != nil {
		t.Fatalf("AddVertex a: %v", err)
	}
	b, err := s1.AddVertex([]string{"Person"}, map[string]driver.Value{"name": driver.String("Bob")})
	if err != nil {
		t.Fatalf("AddVertex b: %v", err)
	}
	e, err := s1.AddEdge("KNOWS", a, b, map[string]driver.Value{"since": driver.Long(2020)})
	if err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	edgeID := e.ID()

	if err := s1.Commit(ctx); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	s2 := newTestSession(t, d, partition.Unrestricted())
	edges, err := s2.Edges(context.Background(), edgeID)
	if err != nil {
		t.Fatalf("Edges: %v", err)
	}
	if len(edges) != 1 {
		t.Fatalf("expected 1 edge, got %d", len(edges))
	}
	got := edges[0]
	if got.Label() != "KNOWS" {
		t.Fatalf("expected label KNOWS, got %q", got.Label())
	}
	if got.Out().ID() != a.ID() || got.In().ID() != b.ID() {
		t.Fatalf("edge endpoints mismatch: out=%s in=%s", got.Out().ID(), got.In().ID())
	}
	since, ok := got.Property("since")
	if !ok {
		t.Fatalf("since property missing")
	}
	if n, _ := since.AsLong(); n != 2020 {
		t.Fatalf("expected since=2020, got %d", n)
	}
	s2.Close(ctx)
}

/*
TestIncidentEdgesAndNeighbors covers IncidentEdges/Neighbors with
direction and label filtering, across a fresh session so the edges are
streamed rather than answered from local registries.
*/
func TestIncidentEdgesAndNeighbors(t *testing.T) {
	ctx := context.Background()
	d := boltstub.New()

	s1 := newTestSession(t, d, partition.Unrestricted())
	hub, _ := s1.AddVertex([]string{"Person"}, nil)
	leaf1, _ := s1.AddVertex([]string{"Person"}, nil)
	leaf2, _ := s1.AddVertex([]string{"Person"}, nil)
	leaf3, _ := s1.AddVertex([]string{"Person"}, nil)

	if _, err := s1.AddEdge("KNOWS", hub, leaf1, nil); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if _, err := s1.AddEdge("WORKS_WITH", hub, leaf2, nil); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if _, err := s1.AddEdge("KNOWS", leaf3, hub, nil); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	hubID := hub.ID()

	if err := s1.Commit(ctx); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	s2 := newTestSession(t, d, partition.Unrestricted())
	vs, err := s2.Vertices(ctx, hubID)
	if err != nil {
		t.Fatalf("Vertices: %v", err)
	}
	hub2 := vs[0]

	out, err := s2.IncidentEdges(ctx, hub2, Out)
	if err != nil {
		t.Fatalf("IncidentEdges Out: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 out edges, got %d", len(out))
	}

	in, err := s2.IncidentEdges(ctx, hub2, In)
	if err != nil {
		t.Fatalf("IncidentEdges In: %v", err)
	}
	if len(in) != 1 {
		t.Fatalf("expected 1 in edge, got %d", len(in))
	}

	both, err := s2.IncidentEdges(ctx, hub2, Both, "KNOWS")
	if err != nil {
		t.Fatalf("IncidentEdges Both filtered: %v", err)
	}
	if len(both) != 2 {
		t.Fatalf("expected 2 KNOWS edges (one out, one in), got %d", len(both))
	}

	neighbors, err := s2.Neighbors(ctx, hub2, Both)
	if err != nil {
		t.Fatalf("Neighbors: %v", err)
	}
	if len(neighbors) != 3 {
		t.Fatalf("expected 3 distinct neighbors, got %d", len(neighbors))
	}
	s2.Close(ctx)
}

/*
TestIncidentEdgesDedupesAgainstResident covers boundary B3: once a side
is partially populated locally (by a direct edge fetch), a subsequent
unfiltered IncidentEdges call must not double-count those edges when it
streams the rest.
*/
func TestIncidentEdgesDedupesAgainstResident(t *testing.T) {
	ctx := context.Background()
	d := boltstub.New()

	s1 := newTestSession(t, d, partition.Unrestricted())
	hub, _ := s1.AddVertex([]string{"Person"}, nil)
	leaf1, _ := s1.AddVertex([]string{"Person"}, nil)
	leaf2, _ := s1.AddVertex([]string{"Person"}, nil)
	e1, err := s1.AddEdge("KNOWS", hub, leaf1, nil)
	if err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if _, err := s1.AddEdge("KNOWS", hub, leaf2, nil); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	hubID, e1ID := hub.ID(), e1.ID()

	if err := s1.Commit(ctx); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	s2 := newTestSession(t, d, partition.Unrestricted())
	vs, err := s2.Vertices(ctx, hubID)
	if err != nil {
		t.Fatalf("Vertices: %v", err)
	}
	hub2 := vs[0]

	if _, err := s2.Edges(ctx, e1ID); err != nil {
		t.Fatalf("Edges (resident seed): %v", err)
	}

	out, err := s2.IncidentEdges(ctx, hub2, Out)
	if err != nil {
		t.Fatalf("IncidentEdges Out: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 out edges after dedup against resident, got %d", len(out))
	}
	s2.Close(ctx)
}

/*
TestCommitStatementOrder covers invariant: Commit flushes edge deletes,
then vertex deletes, then vertex creates, then edge creates, then edge
updates, then vertex updates, by exercising a scenario that would fail
referential consistency under any other order (an edge between a newly
created vertex and an existing vertex whose own old incident edge is
deleted in the same transaction).
*/
func TestCommitStatementOrder(t *testing.T) {
	ctx := context.Background()
	d := boltstub.New()

	s1 := newTestSession(t, d, partition.Unrestricted())
	a, _ := s1.AddVertex([]string{"Person"}, nil)
	b, _ := s1.AddVertex([]string{"Person"}, nil)
	oldEdge, err := s1.AddEdge("KNOWS", a, b, nil)
	if err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if err := s1.Commit(ctx); err != nil {
		t.Fatalf("Commit 1: %v", err)
	}
	aID, bID := a.ID(), b.ID()

	s2 := newTestSession(t, d, partition.Unrestricted())
	vs, err := s2.Vertices(ctx, aID, bID)
	if err != nil {
		t.Fatalf("Vertices: %v", err)
	}
	var a2, b2 *element.Vertex
	for _, v := range vs {
		if v.ID() == aID {
			a2 = v
		} else {
			b2 = v
		}
	}
	edges, err := s2.Edges(ctx, oldEdge.ID())
	if err != nil {
		t.Fatalf("Edges: %v", err)
	}
	if err := edges[0].Remove(); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	c, err := s2.AddVertex([]string{"Person"}, nil)
	if err != nil {
		t.Fatalf("AddVertex c: %v", err)
	}
	if _, err := s2.AddEdge("KNOWS", a2, c, nil); err != nil {
		t.Fatalf("AddEdge a-c: %v", err)
	}
	if err := b2.SetProperty(element.Single, "flag", driver.Bool(true)); err != nil {
		t.Fatalf("SetProperty: %v", err)
	}

	if err := s2.Commit(ctx); err != nil {
		t.Fatalf("Commit 2: %v", err)
	}

	s3 := newTestSession(t, d, partition.Unrestricted())
	all, err := s3.Edges(ctx)
	if err != nil {
		t.Fatalf("Edges (scan): %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected exactly 1 edge after commit, got %d", len(all))
	}
	if all[0].Label() != "KNOWS" || all[0].Out().ID() != aID {
		t.Fatalf("unexpected surviving edge: %+v", all[0])
	}
	s3.Close(ctx)
}

/*
TestRollbackRestoresState covers Rollback's full restoration: a
transient vertex is discarded, a dirty vertex's properties/labels are
restored, and a deleted edge is reinstated with its adjacency relinked.
*/
func TestRollbackRestoresState(t *testing.T) {
	ctx := context.Background()
	d := boltstub.New()

	setup := newTestSession(t, d, partition.Unrestricted())
	a, _ := setup.AddVertex([]string{"Person"}, map[string]driver.Value{"name": driver.String("Ada")})
	b, _ := setup.AddVertex([]string{"Person"}, nil)
	e, err := setup.AddEdge("KNOWS", a, b, nil)
	if err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	aID, bID, eID := a.ID(), b.ID(), e.ID()
	if err := setup.Commit(ctx); err != nil {
		t.Fatalf("Commit setup: %v", err)
	}

	s := newTestSession(t, d, partition.Unrestricted())
	vs, err := s.Vertices(ctx, aID, bID)
	if err != nil {
		t.Fatalf("Vertices: %v", err)
	}
	var va *element.Vertex
	for _, v := range vs {
		if v.ID() == aID {
			va = v
		}
	}
	if err := va.SetProperty(element.Single, "name", driver.String("Changed")); err != nil {
		t.Fatalf("SetProperty: %v", err)
	}
	if err := va.AddLabel("Extra"); err != nil {
		t.Fatalf("AddLabel: %v", err)
	}

	edges, err := s.Edges(ctx, eID)
	if err != nil {
		t.Fatalf("Edges: %v", err)
	}
	if err := edges[0].Remove(); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	transient, err := s.AddVertex([]string{"Person"}, nil)
	if err != nil {
		t.Fatalf("AddVertex transient: %v", err)
	}
	transientID := transient.ID()

	if err := s.Rollback(ctx); err != nil {
		t.Fatalf("Rollback: %v", err)
	}

	name := mustProp(t, va, "name")
	if v, _ := name.AsObject(); v != "Ada" {
		t.Fatalf("expected name restored to Ada, got %v", v)
	}
	found := false
	for _, l := range va.Labels() {
		if l == "Extra" {
			found = true
		}
	}
	if found {
		t.Fatalf("Extra label should have been rolled back")
	}
	if edges[0].IsDeleted() {
		t.Fatalf("edge should have been undeleted by rollback")
	}

	s2 := newTestSession(t, d, partition.Unrestricted())
	got, err := s2.Vertices(ctx, transientID)
	if err != nil {
		t.Fatalf("Vertices: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("transient vertex should never have reached the back-end")
	}
	allEdges, err := s2.Edges(ctx)
	if err != nil {
		t.Fatalf("Edges (scan): %v", err)
	}
	if len(allEdges) != 1 {
		t.Fatalf("expected the KNOWS edge to survive rollback, got %d edges", len(allEdges))
	}
	s2.Close(ctx)
}

/*
TestVerticesFullScanIsDeterministic covers the full-scan ordering
boltstub guarantees: repeated unfiltered Vertices calls against fresh
sessions return the same creation order.
*/
func TestVerticesFullScanIsDeterministic(t *testing.T) {
	ctx := context.Background()
	d := boltstub.New()

	setup := newTestSession(t, d, partition.Unrestricted())
	var ids []string
	for i := 0; i < 5; i++ {
		v, err := setup.AddVertex([]string{"Person"}, nil)
		if err != nil {
			t.Fatalf("AddVertex: %v", err)
		}
		ids = append(ids, v.ID())
	}
	if err := setup.Commit(ctx); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	order := func() []string {
		s := newTestSession(t, d, partition.Unrestricted())
		vs, err := s.Vertices(ctx)
		if err != nil {
			t.Fatalf("Vertices: %v", err)
		}
		out := make([]string, len(vs))
		for i, v := range vs {
			out[i] = v.ID()
		}
		return out
	}

	first := order()
	second := order()
	if len(first) != len(ids) {
		t.Fatalf("expected %d vertices, got %d", len(ids), len(first))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("full scan order is not deterministic: %v vs %v", first, second)
		}
	}
}

/*
TestPartitionFiltersVertices covers a restricted partition: only
vertices carrying one of the allowed labels are ever visible, whether
fetched by id or by full scan.
*/
func TestPartitionFiltersVertices(t *testing.T) {
	ctx := context.Background()
	d := boltstub.New()

	setup := newTestSession(t, d, partition.Unrestricted())
	person, _ := setup.AddVertex([]string{"Person"}, nil)
	device, _ := setup.AddVertex([]string{"Device"}, nil)
	personID, deviceID := person.ID(), device.ID()
	if err := setup.Commit(ctx); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	s := newTestSession(t, d, partition.AllLabels("Person"))
	got, err := s.Vertices(ctx, personID, deviceID)
	if err != nil {
		t.Fatalf("Vertices: %v", err)
	}
	if len(got) != 1 || got[0].ID() != personID {
		t.Fatalf("expected only the Person vertex, got %+v", got)
	}

	all, err := s.Vertices(ctx)
	if err != nil {
		t.Fatalf("Vertices (scan): %v", err)
	}
	if len(all) != 1 || all[0].ID() != personID {
		t.Fatalf("expected scan to return only the Person vertex, got %+v", all)
	}
	s.Close(ctx)
}

/*
TestCreateIndexPassthrough covers CreateIndex emitting a bare
passthrough statement that boltstub accepts as a no-op.
*/
func TestCreateIndexPassthrough(t *testing.T) {
	ctx := context.Background()
	d := boltstub.New()
	s := newTestSession(t, d, partition.Unrestricted())
	if err := s.CreateIndex(ctx, "Person", "name"); err != nil {
		t.Fatalf("CreateIndex: %v", err)
	}
}

/*
TestCloseWithoutCommitRollsBack covers Close's implicit rollback of an
open transaction: a vertex added but never committed must not survive
Close.
*/
func TestCloseWithoutCommitRollsBack(t *testing.T) {
	ctx := context.Background()
	d := boltstub.New()

	s := newTestSession(t, d, partition.Unrestricted())
	v, err := s.AddVertex([]string{"Person"}, nil)
	if err != nil {
		t.Fatalf("AddVertex: %v", err)
	}
	vID := v.ID()
	if err := s.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2 := newTestSession(t, d, partition.Unrestricted())
	got, err := s2.Vertices(ctx, vID)
	if err != nil {
		t.Fatalf("Vertices: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("vertex added in an unclosed transaction should not have been committed")
	}
	s2.Close(ctx)
}
