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
	"strings"

	"github.com/propgraph/client/driver"
	"github.com/propgraph/client/element"
	"github.com/propgraph/client/perr"
)

/*
Direction selects which incident edges of a vertex a traversal
considers.
*/
type Direction int

const (
	Out Direction = iota
	In
	Both
)

/*
Vertices answers a vertex fetch by id. If verticesLoaded, it answers
purely from the local registry. Otherwise it splits ids into resident
and remote, issues a single statement for the remote ones, and
reconciles each streamed row through loadVertex (which favors any
local copy already held). An empty id list fetches every vertex the
bound partition allows and marks verticesLoaded.
*/
func (s *Session) Vertices(ctx context.Context, ids ...string) ([]*element.Vertex, error) {
	if len(ids) == 0 {
		if s.verticesLoaded {
			return s.allResidentVertices(), nil
		}
		return s.fetchAllVertices(ctx)
	}

	canon := make([]string, len(ids))
	for i, raw := range ids {
		c, err := s.vertexIDs.Canonicalize(raw)
		if err != nil {
			return nil, err
		}
		canon[i] = c
	}

	if s.verticesLoaded {
		var out []*element.Vertex
		for _, c := range canon {
			if v, ok := s.vertices[c]; ok {
				out = append(out, v)
			}
		}
		return out, nil
	}

	seen := make(map[string]bool, len(canon))
	var resident []*element.Vertex
	var remote []string
	for _, c := range canon {
		if seen[c] {
			continue
		}
		seen[c] = true
		if v, ok := s.vertices[c]; ok {
			resident = append(resident, v)
		} else {
			remote = append(remote, c)
		}
	}
	if len(remote) == 0 {
		return resident, nil
	}

	stream, err := s.run(ctx, s.vertexFetchStatement(remote))
	if err != nil {
		return nil, err
	}
	defer stream.Close(ctx)

	for {
		rec, err := stream.Next(ctx)
		if err == driver.ErrStreamDone {
			break
		}
		if err != nil {
			return nil, perr.Wrap(perr.Transport, "reading vertex fetch row", err)
		}
		v, err := s.decodeVertexColumn(rec, 0)
		if err != nil {
			return nil, err
		}
		resident = append(resident, v)
	}

	return resident, nil
}

func (s *Session) fetchAllVertices(ctx context.Context) ([]*element.Vertex, error) {
	stream, err := s.run(ctx, s.allVerticesStatement())
	if err != nil {
		return nil, err
	}
	defer stream.Close(ctx)

	var out []*element.Vertex
	streamed := make(map[*element.Vertex]bool)
	for {
		rec, err := stream.Next(ctx)
		if err == driver.ErrStreamDone {
			break
		}
		if err != nil {
			return nil, perr.Wrap(perr.Transport, "reading vertex scan row", err)
		}
		v, err := s.decodeVertexColumn(rec, 0)
		if err != nil {
			return nil, err
		}
		if !streamed[v] {
			streamed[v] = true
			out = append(out, v)
		}
	}

	s.verticesLoaded = true
	for _, v := range s.allResidentVertices() {
		if !streamed[v] {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *Session) allResidentVertices() []*element.Vertex {
	out := make([]*element.Vertex, 0, len(s.vertices))
	for _, v := range s.vertices {
		out = append(out, v)
	}
	return out
}

func (s *Session) decodeVertexColumn(rec driver.Record, i int) (*element.Vertex, error) {
	val, err := rec.Get(i)
	if err != nil {
		return nil, perr.Wrap(perr.Transport, "reading vertex column", err)
	}
	node, err := val.AsNode()
	if err != nil {
		return nil, perr.Wrap(perr.Transport, "decoding vertex node", err)
	}
	return s.loadVertex(node)
}

/*
Edges answers an edge fetch by id, with the same resident/remote split
and reconciliation as Vertices. An empty id list fetches every edge
the bound partition allows on both endpoints and marks edgesLoaded.
*/
func (s *Session) Edges(ctx context.Context, ids ...string) ([]*element.Edge, error) {
	if len(ids) == 0 {
		if s.edgesLoaded {
			return s.allResidentEdges(), nil
		}
		return s.fetchAllEdges(ctx)
	}

	canon := make([]string, len(ids))
	for i, raw := range ids {
		c, err := s.edgeIDs.Canonicalize(raw)
		if err != nil {
			return nil, err
		}
		canon[i] = c
	}

	if s.edgesLoaded {
		var out []*element.Edge
		for _, c := range canon {
			if e, ok := s.edges[c]; ok {
				out = append(out, e)
			}
		}
		return out, nil
	}

	seen := make(map[string]bool, len(canon))
	var resident []*element.Edge
	var remote []string
	for _, c := range canon {
		if seen[c] {
			continue
		}
		seen[c] = true
		if e, ok := s.edges[c]; ok {
			resident = append(resident, e)
		} else {
			remote = append(remote, c)
		}
	}
	if len(remote) == 0 {
		return resident, nil
	}

	stream, err := s.run(ctx, s.edgeFetchStatement(remote))
	if err != nil {
		return nil, err
	}
	defer stream.Close(ctx)

	for {
		rec, err := stream.Next(ctx)
		if err == driver.ErrStreamDone {
			break
		}
		if err != nil {
			return nil, perr.Wrap(perr.Transport, "reading edge fetch row", err)
		}
		e, err := s.decodeEdgeRow(rec)
		if err != nil {
			return nil, err
		}
		resident = append(resident, e)
	}

	return resident, nil
}

func (s *Session) fetchAllEdges(ctx context.Context) ([]*element.Edge, error) {
	stream, err := s.run(ctx, s.allEdgesStatement())
	if err != nil {
		return nil, err
	}
	defer stream.Close(ctx)

	for {
		rec, err := stream.Next(ctx)
		if err == driver.ErrStreamDone {
			break
		}
		if err != nil {
			return nil, perr.Wrap(perr.Transport, "reading edge scan row", err)
		}
		if _, err := s.decodeEdgeRow(rec); err != nil {
			return nil, err
		}
	}

	s.edgesLoaded = true
	return s.allResidentEdges(), nil
}

func (s *Session) allResidentEdges() []*element.Edge {
	out := make([]*element.Edge, 0, len(s.edges))
	for _, e := range s.edges {
		out = append(out, e)
	}
	return out
}

func (s *Session) decodeEdgeRow(rec driver.Record) (*element.Edge, error) {
	relVal, err := rec.Get(0)
	if err != nil {
		return nil, perr.Wrap(perr.Transport, "reading relationship column", err)
	}
	rel, err := relVal.AsRelationship()
	if err != nil {
		return nil, perr.Wrap(perr.Transport, "decoding relationship", err)
	}
	out, err := s.decodeVertexColumn(rec, 1)
	if err != nil {
		return nil, err
	}
	in, err := s.decodeVertexColumn(rec, 2)
	if err != nil {
		return nil, err
	}
	return s.loadEdge(rel, out, in)
}

/*
sideAccessor abstracts the out/in symmetry of incident-edge traversal
so incidentSide needs only one implementation.
*/
type sideAccessor struct {
	loaded    func(v *element.Vertex) bool
	setLoaded func(v *element.Vertex, val bool)
	local     func(v *element.Vertex) []*element.Edge
	pattern   func(v *element.Vertex, relFrag, vidParam string) string
	loadEdge  func(s *Session, rel driver.Relationship, v, neighbor *element.Vertex) (*element.Edge, error)
}

var outAccessor = sideAccessor{
	loaded:    (*element.Vertex).OutEdgesLoaded,
	setLoaded: (*element.Vertex).SetOutEdgesLoaded,
	local:     (*element.Vertex).OutEdges,
	pattern: func(v *element.Vertex, relFrag, vidParam string) string {
		return fmt.Sprintf("%s-[r%s]->(m)", v.MatchPatternByID("n", vidParam), relFrag)
	},
	loadEdge: func(s *Session, rel driver.Relationship, v, neighbor *element.Vertex) (*element.Edge, error) {
		return s.loadEdge(rel, v, neighbor)
	},
}

var inAccessor = sideAccessor{
	loaded:    (*element.Vertex).InEdgesLoaded,
	setLoaded: (*element.Vertex).SetInEdgesLoaded,
	local:     (*element.Vertex).InEdges,
	pattern: func(v *element.Vertex, relFrag, vidParam string) string {
		return fmt.Sprintf("(m)-[r%s]->%s", relFrag, v.MatchPatternByID("n", vidParam))
	},
	loadEdge: func(s *Session, rel driver.Relationship, v, neighbor *element.Vertex) (*element.Edge, error) {
		return s.loadEdge(rel, neighbor, v)
	},
}

/*
IncidentEdges returns v's incident edges in direction dir, optionally
filtered to a label set. A side already fully loaded (and not subject
to a label filter that would make the cached set only partial) is
answered purely from memory; otherwise the missing rows are streamed
and merged into the adjacency set before filtering.
*/
func (s *Session) IncidentEdges(ctx context.Context, v *element.Vertex, dir Direction, labels ...string) ([]*element.Edge, error) {
	seen := map[string]bool{}
	var result []*element.Edge
	add := func(edges []*element.Edge) {
		for _, e := range edges {
			if !seen[e.ID()] {
				seen[e.ID()] = true
				result = append(result, e)
			}
		}
	}

	if dir == Out || dir == Both {
		edges, err := s.incidentSide(ctx, v, outAccessor, labels)
		if err != nil {
			return nil, err
		}
		add(edges)
	}
	if dir == In || dir == Both {
		edges, err := s.incidentSide(ctx, v, inAccessor, labels)
		if err != nil {
			return nil, err
		}
		add(edges)
	}

	return result, nil
}

func (s *Session) incidentSide(ctx context.Context, v *element.Vertex, acc sideAccessor, labels []string) ([]*element.Edge, error) {
	if acc.loaded(v) {
		return filterByLabel(acc.local(v), labels), nil
	}

	localIDs := idsOf(acc.local(v))
	relFrag := relLabelFragment(labels)
	text := "MATCH " + acc.pattern(v, relFrag, "vid")

	var where []string
	params := map[string]driver.Value{"vid": driver.String(v.ID())}
	if len(localIDs) > 0 {
		where = append(where, fmt.Sprintf("NOT r.%s IN $ids", s.IDField()))
		params["ids"] = driver.List(stringValues(localIDs))
	}
	if len(labels) > 1 {
		where = append(where, "type(r) IN $labels")
		params["labels"] = driver.List(stringValues(labels))
	}
	if len(where) > 0 {
		text += " WHERE " + strings.Join(where, " AND ")
	}
	text += " RETURN r, m"

	stream, err := s.run(ctx, driver.NewStatement(text, params))
	if err != nil {
		return nil, err
	}
	defer stream.Close(ctx)

	for {
		rec, err := stream.Next(ctx)
		if err == driver.ErrStreamDone {
			break
		}
		if err != nil {
			return nil, perr.Wrap(perr.Transport, "reading incident edge row", err)
		}
		relVal, err := rec.Get(0)
		if err != nil {
			return nil, perr.Wrap(perr.Transport, "reading relationship column", err)
		}
		rel, err := relVal.AsRelationship()
		if err != nil {
			return nil, perr.Wrap(perr.Transport, "decoding relationship", err)
		}
		neighbor, err := s.decodeVertexColumn(rec, 1)
		if err != nil {
			return nil, err
		}
		if _, err := acc.loadEdge(s, rel, v, neighbor); err != nil {
			return nil, err
		}
	}

	if len(labels) == 0 {
		acc.setLoaded(v, true)
	}

	return filterByLabel(acc.local(v), labels), nil
}

/*
Neighbors returns the far endpoint of each of v's incident edges in
direction dir, deduplicated by id.
*/
func (s *Session) Neighbors(ctx context.Context, v *element.Vertex, dir Direction, labels ...string) ([]*element.Vertex, error) {
	edges, err := s.IncidentEdges(ctx, v, dir, labels...)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var out []*element.Vertex
	for _, e := range edges {
		far := e.In()
		if e.Out() != v {
			far = e.Out()
		}
		if !seen[far.ID()] {
			seen[far.ID()] = true
			out = append(out, far)
		}
	}
	return out, nil
}

/*
CreateIndex emits a CREATE INDEX passthrough statement.
*/
func (s *Session) CreateIndex(ctx context.Context, label, property string) error {
	stmt := driver.NewStatement(fmt.Sprintf("CREATE INDEX ON :%s(%s)", label, property), nil)
	stream, err := s.run(ctx, stmt)
	if err != nil {
		return err
	}
	return stream.Close(ctx)
}

/*
RunRaw executes an arbitrary parameterized statement and returns the
raw stream for callers that want to decode columns themselves.
*/
func (s *Session) RunRaw(ctx context.Context, stmt driver.Statement) (driver.RecordStream, error) {
	return s.run(ctx, stmt)
}

func (s *Session) vertexFetchStatement(ids []string) driver.Statement {
	text := fmt.Sprintf("MATCH %s WHERE %s", nodePattern("n", s.partition.MatchPatternLabels()), s.idInClause("n", "ids"))
	if pred := s.partition.MatchPredicate("n"); pred != "" {
		text += " AND " + pred
	}
	text += " RETURN n"
	return driver.NewStatement(text, map[string]driver.Value{"ids": driver.List(stringValues(ids))})
}

func (s *Session) allVerticesStatement() driver.Statement {
	text := "MATCH " + nodePattern("n", s.partition.MatchPatternLabels())
	if pred := s.partition.MatchPredicate("n"); pred != "" {
		text += " WHERE " + pred
	}
	text += " RETURN n"
	return driver.NewStatement(text, nil)
}

func (s *Session) edgeFetchStatement(ids []string) driver.Statement {
	outPattern := nodePattern("out", s.partition.MatchPatternLabels())
	inPattern := nodePattern("in", s.partition.MatchPatternLabels())

	where := []string{fmt.Sprintf("r.%s IN $ids", s.IDField())}
	if pred := s.partition.MatchPredicate("out"); pred != "" {
		where = append(where, pred)
	}
	if pred := s.partition.MatchPredicate("in"); pred != "" {
		where = append(where, pred)
	}

	text := fmt.Sprintf("MATCH %s-[r]->%s WHERE %s RETURN r, out, in",
		outPattern, inPattern, strings.Join(where, " AND "))
	return driver.NewStatement(text, map[string]driver.Value{"ids": driver.List(stringValues(ids))})
}

func (s *Session) allEdgesStatement() driver.Statement {
	outPattern := nodePattern("out", s.partition.MatchPatternLabels())
	inPattern := nodePattern("in", s.partition.MatchPatternLabels())

	var where []string
	if pred := s.partition.MatchPredicate("out"); pred != "" {
		where = append(where, pred)
	}
	if pred := s.partition.MatchPredicate("in"); pred != "" {
		where = append(where, pred)
	}

	text := fmt.Sprintf("MATCH %s-[r]->%s", outPattern, inPattern)
	if len(where) > 0 {
		text += " WHERE " + strings.Join(where, " AND ")
	}
	text += " RETURN r, out, in"
	return driver.NewStatement(text, nil)
}

func (s *Session) idInClause(alias, param string) string {
	return fmt.Sprintf("%s.%s IN $%s", alias, s.IDField(), param)
}

func nodePattern(alias string, labels []string) string {
	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(alias)
	for _, l := range labels {
		sb.WriteString(":")
		sb.WriteString(l)
	}
	sb.WriteString(")")
	return sb.String()
}

func relLabelFragment(labels []string) string {
	if len(labels) == 0 {
		return ""
	}
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = ":" + l
	}
	return strings.Join(parts, "|")
}

func filterByLabel(edges []*element.Edge, labels []string) []*element.Edge {
	if len(labels) == 0 {
		return append([]*element.Edge(nil), edges...)
	}
	want := make(map[string]bool, len(labels))
	for _, l := range labels {
		want[l] = true
	}
	var out []*element.Edge
	for _, e := range edges {
		if want[e.Label()] {
			out = append(out, e)
		}
	}
	return out
}

func idsOf(edges []*element.Edge) []string {
	out := make([]string, len(edges))
	for i, e := range edges {
		out[i] = e.ID()
	}
	return out
}

func stringValues(ids []string) []driver.Value {
	out := make([]driver.Value, len(ids))
	for i, id := range ids {
		out[i] = driver.String(id)
	}
	return out
}
