/*
 * propgraph client
 *
 * Copyright 2026 propgraph Authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package element

import (
	"fmt"

	"github.com/propgraph/client/driver"
)

/*
Edge holds an edge's attributes and tracks its dirty/transient/deleted
status. Out and In are non-owning references to the endpoint vertices;
both must belong to the same session as the edge.
*/
type Edge struct {
	host Host

	id    string
	label string

	out *Vertex
	in  *Vertex

	properties         map[string]*Property
	originalProperties map[string]*Property

	dirty   bool
	newEdge bool
	deleted bool
}

/*
NewTransientEdge creates an edge that has not yet been persisted,
attaching it to both endpoints' adjacency sets.
*/
func NewTransientEdge(host Host, id, label string, out, in *Vertex) *Edge {
	e := &Edge{
		host:       host,
		id:         id,
		label:      label,
		out:        out,
		in:         in,
		properties: make(map[string]*Property),
		newEdge:    true,
	}
	out.AttachOutEdge(e)
	in.AttachInEdge(e)
	return e
}

/*
NewPersistedEdge creates an edge materialized from a streamed back-end
record, attaching it to both endpoints' adjacency sets.
*/
func NewPersistedEdge(host Host, id, label string, out, in *Vertex) *Edge {
	e := NewTransientEdge(host, id, label, out, in)
	e.newEdge = false
	e.snapshotOriginal()
	return e
}

/*
ID returns this edge's immutable id.
*/
func (e *Edge) ID() string { return e.id }

/*
Label returns this edge's immutable label.
*/
func (e *Edge) Label() string { return e.label }

/*
Out returns the source endpoint vertex.
*/
func (e *Edge) Out() *Vertex { return e.out }

/*
In returns the target endpoint vertex.
*/
func (e *Edge) In() *Vertex { return e.in }

/*
IsTransient reports whether this edge has not yet been persisted.
*/
func (e *Edge) IsTransient() bool { return e.newEdge }

/*
IsDirty reports whether this edge has a pending property change.
*/
func (e *Edge) IsDirty() bool { return e.dirty }

/*
IsDeleted reports whether Remove has been called on this edge.
*/
func (e *Edge) IsDeleted() bool { return e.deleted }

/*
SetProperty replaces the value of a property key (edge properties are
always single cardinality).
*/
func (e *Edge) SetProperty(key string, value driver.Value) error {
	e.properties[key] = &Property{key: key, value: value, edge: e}
	e.dirty = true
	e.host.MarkEdgeDirty(e)
	return nil
}

/*
LoadProperty sets a property value while hydrating an edge from a
streamed back-end record, without marking it dirty or notifying the
host.
*/
func (e *Edge) LoadProperty(key string, value driver.Value) error {
	e.properties[key] = &Property{key: key, value: value, edge: e}
	return nil
}

/*
Property returns the value of a property key, if set.
*/
func (e *Edge) Property(key string) (driver.Value, bool) {
	p, ok := e.properties[key]
	if !ok {
		return driver.Value{}, false
	}
	return p.Value(), true
}

/*
PropertyKeys returns this edge's property keys in no particular order.
*/
func (e *Edge) PropertyKeys() []string {
	keys := make([]string, 0, len(e.properties))
	for k := range e.properties {
		keys = append(keys, k)
	}
	return keys
}

/*
Remove enqueues this edge for deletion at commit, detaches it from both
endpoints' adjacency sets, and marks it deleted. Calling Remove more
than once is a no-op.
*/
func (e *Edge) Remove() error {
	if e.deleted {
		return nil
	}
	if err := e.host.EnqueueEdgeRemove(e); err != nil {
		return err
	}
	e.deleted = true
	return nil
}

/*
Undelete clears the deleted flag set by Remove. Used on rollback to
reinstate an edge removed earlier in the same transaction.
*/
func (e *Edge) Undelete() { e.deleted = false }

/*
Finalize is called by the session after a successful commit: original
properties are snapshotted from the current state and dirty/newEdge are
cleared.
*/
func (e *Edge) Finalize() {
	e.newEdge = false
	e.dirty = false
	e.snapshotOriginal()
}

/*
RestoreProperties discards any uncommitted property changes, restoring
properties to the last-committed snapshot. Used on rollback.
*/
func (e *Edge) RestoreProperties() {
	e.properties = make(map[string]*Property, len(e.originalProperties))
	for k, p := range e.originalProperties {
		e.properties[k] = &Property{key: p.key, value: p.value, edge: e}
	}
	e.dirty = false
}

func (e *Edge) snapshotOriginal() {
	e.originalProperties = make(map[string]*Property, len(e.properties))
	for k, p := range e.properties {
		e.originalProperties[k] = &Property{key: p.key, value: p.value, edge: e}
	}
}

/*
InsertStatement builds the statement that matches both endpoints by id
and creates the relationship between them.
*/
func (e *Edge) InsertStatement() driver.Statement {
	text := fmt.Sprintf("MATCH %s, %s CREATE (out)-[r:%s {ep}]->(in)",
		e.out.MatchPatternByID("out", "outId"), e.in.MatchPatternByID("in", "inId"), e.label)

	params := e.propertyMap()
	params["outId"] = driver.String(e.out.ID())
	params["inId"] = driver.String(e.in.ID())

	return driver.NewStatement(text, params)
}

/*
UpdateStatement builds the MERGE statement for a dirty persisted edge.
*/
func (e *Edge) UpdateStatement() driver.Statement {
	idField := e.host.IDField()
	text := fmt.Sprintf("MATCH %s, %s MERGE (out)-[r:%s {%s:$%s}]->(in) ON MATCH SET r = {ep}",
		e.out.MatchPatternByID("out", "outId"), e.in.MatchPatternByID("in", "inId"), e.label, idField, idField)

	params := e.propertyMap()
	params[idField] = driver.String(e.id)
	params["outId"] = driver.String(e.out.ID())
	params["inId"] = driver.String(e.in.ID())

	return driver.NewStatement(text, params)
}

/*
DeleteStatement builds the DELETE statement for this edge.
*/
func (e *Edge) DeleteStatement() driver.Statement {
	idField := e.host.IDField()
	text := fmt.Sprintf("MATCH %s-[r:%s {%s:$%s}]->%s DELETE r",
		e.out.MatchPatternByID("out", "outId"), e.label, idField, idField, e.in.MatchPatternByID("in", "inId"))

	return driver.NewStatement(text, map[string]driver.Value{
		idField: driver.String(e.id),
		"outId": driver.String(e.out.ID()),
		"inId":  driver.String(e.in.ID()),
	})
}

func (e *Edge) propertyMap() map[string]driver.Value {
	idField := e.host.IDField()
	props := map[string]driver.Value{idField: driver.String(e.id)}
	for k, p := range e.properties {
		props[k] = p.Value()
	}
	return map[string]driver.Value{"ep": driver.Map(props)}
}
