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
	"strings"

	"github.com/propgraph/client/driver"
	"github.com/propgraph/client/perr"
)

/*
Vertex holds a vertex's attributes and tracks its dirty/transient/
deleted status across a transaction. A Vertex never outlives the
session it was created in; it reaches back into it only through Host.
*/
type Vertex struct {
	host Host

	id     string
	labels labelSet

	properties    map[string][]*VertexProperty
	cardinalities map[string]Cardinality

	originalProperties    map[string][]*VertexProperty
	originalCardinalities map[string]Cardinality

	outEdges map[string]*Edge
	inEdges  map[string]*Edge

	outEdgesLoaded bool
	inEdgesLoaded  bool

	transient bool
	deleted   bool

	matchLabels   labelSet
	labelsAdded   labelSet
	labelsRemoved labelSet

	hasDirtyProperty bool
}

/*
NewTransientVertex creates a vertex that has not yet been persisted.
*/
func NewTransientVertex(host Host, id string, labels ...string) *Vertex {
	v := &Vertex{
		host:                  host,
		id:                    id,
		properties:            make(map[string][]*VertexProperty),
		cardinalities:         make(map[string]Cardinality),
		originalProperties:    make(map[string][]*VertexProperty),
		originalCardinalities: make(map[string]Cardinality),
		outEdges:              make(map[string]*Edge),
		inEdges:               make(map[string]*Edge),
		transient:             true,
	}
	for _, l := range labels {
		v.labels = v.labels.add(l)
	}
	return v
}

/*
NewPersistedVertex creates a vertex materialized from a streamed
back-end record; matchLabels is seeded to the given labels since they
are, by construction, the last committed label set.
*/
func NewPersistedVertex(host Host, id string, labels ...string) *Vertex {
	v := NewTransientVertex(host, id, labels...)
	v.transient = false
	v.matchLabels = v.labels.clone()
	return v
}

/*
ID returns this vertex's immutable id.
*/
func (v *Vertex) ID() string { return v.id }

/*
Labels returns a snapshot of this vertex's current labels, which may
diverge from MatchLabels until the next commit.
*/
func (v *Vertex) Labels() []string { return append([]string(nil), v.labels...) }

/*
MatchLabels returns the label set as of the last commit.
*/
func (v *Vertex) MatchLabels() []string { return append([]string(nil), v.matchLabels...) }

/*
IsTransient reports whether this vertex has not yet been persisted.
*/
func (v *Vertex) IsTransient() bool { return v.transient }

/*
IsDeleted reports whether Remove has been called on this vertex.
*/
func (v *Vertex) IsDeleted() bool { return v.deleted }

/*
IsDirty reports whether this vertex has pending label or property
changes that need an update statement at commit.
*/
func (v *Vertex) IsDirty() bool {
	return len(v.labelsAdded) > 0 || len(v.labelsRemoved) > 0 || v.hasDirtyProperty
}

/*
AddLabel adds a label to this vertex. It is rejected if the bound read
partition does not allow it. If the label is genuinely new this
transaction it is recorded in labelsAdded and the vertex is marked
dirty; re-adding a label already present is a no-op.
*/
func (v *Vertex) AddLabel(label string) error {
	if !v.host.ValidateLabel(label) {
		return perr.New(perr.UserInput, fmt.Sprintf("label %q is not permitted by the read partition", label))
	}

	if v.labels.contains(label) {
		return nil
	}

	v.labels = v.labels.add(label)
	v.labelsAdded = v.labelsAdded.add(label)
	v.host.MarkVertexDirty(v)

	return nil
}

/*
RemoveLabel removes a label from this vertex. If the label was only
added during the current transaction, it is simply dropped from both
labels and labelsAdded, so addLabel(L) followed by removeLabel(L) in the
same transaction emits no label mutation at commit. Otherwise the
removal is recorded in labelsRemoved and the vertex is marked dirty.
*/
func (v *Vertex) RemoveLabel(label string) error {
	if !v.labels.contains(label) {
		return nil
	}

	v.labels = v.labels.remove(label)

	if v.labelsAdded.contains(label) {
		v.labelsAdded = v.labelsAdded.remove(label)
		return nil
	}

	v.labelsRemoved = v.labelsRemoved.add(label)
	v.host.MarkVertexDirty(v)

	return nil
}

/*
SetProperty adds a value to a property key under the given cardinality.
An existing cardinality for that key which differs from the requested
one is rejected. Single cardinality replaces the existing value; list
appends; set adds only if an equal (id, key, value) triple is not
already present.
*/
func (v *Vertex) SetProperty(cardinality Cardinality, name string, value driver.Value) error {
	if existing, ok := v.cardinalities[name]; ok && existing != cardinality {
		return perr.New(perr.UserInput, fmt.Sprintf(
			"property %q already has cardinality %v, cannot use %v", name, existing, cardinality))
	}

	propID, err := v.host.NextVertexPropertyID()
	if err != nil {
		return err
	}

	vp := &VertexProperty{id: propID, key: name, value: value, vertex: v}
	v.cardinalities[name] = cardinality

	switch cardinality {
	case Single:
		v.properties[name] = []*VertexProperty{vp}
	case List:
		v.properties[name] = append(v.properties[name], vp)
	case Set:
		for _, existing := range v.properties[name] {
			if equalByValueIDTriple(existing, vp) {
				return nil
			}
		}
		v.properties[name] = append(v.properties[name], vp)
	default:
		return perr.New(perr.UserInput, fmt.Sprintf("unknown cardinality %v", cardinality))
	}

	v.hasDirtyProperty = true
	v.host.MarkVertexDirty(v)

	return nil
}

/*
Property returns the sole value of a property key. It fails with
perr.MultipleProperties if the key currently holds more than one value,
and returns ok=false if the key has no value.
*/
func (v *Vertex) Property(name string) (value driver.Value, ok bool, err error) {
	vals := v.properties[name]
	switch len(vals) {
	case 0:
		return driver.Value{}, false, nil
	case 1:
		return vals[0].Value(), true, nil
	default:
		return driver.Value{}, false, perr.MultipleProperties
	}
}

/*
Properties returns the full ordered collection of values for a property
key.
*/
func (v *Vertex) Properties(name string) []*VertexProperty {
	return append([]*VertexProperty(nil), v.properties[name]...)
}

/*
PropertyKeys returns the vertex's property keys in no particular order.
*/
func (v *Vertex) PropertyKeys() []string {
	keys := make([]string, 0, len(v.properties))
	for k := range v.properties {
		keys = append(keys, k)
	}
	return keys
}

/*
Cardinality returns the cardinality in effect for a property key, and
whether the key has ever been set.
*/
func (v *Vertex) Cardinality(name string) (Cardinality, bool) {
	c, ok := v.cardinalities[name]
	return c, ok
}

/*
OutEdges returns a snapshot of this vertex's outgoing edges.
*/
func (v *Vertex) OutEdges() []*Edge { return edgeValues(v.outEdges) }

/*
InEdges returns a snapshot of this vertex's incoming edges.
*/
func (v *Vertex) InEdges() []*Edge { return edgeValues(v.inEdges) }

/*
OutEdgesLoaded reports whether every outgoing edge of this vertex has
been surfaced from the back-end this transaction.
*/
func (v *Vertex) OutEdgesLoaded() bool { return v.outEdgesLoaded }

/*
InEdgesLoaded reports whether every incoming edge of this vertex has
been surfaced from the back-end this transaction.
*/
func (v *Vertex) InEdgesLoaded() bool { return v.inEdgesLoaded }

/*
SetOutEdgesLoaded marks this vertex's outgoing-edge adjacency set as
fully loaded (only valid for unfiltered fetches).
*/
func (v *Vertex) SetOutEdgesLoaded(loaded bool) { v.outEdgesLoaded = loaded }

/*
SetInEdgesLoaded marks this vertex's incoming-edge adjacency set as
fully loaded (only valid for unfiltered fetches).
*/
func (v *Vertex) SetInEdgesLoaded(loaded bool) { v.inEdgesLoaded = loaded }

/*
AttachOutEdge adds e to this vertex's outgoing adjacency set.
*/
func (v *Vertex) AttachOutEdge(e *Edge) { v.outEdges[e.ID()] = e }

/*
AttachInEdge adds e to this vertex's incoming adjacency set.
*/
func (v *Vertex) AttachInEdge(e *Edge) { v.inEdges[e.ID()] = e }

/*
DetachOutEdge removes e from this vertex's outgoing adjacency set.
*/
func (v *Vertex) DetachOutEdge(e *Edge) { delete(v.outEdges, e.ID()) }

/*
DetachInEdge removes e from this vertex's incoming adjacency set.
*/
func (v *Vertex) DetachInEdge(e *Edge) { delete(v.inEdges, e.ID()) }

/*
Remove enqueues this vertex (and, by detaching them, its incident
edges) for deletion at commit and marks it deleted. Calling Remove more
than once is a no-op.
*/
func (v *Vertex) Remove() error {
	if v.deleted {
		return nil
	}
	if err := v.host.EnqueueVertexRemove(v); err != nil {
		return err
	}
	v.deleted = true
	return nil
}

/*
Finalize is called by the session after a successful commit: dirty is
cleared, label deltas are cleared, matchLabels is refreshed to the
current label set and this vertex is marked persisted.
*/
func (v *Vertex) Finalize() {
	v.transient = false
	v.hasDirtyProperty = false
	v.labelsAdded = nil
	v.labelsRemoved = nil
	v.matchLabels = v.labels.clone()
	v.snapshotOriginal()
}

/*
Undelete clears the deleted flag set by Remove. Used on rollback to
reinstate a vertex removed earlier in the same transaction.
*/
func (v *Vertex) Undelete() { v.deleted = false }

/*
RestoreLabels discards any uncommitted label changes, restoring labels
to matchLabels. Used on rollback.
*/
func (v *Vertex) RestoreLabels() {
	v.labels = v.matchLabels.clone()
	v.labelsAdded = nil
	v.labelsRemoved = nil
}

/*
RestoreProperties discards any uncommitted property changes, restoring
properties and cardinalities to the last-committed snapshot. Used on
rollback.
*/
func (v *Vertex) RestoreProperties() {
	v.properties = make(map[string][]*VertexProperty, len(v.originalProperties))
	for k, vals := range v.originalProperties {
		v.properties[k] = append([]*VertexProperty(nil), vals...)
	}
	v.cardinalities = make(map[string]Cardinality, len(v.originalCardinalities))
	for k, c := range v.originalCardinalities {
		v.cardinalities[k] = c
	}
	v.hasDirtyProperty = false
}

func (v *Vertex) snapshotOriginal() {
	v.originalProperties = make(map[string][]*VertexProperty, len(v.properties))
	for k, vals := range v.properties {
		v.originalProperties[k] = append([]*VertexProperty(nil), vals...)
	}
	v.originalCardinalities = make(map[string]Cardinality, len(v.cardinalities))
	for k, c := range v.cardinalities {
		v.originalCardinalities[k] = c
	}
}

/*
MatchPattern returns the "(alias:L1:L2…)" fragment used to locate this
vertex by its committed labels.
*/
func (v *Vertex) MatchPattern(alias string) string {
	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(alias)
	for _, l := range v.matchLabels {
		sb.WriteString(":")
		sb.WriteString(l)
	}
	sb.WriteString(")")
	return sb.String()
}

/*
MatchPatternByID returns the "(alias:L1:L2{idField:$param})" fragment
used to locate this vertex by its committed labels and id, e.g. when
matching an edge's endpoints.
*/
func (v *Vertex) MatchPatternByID(alias, param string) string {
	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(alias)
	for _, l := range v.matchLabels {
		sb.WriteString(":")
		sb.WriteString(l)
	}
	sb.WriteString(fmt.Sprintf("{%s:$%s})", v.host.IDField(), param))
	return sb.String()
}

/*
InsertStatement builds the CREATE statement for a transient vertex.
*/
func (v *Vertex) InsertStatement() driver.Statement {
	var sb strings.Builder
	sb.WriteString("CREATE (")
	for _, l := range v.labels {
		sb.WriteString(":")
		sb.WriteString(l)
	}
	sb.WriteString("{vp})")

	return driver.NewStatement(sb.String(), map[string]driver.Value{
		"vp": driver.Map(v.propertyMap()),
	})
}

/*
UpdateStatement builds the MERGE statement for a dirty persisted
vertex. It does not change the vertex: the dirty flag and the
label delta stay as they are until Finalize runs after a successful
commit, so that a rollback can still restore the labels.
*/
func (v *Vertex) UpdateStatement() driver.Statement {
	var sb strings.Builder

	sb.WriteString("MERGE ")
	sb.WriteString(v.MatchPatternByID("v", v.host.IDField()))

	if v.hasDirtyProperty {
		sb.WriteString(" ON MATCH SET v = {vp}")
	}
	for _, l := range v.labelsAdded {
		sb.WriteString(" SET v:")
		sb.WriteString(l)
	}
	for _, l := range v.labelsRemoved {
		sb.WriteString(" REMOVE v:")
		sb.WriteString(l)
	}

	params := map[string]driver.Value{v.host.IDField(): driver.String(v.id)}
	if v.hasDirtyProperty {
		params["vp"] = driver.Map(v.propertyMap())
	}

	return driver.NewStatement(sb.String(), params)
}

/*
DeleteStatement builds the DETACH DELETE statement for this vertex.
*/
func (v *Vertex) DeleteStatement() driver.Statement {
	text := fmt.Sprintf("MATCH %s DETACH DELETE v", v.MatchPatternByID("v", v.host.IDField()))
	return driver.NewStatement(text, map[string]driver.Value{v.host.IDField(): driver.String(v.id)})
}

/*
LoadProperty sets a property value while hydrating a vertex from a
streamed back-end record. Unlike SetProperty it does not mark the
vertex dirty or notify the host, since the value being installed is
already the committed value.
*/
func (v *Vertex) LoadProperty(cardinality Cardinality, name string, value driver.Value) error {
	propID, err := v.host.NextVertexPropertyID()
	if err != nil {
		return err
	}

	vp := &VertexProperty{id: propID, key: name, value: value, vertex: v}
	v.cardinalities[name] = cardinality

	switch cardinality {
	case Single:
		v.properties[name] = []*VertexProperty{vp}
	case List, Set:
		v.properties[name] = append(v.properties[name], vp)
	default:
		return perr.New(perr.UserInput, fmt.Sprintf("unknown cardinality %v", cardinality))
	}

	return nil
}

func (v *Vertex) propertyMap() map[string]driver.Value {
	out := map[string]driver.Value{v.host.IDField(): driver.String(v.id)}
	for key, vals := range v.properties {
		if v.cardinalities[key] == Single {
			out[key] = vals[0].Value()
			continue
		}
		list := make([]driver.Value, len(vals))
		for i, vp := range vals {
			list[i] = vp.Value()
		}
		out[key] = driver.List(list)
	}
	return out
}

func edgeValues(m map[string]*Edge) []*Edge {
	out := make([]*Edge, 0, len(m))
	for _, e := range m {
		out = append(out, e)
	}
	return out
}
