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

import "github.com/propgraph/client/driver"

/*
VertexProperty is a single value of a vertex property key. Its id is
allocated independently of the owning vertex's id; there is no support
for meta-properties on a VertexProperty.
*/
type VertexProperty struct {
	id     string
	key    string
	value  driver.Value
	vertex *Vertex
}

/*
ID returns this property value's independently allocated id.
*/
func (p *VertexProperty) ID() string { return p.id }

/*
Key returns the property key this value belongs to.
*/
func (p *VertexProperty) Key() string { return p.key }

/*
Value returns this property value.
*/
func (p *VertexProperty) Value() driver.Value { return p.value }

/*
Vertex returns the vertex this property value belongs to.
*/
func (p *VertexProperty) Vertex() *Vertex { return p.vertex }

/*
equalByValueIDTriple reports whether two VertexProperty values are
equal under Set cardinality's uniqueness rule: same id, key and value.
*/
func equalByValueIDTriple(a, b *VertexProperty) bool {
	if a.id != b.id || a.key != b.key {
		return false
	}
	return valuesEqual(a.value, b.value)
}

/*
valuesEqual compares two driver.Values by their scalar Go
representation. List values are never considered equal to each other
here since Go's == operator cannot compare slices; Set cardinality is
expected to hold scalar values in practice.
*/
func valuesEqual(a, b driver.Value) bool {
	av, aerr := a.AsObject()
	bv, berr := b.AsObject()
	if aerr != nil || berr != nil {
		return false
	}
	switch av.(type) {
	case []driver.Value:
		return false
	}
	switch bv.(type) {
	case []driver.Value:
		return false
	}
	return av == bv
}
