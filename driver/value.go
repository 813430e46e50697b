/*
 * propgraph client
 *
 * Copyright 2026 propgraph Authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package driver

import "fmt"

/*
Value is a tagged variant over the value types the driver surfaces:
int64, float64, bool, string, []Value, Node and Relationship, plus a
Map kind used only to compose statement parameters (e.g. the single
"vp" map parameter of a CREATE/MERGE statement). Map-typed *stored*
property values are not supported (spec Non-goal); Map exists purely
as a parameter-encoding device, not as a property value a caller can
attach to a vertex or edge.
*/
type Value struct {
	kind kind
	i    int64
	f    float64
	b    bool
	s    string
	list []Value
	m    map[string]Value
	node Node
	rel  Relationship
}

type kind int

const (
	kindLong kind = iota
	kindDouble
	kindBool
	kindString
	kindList
	kindMap
	kindNode
	kindRelationship
	kindNull
)

func Long(v int64) Value     { return Value{kind: kindLong, i: v} }
func Double(v float64) Value { return Value{kind: kindDouble, f: v} }
func Bool(v bool) Value      { return Value{kind: kindBool, b: v} }
func String(v string) Value  { return Value{kind: kindString, s: v} }
func List(v []Value) Value   { return Value{kind: kindList, list: v} }
func Map(v map[string]Value) Value {
	return Value{kind: kindMap, m: v}
}
func FromNode(v Node) Value { return Value{kind: kindNode, node: v} }
func FromRelationship(v Relationship) Value {
	return Value{kind: kindRelationship, rel: v}
}
func Null() Value { return Value{kind: kindNull} }

/*
IsNull reports whether this value represents the absence of a value.
*/
func (v Value) IsNull() bool { return v.kind == kindNull }

/*
AsLong returns the value as an int64.
*/
func (v Value) AsLong() (int64, error) {
	if v.kind != kindLong {
		return 0, fmt.Errorf("value is not a long (kind %v)", v.kind)
	}
	return v.i, nil
}

/*
AsObject returns the value as its natural Go representation.
*/
func (v Value) AsObject() (interface{}, error) {
	switch v.kind {
	case kindLong:
		return v.i, nil
	case kindDouble:
		return v.f, nil
	case kindBool:
		return v.b, nil
	case kindString:
		return v.s, nil
	case kindList:
		return v.list, nil
	case kindNode:
		return v.node, nil
	case kindRelationship:
		return v.rel, nil
	case kindNull:
		return nil, nil
	}
	return nil, fmt.Errorf("value: unknown kind %v", v.kind)
}

/*
AsList returns the value as a list of Values.
*/
func (v Value) AsList() ([]Value, error) {
	if v.kind != kindList {
		return nil, fmt.Errorf("value is not a list (kind %v)", v.kind)
	}
	return v.list, nil
}

/*
AsNode returns the value as a Node.
*/
func (v Value) AsNode() (Node, error) {
	if v.kind != kindNode {
		return nil, fmt.Errorf("value is not a node (kind %v)", v.kind)
	}
	return v.node, nil
}

/*
AsRelationship returns the value as a Relationship.
*/
func (v Value) AsRelationship() (Relationship, error) {
	if v.kind != kindRelationship {
		return nil, fmt.Errorf("value is not a relationship (kind %v)", v.kind)
	}
	return v.rel, nil
}

/*
AsMap returns the value as a parameter map.
*/
func (v Value) AsMap() (map[string]Value, error) {
	if v.kind != kindMap {
		return nil, fmt.Errorf("value is not a map (kind %v)", v.kind)
	}
	return v.m, nil
}

/*
FromObject converts a plain Go value (as produced by element property
storage) into a driver Value. Maps are rejected since multi-value
map-typed stored properties are an explicit Non-goal.
*/
func FromObject(o interface{}) (Value, error) {
	switch val := o.(type) {
	case nil:
		return Null(), nil
	case int64:
		return Long(val), nil
	case int:
		return Long(int64(val)), nil
	case float64:
		return Double(val), nil
	case bool:
		return Bool(val), nil
	case string:
		return String(val), nil
	case []interface{}:
		out := make([]Value, len(val))
		for i, e := range val {
			ev, err := FromObject(e)
			if err != nil {
				return Value{}, err
			}
			out[i] = ev
		}
		return List(out), nil
	default:
		return Value{}, fmt.Errorf("value: unsupported type %T", o)
	}
}
