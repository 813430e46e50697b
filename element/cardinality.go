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
Package element implements the vertex, edge and vertex-property state
machines: dirty/transient/deleted tracking, statement-template
emission, and rollback snapshotting. It has no knowledge of how a
session stores or streams elements; it talks to its owning session only
through the narrow Host interface, so this package never imports
package session.
*/
package element

import "fmt"

/*
Cardinality constrains how many values a vertex property key may hold.
*/
type Cardinality int

const (
	/*
	   Single means exactly one value for the key; a new value replaces
	   the old one.
	*/
	Single Cardinality = iota

	/*
	   List means an ordered, possibly-repeating sequence of values; a
	   new value is appended.
	*/
	List

	/*
	   Set means a collection with uniqueness by (id, key, value); a new
	   value is added only if an equal one (by id+key+value) is not
	   already present.
	*/
	Set
)

func (c Cardinality) String() string {
	switch c {
	case Single:
		return "single"
	case List:
		return "list"
	case Set:
		return "set"
	}
	return fmt.Sprintf("Cardinality(%d)", int(c))
}
