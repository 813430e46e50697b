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
Property is a single edge property value. Edge properties are always
single cardinality.
*/
type Property struct {
	key   string
	value driver.Value
	edge  *Edge
}

/*
Key returns this property's key.
*/
func (p *Property) Key() string { return p.key }

/*
Value returns this property's value.
*/
func (p *Property) Value() driver.Value { return p.value }

/*
Edge returns the edge this property belongs to.
*/
func (p *Property) Edge() *Edge { return p.edge }
