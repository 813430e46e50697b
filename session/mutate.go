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
	"fmt"

	"github.com/propgraph/client/driver"
	"github.com/propgraph/client/element"
	"github.com/propgraph/client/perr"
)

/*
AddVertex creates a transient vertex with the given labels and
single-cardinality properties. A caller-supplied value for the id
field is rejected: ids are always provider-allocated.
*/
func (s *Session) AddVertex(labels []string, props map[string]driver.Value) (*element.Vertex, error) {
	if _, reserved := props[s.IDField()]; reserved {
		return nil, perr.New(perr.UserInput, fmt.Sprintf("property %q is reserved for the element id", s.IDField()))
	}

	newID, err := s.vertexIDs.Generate()
	if err != nil {
		return nil, err
	}

	v := element.NewTransientVertex(s, newID, labels...)
	for k, val := range props {
		if err := v.SetProperty(element.Single, k, val); err != nil {
			return nil, err
		}
	}

	s.vertices[newID] = v
	s.transientVertexOrder = append(s.transientVertexOrder, v)

	return v, nil
}

/*
AddEdge creates a transient edge between out and in, both of which
must belong to this session.
*/
func (s *Session) AddEdge(label string, out, in *element.Vertex, props map[string]driver.Value) (*element.Edge, error) {
	if s.vertices[out.ID()] != out {
		return nil, perr.New(perr.UserInput, "out vertex does not belong to this session")
	}
	if s.vertices[in.ID()] != in {
		return nil, perr.New(perr.UserInput, "in vertex does not belong to this session")
	}

	newID, err := s.edgeIDs.Generate()
	if err != nil {
		return nil, err
	}

	e := element.NewTransientEdge(s, newID, label, out, in)
	for k, val := range props {
		if err := e.SetProperty(k, val); err != nil {
			return nil, err
		}
	}

	s.edges[newID] = e
	s.transientEdgeOrder = append(s.transientEdgeOrder, e)

	return e, nil
}
