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
loadVertex materializes a streamed Node into a persisted Vertex,
reconciling it against any in-memory state already held for that id:
the local copy always wins over a freshly streamed row, since a
session's own uncommitted mutations take precedence over what the
back-end currently reports.
*/
func (s *Session) loadVertex(n driver.Node) (*element.Vertex, error) {
	canon, err := s.canonicalizeNodeID(n)
	if err != nil {
		return nil, err
	}

	if existing, ok := s.vertices[canon]; ok {
		return existing, nil
	}

	v := element.NewPersistedVertex(s, canon, n.Labels()...)
	if err := hydrateVertex(v, n, s.IDField()); err != nil {
		return nil, err
	}
	v.Finalize()

	s.vertices[canon] = v
	return v, nil
}

/*
loadEdge materializes a streamed Relationship into a persisted Edge
between two already-resolved endpoint vertices.
*/
func (s *Session) loadEdge(r driver.Relationship, out, in *element.Vertex) (*element.Edge, error) {
	canon, err := s.canonicalizeRelationshipID(r)
	if err != nil {
		return nil, err
	}

	if existing, ok := s.edges[canon]; ok {
		return existing, nil
	}

	e := element.NewPersistedEdge(s, canon, r.Type(), out, in)
	if err := hydrateEdge(e, r, s.IDField()); err != nil {
		return nil, err
	}
	e.Finalize()

	s.edges[canon] = e
	return e, nil
}

func (s *Session) canonicalizeNodeID(n driver.Node) (string, error) {
	raw, ok := n.Get(s.IDField())
	if !ok {
		return "", perr.New(perr.Consistency, fmt.Sprintf("streamed node is missing its %q field", s.IDField()))
	}
	return s.vertexIDs.Canonicalize(raw)
}

func (s *Session) canonicalizeRelationshipID(r driver.Relationship) (string, error) {
	raw, ok := r.Get(s.IDField())
	if !ok {
		return "", perr.New(perr.Consistency, fmt.Sprintf("streamed relationship is missing its %q field", s.IDField()))
	}
	return s.edgeIDs.Canonicalize(raw)
}

func hydrateVertex(v *element.Vertex, n driver.Node, idField string) error {
	for _, k := range n.Keys() {
		if k == idField {
			continue
		}
		raw, _ := n.Get(k)
		val, err := driver.FromObject(raw)
		if err != nil {
			return perr.Wrap(perr.Transport, fmt.Sprintf("decoding node property %q", k), err)
		}
		if list, lerr := val.AsList(); lerr == nil {
			for _, item := range list {
				if err := v.LoadProperty(element.List, k, item); err != nil {
					return err
				}
			}
			continue
		}
		if err := v.LoadProperty(element.Single, k, val); err != nil {
			return err
		}
	}
	return nil
}

func hydrateEdge(e *element.Edge, r driver.Relationship, idField string) error {
	for _, k := range r.Keys() {
		if k == idField {
			continue
		}
		raw, _ := r.Get(k)
		val, err := driver.FromObject(raw)
		if err != nil {
			return perr.Wrap(perr.Transport, fmt.Sprintf("decoding relationship property %q", k), err)
		}
		if err := e.LoadProperty(k, val); err != nil {
			return err
		}
	}
	return nil
}
