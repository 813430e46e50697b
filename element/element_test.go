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

import "fmt"

/*
fakeHost is a minimal Host used by this package's own tests, standing
in for session.Session.
*/
type fakeHost struct {
	forbiddenLabels map[string]bool
	nextPropID      int

	dirtyVertices map[*Vertex]bool
	dirtyEdges    map[*Edge]bool
	removedV      []*Vertex
	removedE      []*Edge
}

func newFakeHost(forbidden ...string) *fakeHost {
	fh := &fakeHost{
		forbiddenLabels: make(map[string]bool),
		dirtyVertices:   make(map[*Vertex]bool),
		dirtyEdges:      make(map[*Edge]bool),
	}
	for _, l := range forbidden {
		fh.forbiddenLabels[l] = true
	}
	return fh
}

func (fh *fakeHost) ValidateLabel(label string) bool { return !fh.forbiddenLabels[label] }
func (fh *fakeHost) IDField() string                 { return "id" }

func (fh *fakeHost) NextVertexPropertyID() (string, error) {
	fh.nextPropID++
	return fmt.Sprint(fh.nextPropID), nil
}

func (fh *fakeHost) MarkVertexDirty(v *Vertex) {
	if !v.IsTransient() {
		fh.dirtyVertices[v] = true
	}
}

func (fh *fakeHost) MarkEdgeDirty(e *Edge) {
	if !e.IsTransient() {
		fh.dirtyEdges[e] = true
	}
}

func (fh *fakeHost) EnqueueVertexRemove(v *Vertex) error {
	for _, oe := range append(v.OutEdges(), v.InEdges()...) {
		oe.Remove()
	}
	fh.removedV = append(fh.removedV, v)
	return nil
}

func (fh *fakeHost) EnqueueEdgeRemove(e *Edge) error {
	e.Out().DetachOutEdge(e)
	e.In().DetachInEdge(e)
	fh.removedE = append(fh.removedE, e)
	return nil
}
