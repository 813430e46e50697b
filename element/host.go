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

/*
Host is the narrow slice of Session that an element needs: label
validation against the bound read partition, property id allocation,
dirty-queue bookkeeping and deletion enqueuing. Session implements
Host; elements never see anything else of Session, which keeps this
package free of an import cycle back to package session.
*/
type Host interface {
	/*
	   ValidateLabel reports whether label may be added to or removed
	   from a vertex under the bound read partition.
	*/
	ValidateLabel(label string) bool

	/*
	   IDField returns the name of the id field used in generated
	   statements for vertices and edges.
	*/
	IDField() string

	/*
	   NextVertexPropertyID allocates a fresh, independent id for a new
	   VertexProperty value.
	*/
	NextVertexPropertyID() (string, error)

	/*
	   MarkVertexDirty records that v needs an update statement at
	   commit. A transient vertex is never enqueued (it is fully
	   described by its insert statement instead).
	*/
	MarkVertexDirty(v *Vertex)

	/*
	   MarkEdgeDirty records that e needs an update statement at
	   commit. A transient (newEdge) edge is never enqueued.
	*/
	MarkEdgeDirty(e *Edge)

	/*
	   EnqueueVertexRemove records v (and, by detaching them, its
	   incident edges) for deletion at commit.
	*/
	EnqueueVertexRemove(v *Vertex) error

	/*
	   EnqueueEdgeRemove records e for deletion at commit and detaches
	   it from both endpoints' adjacency sets.
	*/
	EnqueueEdgeRemove(e *Edge) error
}
