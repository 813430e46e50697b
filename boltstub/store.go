/*
 * propgraph client
 *
 * Copyright 2026 propgraph Authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package boltstub

import (
	"fmt"
	"sync"

	"github.com/krotik/common/sortutil"
	"github.com/propgraph/client/driver"
)

/*
node is a vertex as held by the store.
*/
type node struct {
	internal int64
	id       string
	labels   []string
	props    map[string]driver.Value
}

/*
relationship is an edge as held by the store.
*/
type relationship struct {
	internal int64
	id       string
	relType  string
	outID    string
	inID     string
	props    map[string]driver.Value
}

/*
Store is the shared in-memory graph backing every session opened
against a Driver built with New. It is safe for concurrent use; a
single global mutex serializes statement execution, matching
boltstub's role as a single-writer test double rather than a
concurrent production back-end.
*/
type Store struct {
	mu sync.Mutex

	nextInternal int64

	nodes         map[string]*node
	nodesByOrder  map[int64]string
	rels          map[string]*relationship
	relsByOrder   map[int64]string
	counters      map[string]int64
}

/*
NewStore creates an empty in-memory graph.
*/
func NewStore() *Store {
	return &Store{
		nodes:        make(map[string]*node),
		nodesByOrder: make(map[int64]string),
		rels:         make(map[string]*relationship),
		relsByOrder:  make(map[int64]string),
		counters:     make(map[string]int64),
	}
}

func (s *Store) allocInternal() int64 {
	s.nextInternal++
	return s.nextInternal
}

/*
orderedNodeIDs returns every node id, ordered by creation sequence via
sortutil.Int64s since map iteration order is random and full-scan
results must be stable across calls.
*/
func (s *Store) orderedNodeIDs() []string {
	keys := make([]int64, 0, len(s.nodesByOrder))
	for k := range s.nodesByOrder {
		keys = append(keys, k)
	}
	sortutil.Int64s(keys)

	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = s.nodesByOrder[k]
	}
	return out
}

func (s *Store) orderedRelIDs() []string {
	keys := make([]int64, 0, len(s.relsByOrder))
	for k := range s.relsByOrder {
		keys = append(keys, k)
	}
	sortutil.Int64s(keys)

	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = s.relsByOrder[k]
	}
	return out
}

func containsAllLabels(have, want []string) bool {
	set := make(map[string]bool, len(have))
	for _, l := range have {
		set[l] = true
	}
	for _, w := range want {
		if !set[w] {
			return false
		}
	}
	return true
}

func cloneProps(p map[string]driver.Value) map[string]driver.Value {
	out := make(map[string]driver.Value, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

/*
insertNode adds a new node; it fails if a node with the same id is
already present, mirroring the Consistency error the real session/commit
path guards against with its own id generation.
*/
func (s *Store) insertNode(id string, labels []string, props map[string]driver.Value) error {
	if _, ok := s.nodes[id]; ok {
		return fmt.Errorf("boltstub: node id %q already exists: %w", id, driver.ErrDuplicateID)
	}
	n := &node{internal: s.allocInternal(), id: id, labels: append([]string(nil), labels...), props: props}
	s.nodes[id] = n
	s.nodesByOrder[n.internal] = id
	return nil
}

func (s *Store) updateNode(id string, setProps map[string]driver.Value, addLabels, removeLabels []string) error {
	n, ok := s.nodes[id]
	if !ok {
		return fmt.Errorf("boltstub: node id %q not found for update", id)
	}
	if setProps != nil {
		n.props = setProps
	}
	for _, l := range addLabels {
		if !containsAllLabels(n.labels, []string{l}) {
			n.labels = append(n.labels, l)
		}
	}
	for _, l := range removeLabels {
		out := n.labels[:0:0]
		for _, have := range n.labels {
			if have != l {
				out = append(out, have)
			}
		}
		n.labels = out
	}
	return nil
}

func (s *Store) deleteNode(id string) error {
	n, ok := s.nodes[id]
	if !ok {
		return fmt.Errorf("boltstub: node id %q not found for delete", id)
	}
	for rid, r := range s.rels {
		if r.outID == id || r.inID == id {
			delete(s.rels, rid)
			delete(s.relsByOrder, r.internal)
		}
	}
	delete(s.nodes, id)
	delete(s.nodesByOrder, n.internal)
	return nil
}

func (s *Store) insertRel(id, relType, outID, inID string, props map[string]driver.Value) error {
	if _, ok := s.rels[id]; ok {
		return fmt.Errorf("boltstub: relationship id %q already exists: %w", id, driver.ErrDuplicateID)
	}
	if _, ok := s.nodes[outID]; !ok {
		return fmt.Errorf("boltstub: relationship endpoint %q not found: %w", outID, driver.ErrMissingEndpoint)
	}
	if _, ok := s.nodes[inID]; !ok {
		return fmt.Errorf("boltstub: relationship endpoint %q not found: %w", inID, driver.ErrMissingEndpoint)
	}
	r := &relationship{internal: s.allocInternal(), id: id, relType: relType, outID: outID, inID: inID, props: props}
	s.rels[id] = r
	s.relsByOrder[r.internal] = id
	return nil
}

func (s *Store) updateRel(id string, setProps map[string]driver.Value) error {
	r, ok := s.rels[id]
	if !ok {
		return fmt.Errorf("boltstub: relationship id %q not found for update", id)
	}
	r.props = setProps
	return nil
}

func (s *Store) deleteRel(id string) error {
	r, ok := s.rels[id]
	if !ok {
		return fmt.Errorf("boltstub: relationship id %q not found for delete", id)
	}
	delete(s.rels, id)
	delete(s.relsByOrder, r.internal)
	return nil
}

/*
refillCounter applies the sequence allocator MERGE literally: absent
counters are created at 1, present counters are incremented by
poolSize, and the post-update value is returned — exactly what the
generated Cypher text says, even though the resulting first range can
look unintuitive for poolSize > 1 (see DESIGN.md).
*/
func (s *Store) refillCounter(label string, poolSize int64) int64 {
	cur, ok := s.counters[label]
	if !ok {
		s.counters[label] = 1
		return 1
	}
	cur += poolSize
	s.counters[label] = cur
	return cur
}
