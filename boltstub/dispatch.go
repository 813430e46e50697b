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
	"regexp"
	"strings"

	"github.com/propgraph/client/driver"
)

/*
execute interprets a single statement against store, under store.mu,
appending an inverse closure to undo so a Tx can unwind it on Failure.
It recognizes the fixed set of statement shapes element and session
emit; see doc.go.
*/
func execute(store *Store, undo *[]func(), stmt driver.Statement) (*recordStream, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	text := stmt.Text
	params := stmt.Parameters

	switch {
	case strings.HasPrefix(text, "CREATE INDEX ON"):
		return newRecordStream(nil), nil

	case strings.HasPrefix(text, "MERGE (g:"):
		return execSequence(store, undo, text, params)

	case strings.HasSuffix(text, " DETACH DELETE v"):
		return execVertexDelete(store, undo, text, params)

	case strings.HasSuffix(text, " DELETE r"):
		return execEdgeDelete(store, undo, text, params)

	case strings.Contains(text, "CREATE (out)-[r:"):
		return execEdgeInsert(store, undo, text, params)

	case strings.Contains(text, "MERGE (out)-[r:"):
		return execEdgeUpdate(store, undo, text, params)

	case strings.HasPrefix(text, "MERGE (v"):
		return execVertexUpdate(store, undo, text, params)

	case strings.HasPrefix(text, "CREATE ("):
		return execVertexInsert(store, undo, text, params)

	case strings.HasSuffix(text, "RETURN r, out, in"):
		return execEdgeFetch(store, text, params)

	case strings.HasSuffix(text, "RETURN r, m"):
		return execIncident(store, text, params)

	case strings.HasSuffix(text, "RETURN n"):
		return execVertexFetch(store, text, params)
	}

	return nil, errUnrecognizedStatement(text)
}

var reLabels = regexp.MustCompile(`^CREATE \(((?:\:\w+)*)\{vp\}\)$`)

func execVertexInsert(store *Store, undo *[]func(), text string, params map[string]driver.Value) (*recordStream, error) {
	m := reLabels.FindStringSubmatch(text)
	if m == nil {
		return nil, errUnrecognizedStatement(text)
	}
	labels := splitLabelTokens(m[1])

	vp, err := params["vp"].AsMap()
	if err != nil {
		return nil, err
	}
	id, err := idOfProps(vp)
	if err != nil {
		return nil, err
	}

	if err := store.insertNode(id, labels, cloneProps(vp)); err != nil {
		return nil, err
	}
	*undo = append(*undo, func() { store.deleteNode(id) })

	return newRecordStream(nil), nil
}

var (
	reIDBinding = regexp.MustCompile(`\{(\w+):\$(\w+)\}`)
	reSetLabel  = regexp.MustCompile(` SET v:(\w+)`)
	reRemLabel  = regexp.MustCompile(` REMOVE v:(\w+)`)
)

func execVertexUpdate(store *Store, undo *[]func(), text string, params map[string]driver.Value) (*recordStream, error) {
	idm := reIDBinding.FindStringSubmatch(text)
	if idm == nil {
		return nil, errUnrecognizedStatement(text)
	}
	idField := idm[1]
	id, err := idOfParam(params, idField)
	if err != nil {
		return nil, err
	}

	existing, ok := store.nodes[id]
	if !ok {
		return nil, errUnrecognizedStatement(text)
	}
	prevProps := cloneProps(existing.props)
	prevLabels := append([]string(nil), existing.labels...)

	var setProps map[string]driver.Value
	if strings.Contains(text, "ON MATCH SET v = {vp}") {
		vp, err := params["vp"].AsMap()
		if err != nil {
			return nil, err
		}
		setProps = cloneProps(vp)
	}

	var added, removed []string
	for _, m := range reSetLabel.FindAllStringSubmatch(text, -1) {
		added = append(added, m[1])
	}
	for _, m := range reRemLabel.FindAllStringSubmatch(text, -1) {
		removed = append(removed, m[1])
	}

	if err := store.updateNode(id, setProps, added, removed); err != nil {
		return nil, err
	}
	*undo = append(*undo, func() {
		store.updateNode(id, prevProps, nil, nil)
		store.nodes[id].labels = prevLabels
	})

	return newRecordStream(nil), nil
}

func execVertexDelete(store *Store, undo *[]func(), text string, params map[string]driver.Value) (*recordStream, error) {
	idm := reIDBinding.FindStringSubmatch(text)
	if idm == nil {
		return nil, errUnrecognizedStatement(text)
	}
	id, err := idOfParam(params, idm[1])
	if err != nil {
		return nil, err
	}

	existing, ok := store.nodes[id]
	if !ok {
		return newRecordStream(nil), nil
	}
	prevProps := cloneProps(existing.props)
	prevLabels := append([]string(nil), existing.labels...)

	var deletedRels []*relationship
	for _, r := range store.rels {
		if r.outID == id || r.inID == id {
			deletedRels = append(deletedRels, r)
		}
	}

	if err := store.deleteNode(id); err != nil {
		return nil, err
	}
	*undo = append(*undo, func() {
		store.insertNode(id, prevLabels, prevProps)
		for _, r := range deletedRels {
			store.insertRel(r.id, r.relType, r.outID, r.inID, cloneProps(r.props))
		}
	})

	return newRecordStream(nil), nil
}

var reEdgeInsertLabel = regexp.MustCompile(`CREATE \(out\)-\[r:(\w+) \{ep\}\]->\(in\)`)

func execEdgeInsert(store *Store, undo *[]func(), text string, params map[string]driver.Value) (*recordStream, error) {
	m := reEdgeInsertLabel.FindStringSubmatch(text)
	if m == nil {
		return nil, errUnrecognizedStatement(text)
	}
	label := m[1]

	ep, err := params["ep"].AsMap()
	if err != nil {
		return nil, err
	}
	id, err := idOfProps(ep)
	if err != nil {
		return nil, err
	}
	outID, err := stringParam(params, "outId")
	if err != nil {
		return nil, err
	}
	inID, err := stringParam(params, "inId")
	if err != nil {
		return nil, err
	}

	if err := store.insertRel(id, label, outID, inID, cloneProps(ep)); err != nil {
		return nil, err
	}
	*undo = append(*undo, func() { store.deleteRel(id) })

	return newRecordStream(nil), nil
}

var reEdgeUpdateHead = regexp.MustCompile(`MERGE \(out\)-\[r:(\w+) \{(\w+):\$(\w+)\}\]->\(in\)`)

func execEdgeUpdate(store *Store, undo *[]func(), text string, params map[string]driver.Value) (*recordStream, error) {
	m := reEdgeUpdateHead.FindStringSubmatch(text)
	if m == nil {
		return nil, errUnrecognizedStatement(text)
	}
	idField := m[2]

	id, err := idOfParam(params, idField)
	if err != nil {
		return nil, err
	}

	existing, ok := store.rels[id]
	if !ok {
		return nil, errUnrecognizedStatement(text)
	}
	prevProps := cloneProps(existing.props)

	var setProps map[string]driver.Value
	if strings.Contains(text, "ON MATCH SET r = {ep}") {
		ep, err := params["ep"].AsMap()
		if err != nil {
			return nil, err
		}
		setProps = cloneProps(ep)
	}

	if err := store.updateRel(id, setProps); err != nil {
		return nil, err
	}
	*undo = append(*undo, func() { store.updateRel(id, prevProps) })

	return newRecordStream(nil), nil
}

var reEdgeDeleteHead = regexp.MustCompile(`-\[r:\w+ \{(\w+):\$(\w+)\}\]->`)

func execEdgeDelete(store *Store, undo *[]func(), text string, params map[string]driver.Value) (*recordStream, error) {
	idm := reEdgeDeleteHead.FindStringSubmatch(text)
	if idm == nil {
		return nil, errUnrecognizedStatement(text)
	}
	id, err := idOfParam(params, idm[1])
	if err != nil {
		return nil, err
	}

	existing, ok := store.rels[id]
	if !ok {
		return newRecordStream(nil), nil
	}
	prevProps := cloneProps(existing.props)
	relType, outID, inID := existing.relType, existing.outID, existing.inID

	if err := store.deleteRel(id); err != nil {
		return nil, err
	}
	*undo = append(*undo, func() { store.insertRel(id, relType, outID, inID, prevProps) })

	return newRecordStream(nil), nil
}

func execVertexFetch(store *Store, text string, params map[string]driver.Value) (*recordStream, error) {
	_, hasIDs := params["ids"]
	var ids map[string]bool
	if hasIDs {
		set, err := stringListParam(params, "ids")
		if err != nil {
			return nil, err
		}
		ids = set
	}

	requiredLabels := nodePatternLabels(text, "n")
	where := extractWhere(text, "RETURN n")

	var candidateIDs []string
	if hasIDs {
		for id := range ids {
			candidateIDs = append(candidateIDs, id)
		}
	} else {
		candidateIDs = store.orderedNodeIDs()
	}

	var rows []record
	for _, id := range orderByStore(store, candidateIDs) {
		n, ok := store.nodes[id]
		if !ok || !containsAllLabels(n.labels, requiredLabels) {
			continue
		}
		ok, err := evalConditions(where, map[string]binding{"n": {n: n}}, params)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		rows = append(rows, record{values: []driver.Value{driver.FromNode(wireNode{n})}})
	}
	return newRecordStream(rows), nil
}

func execEdgeFetch(store *Store, text string, params map[string]driver.Value) (*recordStream, error) {
	_, hasIDs := params["ids"]
	var ids map[string]bool
	if hasIDs {
		set, err := stringListParam(params, "ids")
		if err != nil {
			return nil, err
		}
		ids = set
	}

	requiredLabels := nodePatternLabels(text, "out")
	where := extractWhere(text, "RETURN r, out, in")

	var candidateIDs []string
	if hasIDs {
		for id := range ids {
			candidateIDs = append(candidateIDs, id)
		}
		candidateIDs = orderByStoreRel(store, candidateIDs)
	} else {
		candidateIDs = store.orderedRelIDs()
	}

	var rows []record
	for _, id := range candidateIDs {
		r, ok := store.rels[id]
		if !ok {
			continue
		}
		out, ook := store.nodes[r.outID]
		in, iok := store.nodes[r.inID]
		if !ook || !iok {
			continue
		}
		if !containsAllLabels(out.labels, requiredLabels) || !containsAllLabels(in.labels, requiredLabels) {
			continue
		}
		bindings := map[string]binding{"out": {n: out}, "in": {n: in}, "r": {r: r}}
		pass, err := evalConditions(where, bindings, params)
		if err != nil {
			return nil, err
		}
		if !pass {
			continue
		}
		rows = append(rows, record{values: []driver.Value{
			driver.FromRelationship(wireRelationship{r: r, outInt: out.internal, inInt: in.internal}),
			driver.FromNode(wireNode{out}),
			driver.FromNode(wireNode{in}),
		}})
	}
	return newRecordStream(rows), nil
}

func execIncident(store *Store, text string, params map[string]driver.Value) (*recordStream, error) {
	outSide := strings.HasPrefix(text, "MATCH (n")

	var vidParam, relFrag, tail string
	if outSide {
		idx := strings.Index(text, "-[r")
		head := text[len("MATCH "):idx]
		m := reIDBinding.FindStringSubmatch(head)
		if m == nil {
			return nil, errUnrecognizedStatement(text)
		}
		vidParam = m[2]
		closeIdx := strings.Index(text, "]->(m)")
		relFrag = text[idx+len("-[r") : closeIdx]
		tail = text[closeIdx+len("]->(m)"):]
	} else {
		idx := strings.Index(text, "]->")
		relFrag = text[len("MATCH (m)-[r"):idx]
		rest := text[idx+len("]->"):]
		retIdx := strings.Index(rest, " RETURN r, m")
		nodeFrag := rest[:retIdx]
		whereIdx := strings.Index(nodeFrag, " WHERE ")
		head := nodeFrag
		if whereIdx >= 0 {
			head = nodeFrag[:whereIdx]
			tail = nodeFrag[whereIdx:]
		}
		m := reIDBinding.FindStringSubmatch(head)
		if m == nil {
			return nil, errUnrecognizedStatement(text)
		}
		vidParam = m[2]
	}

	vid, err := stringParam(params, vidParam)
	if err != nil {
		return nil, err
	}

	var allowedTypes map[string]bool
	if relFrag != "" {
		allowedTypes = make(map[string]bool)
		for _, tok := range strings.Split(relFrag, "|") {
			allowedTypes[strings.TrimPrefix(tok, ":")] = true
		}
	}

	where := splitConditions(strings.TrimPrefix(strings.TrimSuffix(tail, " RETURN r, m"), " WHERE "))

	var rows []record
	for _, id := range store.orderedRelIDs() {
		r := store.rels[id]
		var neighborID string
		if outSide {
			if r.outID != vid {
				continue
			}
			neighborID = r.inID
		} else {
			if r.inID != vid {
				continue
			}
			neighborID = r.outID
		}
		if allowedTypes != nil && !allowedTypes[r.relType] {
			continue
		}

		bindings := map[string]binding{"r": {r: r}}
		pass, err := evalConditions(where, bindings, params)
		if err != nil {
			return nil, err
		}
		if !pass {
			continue
		}

		neighbor, ok := store.nodes[neighborID]
		if !ok {
			continue
		}
		v, ok := store.nodes[vid]
		if !ok {
			continue
		}
		wireRel := wireRelationship{r: r, outInt: v.internal, inInt: neighbor.internal}
		if !outSide {
			wireRel.outInt, wireRel.inInt = neighbor.internal, v.internal
		}
		rows = append(rows, record{values: []driver.Value{
			driver.FromRelationship(wireRel),
			driver.FromNode(wireNode{neighbor}),
		}})
	}
	return newRecordStream(rows), nil
}

var reSequenceLabel = regexp.MustCompile(`^MERGE \(g:(\w+)\)`)

func execSequence(store *Store, undo *[]func(), text string, params map[string]driver.Value) (*recordStream, error) {
	m := reSequenceLabel.FindStringSubmatch(text)
	if m == nil {
		return nil, errUnrecognizedStatement(text)
	}
	label := m[1]

	poolSize, err := params["poolSize"].AsLong()
	if err != nil {
		return nil, err
	}

	prev, hadPrev := store.counters[label]
	newTop := store.refillCounter(label, poolSize)
	*undo = append(*undo, func() {
		if hadPrev {
			store.counters[label] = prev
		} else {
			delete(store.counters, label)
		}
	})

	return newRecordStream([]record{{values: []driver.Value{driver.Long(newTop)}}}), nil
}

func nodePatternLabels(text, alias string) []string {
	re := regexp.MustCompile(`\(` + alias + `((?:\:\w+)*)[\{\)]`)
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	return splitLabelTokens(m[1])
}

func splitLabelTokens(s string) []string {
	var out []string
	for _, tok := range strings.Split(s, ":") {
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

func extractWhere(text, suffix string) []string {
	idx := strings.Index(text, " WHERE ")
	if idx < 0 {
		return nil
	}
	end := strings.LastIndex(text, " "+suffix)
	if end < 0 {
		end = len(text)
	}
	return splitConditions(text[idx+len(" WHERE ") : end])
}

func idOfProps(props map[string]driver.Value) (string, error) {
	return stringParam(props, "id")
}

func idOfParam(params map[string]driver.Value, field string) (string, error) {
	return stringParam(params, field)
}

func stringParam(params map[string]driver.Value, name string) (string, error) {
	obj, err := params[name].AsObject()
	if err != nil {
		return "", err
	}
	s, _ := obj.(string)
	return s, nil
}

func orderByStore(store *Store, ids []string) []string {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	var out []string
	for _, id := range store.orderedNodeIDs() {
		if set[id] {
			out = append(out, id)
		}
	}
	return out
}

func orderByStoreRel(store *Store, ids []string) []string {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	var out []string
	for _, id := range store.orderedRelIDs() {
		if set[id] {
			out = append(out, id)
		}
	}
	return out
}
