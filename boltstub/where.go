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
binding is whichever store entity a WHERE fragment's alias resolves to.
*/
type binding struct {
	n *node
	r *relationship
}

func (b binding) id() string {
	if b.n != nil {
		return b.n.id
	}
	return b.r.id
}

var (
	reInClause    = regexp.MustCompile(`^(\w+)\.(\w+) IN \$(\w+)$`)
	reNotInClause = regexp.MustCompile(`^NOT (\w+)\.(\w+) IN \$(\w+)$`)
	reTypeClause  = regexp.MustCompile(`^type\((\w+)\) IN \$(\w+)$`)
	reOrClause    = regexp.MustCompile(`^\((.+)\)$`)
)

/*
splitConditions splits a WHERE fragment into its top-level AND-joined
conditions. partition.Partition never nests AND inside an OR group, so
a plain split on " AND " is safe.
*/
func splitConditions(where string) []string {
	if where == "" {
		return nil
	}
	return strings.Split(where, " AND ")
}

func stringListParam(params map[string]driver.Value, name string) (map[string]bool, error) {
	list, err := params[name].AsList()
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(list))
	for _, v := range list {
		obj, err := v.AsObject()
		if err != nil {
			return nil, err
		}
		s, _ := obj.(string)
		out[s] = true
	}
	return out, nil
}

/*
evalConditions reports whether every condition fragment holds for the
given alias bindings.
*/
func evalConditions(conds []string, bindings map[string]binding, params map[string]driver.Value) (bool, error) {
	for _, c := range conds {
		ok, err := evalCondition(c, bindings, params)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func evalCondition(c string, bindings map[string]binding, params map[string]driver.Value) (bool, error) {
	if m := reNotInClause.FindStringSubmatch(c); m != nil {
		set, err := stringListParam(params, m[3])
		if err != nil {
			return false, err
		}
		return !set[bindings[m[1]].id()], nil
	}
	if m := reTypeClause.FindStringSubmatch(c); m != nil {
		set, err := stringListParam(params, m[2])
		if err != nil {
			return false, err
		}
		return set[bindings[m[1]].r.relType], nil
	}
	if m := reInClause.FindStringSubmatch(c); m != nil {
		set, err := stringListParam(params, m[3])
		if err != nil {
			return false, err
		}
		return set[bindings[m[1]].id()], nil
	}
	if m := reOrClause.FindStringSubmatch(c); m != nil {
		parts := strings.Split(m[1], " OR ")
		for _, p := range parts {
			tokens := strings.SplitN(strings.TrimSpace(p), ":", 2)
			if len(tokens) != 2 {
				continue
			}
			alias, label := tokens[0], tokens[1]
			if containsAllLabels(bindings[alias].n.labels, []string{label}) {
				return true, nil
			}
		}
		return false, nil
	}
	return false, errUnrecognizedCondition(c)
}
