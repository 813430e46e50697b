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

import (
	"strings"

	"github.com/krotik/common/stringutil"
)

/*
labelSet is an ordered set of labels: insertion order is preserved
(needed so CREATE (:L1:L2...) patterns and the serialized "::"-joined
form are stable), duplicates are rejected.
*/
type labelSet []string

func (s labelSet) contains(label string) bool {
	return stringutil.IndexOf(label, []string(s)) != -1
}

func (s labelSet) add(label string) labelSet {
	if s.contains(label) {
		return s
	}
	return append(s, label)
}

func (s labelSet) remove(label string) labelSet {
	i := stringutil.IndexOf(label, []string(s))
	if i == -1 {
		return s
	}
	out := make(labelSet, 0, len(s)-1)
	out = append(out, s[:i]...)
	out = append(out, s[i+1:]...)
	return out
}

/*
String returns the "::"-joined serialized form of a label set.
*/
func (s labelSet) String() string {
	return strings.Join([]string(s), "::")
}

func (s labelSet) clone() labelSet {
	return append(labelSet(nil), s...)
}
