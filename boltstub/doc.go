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
Package boltstub is an in-memory implementation of driver.Driver used by
this module's own tests and examples. It plays the role a graph engine's
in-process memory-backed storage plays one layer down: a map-backed
stand-in for a real back-end that lets the rest of the stack be
exercised without a network endpoint.

boltstub does not parse a general query language. session and element
only ever emit statement text from a fixed, small set of templates
(vertex/edge insert, update, delete, fetch-by-id, full scan, incident
traversal, the sequence allocator MERGE, and CREATE INDEX), so boltstub
recognizes each template by its literal shape rather than carrying a
Cypher parser. This is a deliberate simplification appropriate to a
test double, not a general-purpose graph database.

boltstub assumes the id field name is always "id", which holds for
both id.Provider implementations this module ships. A driver.Driver
built against a back-end with a different id field name would need its
own stub.
*/
package boltstub
