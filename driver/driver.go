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
Package driver defines the contract the session uses to talk to a
remote graph back-end: a parameterized-statement protocol returning a
lazy stream of records. The wire driver itself (Bolt, Gremlin, or
otherwise) is out of scope for this module; callers plug in their own
implementation of Driver. Package boltstub ships an in-memory
implementation used by this module's own tests and examples.
*/
package driver

import (
	"context"
	"errors"
)

/*
ErrStreamDone is returned by RecordStream.Next once the stream is
exhausted.
*/
var ErrStreamDone = errors.New("driver: record stream exhausted")

/*
ErrDuplicateID and ErrMissingEndpoint are the two referential-
consistency divergences a back-end can detect while running a create
statement: an id already assigned to a different element, or a
relationship naming an endpoint vertex the back-end has no record of.
A Tx.Run implementation should wrap one of these with %w so that
callers (see package session) can tell a genuine divergence between
the in-memory working set and the back-end apart from an ordinary
transport failure.
*/
var (
	ErrDuplicateID     = errors.New("driver: id already exists")
	ErrMissingEndpoint = errors.New("driver: relationship endpoint not found")
)

/*
Driver opens sessions against the back-end. A single Driver is safe for
concurrent use; the Sessions it hands out are not (see package
session).
*/
type Driver interface {
	NewSession(ctx context.Context) (Session, error)
}

/*
Session is a single back-end connection capable of opening transactions.
*/
type Session interface {
	BeginTransaction(ctx context.Context) (Tx, error)
	Close(ctx context.Context) error
}

/*
Tx is a single back-end transaction. Run may be called any number of
times before the transaction is finished with exactly one of Success or
Failure, followed by Close.
*/
type Tx interface {
	Run(ctx context.Context, stmt Statement) (RecordStream, error)
	Success(ctx context.Context) error
	Failure(ctx context.Context) error
	Close(ctx context.Context) error
	IsOpen() bool
}

/*
Statement is a single parameterized query-language statement.
*/
type Statement struct {
	Text       string
	Parameters map[string]Value
}

/*
NewStatement builds a Statement from a template string and a parameter
map.
*/
func NewStatement(text string, parameters map[string]Value) Statement {
	return Statement{Text: text, Parameters: parameters}
}

/*
RecordStream is a lazy, finite, single-pass sequence of Records returned
by Tx.Run.
*/
type RecordStream interface {
	/*
	   Next advances the stream and returns the next Record, or
	   ErrStreamDone once exhausted.
	*/
	Next(ctx context.Context) (Record, error)
	Close(ctx context.Context) error
}

/*
Record is a single row of a RecordStream, addressed positionally.
*/
type Record interface {
	Get(i int) (Value, error)
}

/*
Node is a vertex as surfaced by the back-end.
*/
type Node interface {
	Get(key string) (interface{}, bool)
	Keys() []string
	Labels() []string
	ID() int64
}

/*
Relationship is an edge as surfaced by the back-end.
*/
type Relationship interface {
	Get(key string) (interface{}, bool)
	Keys() []string
	Type() string
	StartNodeID() int64
	EndNodeID() int64
}
