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
Package id implements the element identifier providers: a native
variant, which generates a random uuid on the client, and a sequence-pooled
variant, which reserves ranges from a server-maintained counter node to
avoid a round trip per insert.
*/
package id

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/propgraph/client/driver"
	"github.com/propgraph/client/perr"
	"github.com/propgraph/client/pgcount"
	"github.com/propgraph/client/plog"
	"github.com/propgraph/client/seq"
)

var log = plog.Get("id")

/*
Provider allocates and canonicalizes element identifiers.
*/
type Provider interface {
	/*
	   FieldName returns the name of the id field/parameter used in
	   generated statements.
	*/
	FieldName() string

	/*
	   Generate returns a freshly allocated id for a transient element.
	*/
	Generate() (string, error)

	/*
	   Canonicalize normalizes a raw id value (as read back from the
	   driver) into the same representation Generate produces.
	*/
	Canonicalize(raw interface{}) (string, error)
}

/*
nativeProvider is the variant without a server-side counter:
canonicalization is the identity function, and Generate returns a
random uuid. That uuid keys the transient element in the session's
registries and is written as the element's id field by its create
statement; it stays the element's id after commit, and no id assigned
by the back-end replaces it.
*/
type nativeProvider struct {
	field string
}

/*
NewNativeProvider returns a Provider whose ids are random uuids
generated on the client; the back-end stores each one as the element's
id and does not assign ids of its own.
*/
func NewNativeProvider() Provider {
	return &nativeProvider{field: "id"}
}

func (p *nativeProvider) FieldName() string { return p.field }

func (p *nativeProvider) Generate() (string, error) {
	return uuid.NewString(), nil
}

func (p *nativeProvider) Canonicalize(raw interface{}) (string, error) {
	return fmt.Sprint(raw), nil
}

/*
sequenceProvider reserves id ranges from a back-end counter node named
by label, poolSize ids at a time.
*/
type sequenceProvider struct {
	field string
	pool  *seq.Pool
}

/*
NewSequenceProvider returns a Provider that allocates ids from a
server-maintained counter. label names the counter node; it is merged
with:

  MERGE (g:label) ON CREATE SET g.nextId = 1 ON MATCH SET g.nextId = g.nextId + $poolSize RETURN g.nextId

Each refill opens a fresh session on d and runs the statement in its
own transaction, so that a failed refill touches no other state.
*/
func NewSequenceProvider(ctx context.Context, d driver.Driver, label string, poolSize int64, opts ...SequenceOption) Provider {
	cfg := sequenceConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	refill := func(n int64) (int64, error) {
		newTop, err := refillSequence(ctx, d, label, n)
		if err == nil {
			cfg.metrics.PoolRefill()
		}
		return newTop, err
	}
	return &sequenceProvider{field: "id", pool: seq.NewPool(poolSize, refill)}
}

/*
SequenceOption configures a sequence Provider at construction time.
*/
type SequenceOption func(*sequenceConfig)

type sequenceConfig struct {
	metrics *pgcount.Recorder
}

/*
WithMetrics records every back-end refill round trip against rec. A
nil rec (the default, if this option is never passed) disables
instrumentation entirely.
*/
func WithMetrics(rec *pgcount.Recorder) SequenceOption {
	return func(c *sequenceConfig) { c.metrics = rec }
}

func refillSequence(ctx context.Context, d driver.Driver, label string, poolSize int64) (int64, error) {
	dsess, err := d.NewSession(ctx)
	if err != nil {
		return 0, perr.Wrap(perr.Transport, "opening session for sequence refill", err)
	}
	defer dsess.Close(ctx)

	tx, err := dsess.BeginTransaction(ctx)
	if err != nil {
		return 0, perr.Wrap(perr.Transport, "beginning sequence refill transaction", err)
	}

	stmt := driver.NewStatement(
		fmt.Sprintf("MERGE (g:%s) ON CREATE SET g.nextId = 1 ON MATCH SET g.nextId = g.nextId + $poolSize RETURN g.nextId", label),
		map[string]driver.Value{"poolSize": driver.Long(poolSize)},
	)

	stream, err := tx.Run(ctx, stmt)
	if err != nil {
		tx.Failure(ctx)
		tx.Close(ctx)
		return 0, perr.Wrap(perr.Transport, "running sequence refill statement", err)
	}

	rec, err := stream.Next(ctx)
	stream.Close(ctx)
	if err != nil {
		tx.Failure(ctx)
		tx.Close(ctx)
		return 0, perr.Wrap(perr.Transport, "reading sequence refill result", err)
	}

	val, err := rec.Get(0)
	if err != nil {
		tx.Failure(ctx)
		tx.Close(ctx)
		return 0, perr.Wrap(perr.Transport, "reading sequence refill value", err)
	}

	newTop, err := val.AsLong()
	if err != nil {
		tx.Failure(ctx)
		tx.Close(ctx)
		return 0, perr.Wrap(perr.Transport, "sequence refill value is not a long", err)
	}

	if err := tx.Success(ctx); err != nil {
		tx.Close(ctx)
		return 0, perr.Wrap(perr.Transport, "committing sequence refill transaction", err)
	}
	tx.Close(ctx)

	log.Debug(fmt.Sprintf("refilled sequence %q: poolSize=%d newTop=%d", label, poolSize, newTop))
	return newTop, nil
}

func (p *sequenceProvider) FieldName() string { return p.field }

func (p *sequenceProvider) Generate() (string, error) {
	next, err := p.pool.Next()
	if err != nil {
		return "", perr.Wrap(perr.Transport, "allocating id from sequence pool", err)
	}
	return fmt.Sprint(next), nil
}

func (p *sequenceProvider) Canonicalize(raw interface{}) (string, error) {
	switch v := raw.(type) {
	case int64:
		return fmt.Sprint(v), nil
	case int:
		return fmt.Sprint(v), nil
	case string:
		return v, nil
	default:
		return "", perr.New(perr.UserInput, fmt.Sprintf("cannot canonicalize id of type %T", raw))
	}
}
