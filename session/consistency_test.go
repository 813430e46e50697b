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
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/propgraph/client/driver"
	"github.com/propgraph/client/perr"
)

/*
stubBackendSession and stubTx let these tests drive runCreate's error
classification directly, without needing boltstub to actually produce a
colliding id or a dangling endpoint.
*/
type stubBackendSession struct {
	tx driver.Tx
}

func (b *stubBackendSession) BeginTransaction(ctx context.Context) (driver.Tx, error) {
	return b.tx, nil
}
func (b *stubBackendSession) Close(ctx context.Context) error { return nil }

type stubTx struct {
	runErr error
	open   bool
}

func (t *stubTx) Run(ctx context.Context, stmt driver.Statement) (driver.RecordStream, error) {
	return nil, t.runErr
}
func (t *stubTx) Success(ctx context.Context) error { return nil }
func (t *stubTx) Failure(ctx context.Context) error { return nil }
func (t *stubTx) Close(ctx context.Context) error   { t.open = false; return nil }
func (t *stubTx) IsOpen() bool                      { return t.open }

func newRunCreateSession(runErr error) *Session {
	tx := &stubTx{runErr: runErr, open: true}
	return &Session{backend: &stubBackendSession{tx: tx}}
}

/*
TestRunCreateClassifiesDuplicateIDAsConsistency covers the boltstub
insertNode case from the review: a create statement rejected because its
id already exists must surface as Consistency, not a generic Transport
failure.
*/
func TestRunCreateClassifiesDuplicateIDAsConsistency(t *testing.T) {
	ctx := context.Background()
	underlying := fmt.Errorf("boltstub: node id %q already exists: %w", "v1", driver.ErrDuplicateID)
	s := newRunCreateSession(underlying)

	_, err := s.runCreate(ctx, driver.NewStatement("CREATE (n {id: $id})", nil))
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	if !perr.Is(err, perr.Consistency) {
		t.Fatalf("expected Consistency, got %v", err)
	}
	if !errors.Is(err, driver.ErrDuplicateID) {
		t.Fatalf("expected the wrapped error to still satisfy errors.Is(driver.ErrDuplicateID): %v", err)
	}
}

/*
TestRunCreateClassifiesMissingEndpointAsConsistency covers the
boltstub insertRel case: a create statement rejected because an edge's
endpoint vertex is gone must also surface as Consistency.
*/
func TestRunCreateClassifiesMissingEndpointAsConsistency(t *testing.T) {
	ctx := context.Background()
	underlying := fmt.Errorf("boltstub: relationship endpoint %q not found: %w", "v9", driver.ErrMissingEndpoint)
	s := newRunCreateSession(underlying)

	_, err := s.runCreate(ctx, driver.NewStatement("CREATE (a)-[r]->(b)", nil))
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	if !perr.Is(err, perr.Consistency) {
		t.Fatalf("expected Consistency, got %v", err)
	}
}

/*
TestRunCreateClassifiesOtherFailuresAsTransport covers the negative
case: an unrelated failure (e.g. a dropped connection) still surfaces as
Transport, not Consistency.
*/
func TestRunCreateClassifiesOtherFailuresAsTransport(t *testing.T) {
	ctx := context.Background()
	s := newRunCreateSession(errors.New("connection reset"))

	_, err := s.runCreate(ctx, driver.NewStatement("CREATE (n {id: $id})", nil))
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	if !perr.Is(err, perr.Transport) {
		t.Fatalf("expected Transport, got %v", err)
	}
	if perr.Is(err, perr.Consistency) {
		t.Fatalf("unrelated failure must not be classified as Consistency: %v", err)
	}
}
