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
	"context"
	"fmt"

	"github.com/propgraph/client/driver"
)

/*
Driver is an in-memory driver.Driver. Every Session it hands out shares
the same underlying Store.
*/
type Driver struct {
	store *Store
}

/*
New returns a Driver backed by a fresh, empty Store.
*/
func New() *Driver {
	return &Driver{store: NewStore()}
}

/*
Store exposes the backing Store directly, for tests that want to seed
or inspect data without going through the statement protocol.
*/
func (d *Driver) Store() *Store { return d.store }

func (d *Driver) NewSession(ctx context.Context) (driver.Session, error) {
	return &dbSession{store: d.store}, nil
}

type dbSession struct {
	store  *Store
	closed bool
}

func (s *dbSession) BeginTransaction(ctx context.Context) (driver.Tx, error) {
	if s.closed {
		return nil, fmt.Errorf("boltstub: session is closed")
	}
	return &tx{store: s.store, open: true}, nil
}

func (s *dbSession) Close(ctx context.Context) error {
	s.closed = true
	return nil
}

/*
tx applies every mutating statement immediately to the shared store,
recording an inverse closure per statement so Failure can unwind them.
Locking is per-statement rather than held for the transaction's
lifetime, since an id.Provider sequence refill opens its own nested
session/transaction against the same Store mid-transaction.
*/
type tx struct {
	store  *Store
	undo   []func()
	open   bool
	closed bool
}

func (t *tx) Run(ctx context.Context, stmt driver.Statement) (driver.RecordStream, error) {
	if !t.open {
		return nil, fmt.Errorf("boltstub: transaction is not open")
	}
	return execute(t.store, &t.undo, stmt)
}

func (t *tx) Success(ctx context.Context) error {
	t.open = false
	t.undo = nil
	return nil
}

func (t *tx) Failure(ctx context.Context) error {
	t.open = false

	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
	return nil
}

func (t *tx) Close(ctx context.Context) error {
	t.closed = true
	return nil
}

func (t *tx) IsOpen() bool { return t.open }
