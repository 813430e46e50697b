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
	"testing"

	"github.com/propgraph/client/driver"
	"github.com/propgraph/client/perr"
)

func TestAddLabelRejectedByPartition(t *testing.T) {
	host := newFakeHost("Forbidden")
	v := NewTransientVertex(host, "v1")

	if err := v.AddLabel("Forbidden"); err == nil {
		t.Fatal("expected AddLabel to be rejected")
	} else if !perr.Is(err, perr.UserInput) {
		t.Errorf("expected UserInput error, got %v", err)
	}

	if v.labels.contains("Forbidden") {
		t.Error("label should not have been added")
	}
}

func TestAddRemoveLabelWithinOneTransactionEmitsNoMutation(t *testing.T) {
	host := newFakeHost()
	v := NewPersistedVertex(host, "v1", "Person")
	v.Finalize()

	if err := v.AddLabel("Tagged"); err != nil {
		t.Fatal(err)
	}
	if err := v.RemoveLabel("Tagged"); err != nil {
		t.Fatal(err)
	}

	if len(v.labelsAdded) != 0 || len(v.labelsRemoved) != 0 {
		t.Errorf("expected no label deltas, got added=%v removed=%v", v.labelsAdded, v.labelsRemoved)
	}
}

func TestSingleCardinalityReplaces(t *testing.T) {
	host := newFakeHost()
	v := NewTransientVertex(host, "v1")

	if err := v.SetProperty(Single, "name", driver.String("Alice")); err != nil {
		t.Fatal(err)
	}
	if err := v.SetProperty(Single, "name", driver.String("Bob")); err != nil {
		t.Fatal(err)
	}

	val, ok, err := v.Property("name")
	if err != nil || !ok {
		t.Fatalf("expected single value, got ok=%v err=%v", ok, err)
	}
	s, _ := val.AsObject()
	if s != "Bob" {
		t.Errorf("expected Bob, got %v", s)
	}
}

func TestCardinalityConflictRejected(t *testing.T) {
	host := newFakeHost()
	v := NewTransientVertex(host, "v1")

	if err := v.SetProperty(Single, "tag", driver.String("x")); err != nil {
		t.Fatal(err)
	}
	if err := v.SetProperty(List, "tag", driver.String("y")); err == nil {
		t.Fatal("expected cardinality conflict error")
	} else if !perr.Is(err, perr.UserInput) {
		t.Errorf("expected UserInput error, got %v", err)
	}
}

func TestListCardinalityAppendsInOrder(t *testing.T) {
	host := newFakeHost()
	v := NewTransientVertex(host, "v1")

	v.SetProperty(List, "tag", driver.String("x"))
	v.SetProperty(List, "tag", driver.String("y"))

	vals := v.Properties("tag")
	if len(vals) != 2 {
		t.Fatalf("expected 2 values, got %d", len(vals))
	}
	first, _ := vals[0].Value().AsObject()
	second, _ := vals[1].Value().AsObject()
	if first != "x" || second != "y" {
		t.Errorf("expected [x y] in order, got [%v %v]", first, second)
	}
}

func TestSetCardinalityKeepsEntriesWithFreshIDs(t *testing.T) {
	host := newFakeHost()
	v := NewTransientVertex(host, "v1")

	v.SetProperty(Set, "tag", driver.String("x"))
	v.SetProperty(Set, "tag", driver.String("x"))
	v.SetProperty(Set, "tag", driver.String("y"))

	vals := v.Properties("tag")
	if len(vals) != 3 {
		t.Fatalf("expected 3 distinct (id,key,value) entries since each SetProperty call mints a fresh id, got %d", len(vals))
	}
}

func TestMultiplePropertiesAccessorError(t *testing.T) {
	host := newFakeHost()
	v := NewTransientVertex(host, "v1")
	v.SetProperty(List, "tag", driver.String("x"))
	v.SetProperty(List, "tag", driver.String("y"))

	_, _, err := v.Property("tag")
	if err != perr.MultipleProperties {
		t.Errorf("expected MultipleProperties, got %v", err)
	}
}

func TestPropertyOnMissingKeyReturnsNotOk(t *testing.T) {
	host := newFakeHost()
	v := NewTransientVertex(host, "v1")

	_, ok, err := v.Property("nope")
	if err != nil || ok {
		t.Errorf("expected ok=false err=nil, got ok=%v err=%v", ok, err)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	host := newFakeHost()
	v := NewTransientVertex(host, "v1")

	if err := v.Remove(); err != nil {
		t.Fatal(err)
	}
	if err := v.Remove(); err != nil {
		t.Fatal(err)
	}
	if len(host.removedV) != 1 {
		t.Errorf("expected exactly one enqueued removal, got %d", len(host.removedV))
	}
}

func TestRestorePropertiesOnRollback(t *testing.T) {
	host := newFakeHost()
	v := NewPersistedVertex(host, "v1", "Person")
	v.SetProperty(Single, "name", driver.String("Alice"))
	v.Finalize()

	v.SetProperty(Single, "name", driver.String("Bob"))
	v.RestoreProperties()

	val, ok, err := v.Property("name")
	if err != nil || !ok {
		t.Fatalf("expected name to still be set after restore, ok=%v err=%v", ok, err)
	}
	s, _ := val.AsObject()
	if s != "Alice" {
		t.Errorf("expected restored name=Alice, got %v", s)
	}
	if v.IsDirty() {
		t.Error("expected vertex to be clean after restore")
	}
}

func TestInsertStatementIncludesLabelsAndID(t *testing.T) {
	host := newFakeHost()
	v := NewTransientVertex(host, "v1", "Person")
	v.SetProperty(Single, "name", driver.String("Alice"))

	stmt := v.InsertStatement()
	if stmt.Text != "CREATE (:Person{vp})" {
		t.Errorf("unexpected statement text: %q", stmt.Text)
	}

	vp, err := stmt.Parameters["vp"].AsMap()
	if err != nil {
		t.Fatal(err)
	}
	idVal, _ := vp["id"].AsObject()
	if idVal != "v1" {
		t.Errorf("expected id v1, got %v", idVal)
	}
	nameVal, _ := vp["name"].AsObject()
	if nameVal != "Alice" {
		t.Errorf("expected name Alice, got %v", nameVal)
	}
}
