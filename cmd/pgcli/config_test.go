/*
 * propgraph client
 *
 * Copyright 2026 propgraph Authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package main

import (
	"reflect"
	"strings"
	"testing"
)

func TestLoadConfigFromReaderDefaults(t *testing.T) {
	cfg, err := LoadConfigFromReader(strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultConfig) {
		t.Fatalf("expected DefaultConfig for empty input, got %+v", cfg)
	}
}

func TestLoadConfigFromReaderOverridesDefaults(t *testing.T) {
	yaml := `
id_strategy: sequence
sequence_pool: 50
partition_labels:
  - Person
  - Company
enable_metrics: true
`
	cfg, err := LoadConfigFromReader(strings.NewReader(yaml))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.IDStrategy != "sequence" {
		t.Errorf("IDStrategy = %q, want sequence", cfg.IDStrategy)
	}
	if cfg.SequencePool != 50 {
		t.Errorf("SequencePool = %d, want 50", cfg.SequencePool)
	}
	if len(cfg.PartitionLabels) != 2 {
		t.Errorf("PartitionLabels = %v, want 2 entries", cfg.PartitionLabels)
	}
	if !cfg.EnableMetrics {
		t.Error("EnableMetrics = false, want true")
	}
}

func TestLoadConfigFromReaderRejectsUnknownField(t *testing.T) {
	yaml := `bogus_field: true`
	if _, err := LoadConfigFromReader(strings.NewReader(yaml)); err == nil {
		t.Fatal("expected an error for an unknown config field, got nil")
	}
}

func TestLoadConfigFromReaderRejectsBadStrategy(t *testing.T) {
	yaml := `id_strategy: quantum`
	_, err := LoadConfigFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected an error for an invalid id_strategy, got nil")
	}
	if !strings.Contains(err.Error(), "id_strategy") {
		t.Errorf("error should mention id_strategy, got: %v", err)
	}
}

func TestLoadConfigFromReaderRejectsNonPositivePoolWithSequenceStrategy(t *testing.T) {
	yaml := `
id_strategy: sequence
sequence_pool: 0
`
	_, err := LoadConfigFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected an error for a non-positive sequence_pool, got nil")
	}
	if !strings.Contains(err.Error(), "sequence_pool") {
		t.Errorf("error should mention sequence_pool, got: %v", err)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig("does/not/exist.yaml")
	if err != nil {
		t.Fatalf("unexpected error for a missing config file: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultConfig) {
		t.Fatalf("expected DefaultConfig, got %+v", cfg)
	}
}
