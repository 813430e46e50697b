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
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

/*
Config is the pgcli demo's on-disk configuration: which id strategy to
exercise, which labels the read partition admits, and whether to
register Prometheus metrics. There is no back-end address to configure
since pgcli always demonstrates against an in-process boltstub driver.
*/
type Config struct {
	IDStrategy      string   `yaml:"id_strategy"`
	SequencePool    int64    `yaml:"sequence_pool"`
	PartitionLabels []string `yaml:"partition_labels"`
	EnableMetrics   bool     `yaml:"enable_metrics"`
}

/*
DefaultConfig is used whenever no config file is given or found.
*/
var DefaultConfig = Config{
	IDStrategy:   "native",
	SequencePool: 20,
}

/*
LoadConfig reads the YAML config file at path and validates it. A
missing file is not an error: the caller gets DefaultConfig back.
*/
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return DefaultConfig, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("pgcli: open config %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadConfigFromReader(f)
	if err != nil {
		return Config{}, fmt.Errorf("pgcli: parse config %q: %w", path, err)
	}
	return cfg, nil
}

/*
LoadConfigFromReader decodes a YAML config from r and validates the
result. Exposed separately so tests can build a Config from a string
literal without touching the filesystem.
*/
func LoadConfigFromReader(r io.Reader) (Config, error) {
	cfg := DefaultConfig
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, fmt.Errorf("pgcli: decode yaml: %w", err)
	}
	if err := ValidateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

/*
ValidateConfig rejects a Config with an unrecognized id strategy or a
non-positive sequence pool size.
*/
func ValidateConfig(cfg Config) error {
	switch cfg.IDStrategy {
	case "native", "sequence":
	default:
		return fmt.Errorf("pgcli: id_strategy %q is invalid; valid values: native, sequence", cfg.IDStrategy)
	}
	if cfg.IDStrategy == "sequence" && cfg.SequencePool < 1 {
		return fmt.Errorf("pgcli: sequence_pool must be positive when id_strategy is sequence, got %d", cfg.SequencePool)
	}
	return nil
}
