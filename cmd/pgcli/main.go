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
Command pgcli is a small, self-contained demonstration of the
propgraph client: it opens a Graph against an in-process boltstub
driver (no external database needed), runs one transaction that adds a
couple of vertices and an edge, commits, and prints what a fresh
transaction reads back.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	client "github.com/propgraph/client"
	"github.com/propgraph/client/boltstub"
	"github.com/propgraph/client/driver"
	"github.com/propgraph/client/id"
	"github.com/propgraph/client/partition"
	"github.com/propgraph/client/pgcount"
)

/*
consolelogger lets tests swap out fatal/print without touching os.Exit
or stdout directly.
*/
type consolelogger func(v ...interface{})

var (
	fatal consolelogger = log.Fatal
	print consolelogger = log.Print
)

func main() {
	configPath := flag.String("config", "", "path to a pgcli.yaml config file (optional)")
	flag.Parse()

	print("pgcli - propgraph client demo")

	cfg := DefaultConfig
	if *configPath != "" {
		loaded, err := LoadConfig(*configPath)
		if err != nil {
			fatal(err)
			return
		}
		cfg = loaded
	}

	if err := run(context.Background(), cfg, os.Stdout); err != nil {
		fatal(err)
	}
}

func run(ctx context.Context, cfg Config, out io.Writer) error {
	d := boltstub.New()

	opts := []client.Option{}

	if len(cfg.PartitionLabels) > 0 {
		opts = append(opts, client.WithPartition(partition.AllLabels(cfg.PartitionLabels...)))
	}

	var metrics *pgcount.Recorder
	if cfg.EnableMetrics {
		rec, err := pgcount.NewRecorder(prometheus.DefaultRegisterer)
		if err != nil {
			return fmt.Errorf("pgcli: registering metrics: %w", err)
		}
		metrics = rec
		opts = append(opts, client.WithMetrics(metrics))
	}

	switch cfg.IDStrategy {
	case "sequence":
		vertexIDs := id.NewSequenceProvider(ctx, d, "VertexSeq", cfg.SequencePool, id.WithMetrics(metrics))
		edgeIDs := id.NewSequenceProvider(ctx, d, "EdgeSeq", cfg.SequencePool, id.WithMetrics(metrics))
		opts = append(opts, client.WithVertexIDProvider(vertexIDs), client.WithEdgeIDProvider(edgeIDs))
	case "native":
		// Graph already defaults to native providers.
	}

	g := client.NewGraph(d, opts...)

	if err := seedGraph(ctx, g); err != nil {
		return fmt.Errorf("pgcli: seeding graph: %w", err)
	}

	return printGraph(ctx, g, out)
}

/*
seedGraph runs one transaction that adds two vertices and an edge
between them, then commits.
*/
func seedGraph(ctx context.Context, g *client.Graph) error {
	tx, err := g.Tx(ctx)
	if err != nil {
		return err
	}
	defer tx.Close(ctx)

	alice, err := tx.AddVertex([]string{"Person"}, map[string]driver.Value{
		"name": driver.String("Alice"),
	})
	if err != nil {
		return err
	}

	bob, err := tx.AddVertex([]string{"Person"}, map[string]driver.Value{
		"name": driver.String("Bob"),
	})
	if err != nil {
		return err
	}

	if _, err := tx.AddEdge("KNOWS", alice, bob, map[string]driver.Value{
		"since": driver.Long(2020),
	}); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

/*
printGraph opens a fresh transaction and prints every vertex and the
edges incident to it.
*/
func printGraph(ctx context.Context, g *client.Graph, out io.Writer) error {
	tx, err := g.Tx(ctx)
	if err != nil {
		return err
	}
	defer tx.Close(ctx)

	vertices, err := tx.Vertices(ctx)
	if err != nil {
		return err
	}

	for _, v := range vertices {
		name, _, _ := v.Property("name")
		nameVal, _ := name.AsObject()
		fmt.Fprintf(out, "vertex %s %v name=%v\n", v.ID(), v.Labels(), nameVal)

		edges, err := tx.IncidentEdges(ctx, v, client.Out)
		if err != nil {
			return err
		}
		for _, e := range edges {
			fmt.Fprintf(out, "  -[%s]-> %s\n", e.Label(), e.In().ID())
		}
	}

	return nil
}
