// Package graph mirrors resolved resource references into Neo4j as
// (:SmaliFile)-[:REFERENCES]->(:Resource) edges.
package graph

import (
	"context"
	"fmt"

	"resannotate/internal/annotator"
	"resannotate/internal/worker"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog/log"
)

// Builder upserts reference edges into the Neo4j graph.
type Builder struct {
	driver    neo4j.DriverWithContext
	batchSize int
}

// NewBuilder creates a new graph builder.
func NewBuilder(driver neo4j.DriverWithContext, batchSize int) *Builder {
	if batchSize < 1 {
		batchSize = 1
	}
	return &Builder{driver: driver, batchSize: batchSize}
}

// EnsureSchema creates constraints on the Neo4j database.
func (b *Builder) EnsureSchema(ctx context.Context) error {
	session := b.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	constraints := []string{
		"CREATE CONSTRAINT IF NOT EXISTS FOR (r:Resource) REQUIRE r.id IS UNIQUE",
		"CREATE CONSTRAINT IF NOT EXISTS FOR (f:SmaliFile) REQUIRE f.path IS UNIQUE",
	}

	for _, c := range constraints {
		if _, err := session.Run(ctx, c, nil); err != nil {
			return fmt.Errorf("create constraint: %w", err)
		}
	}

	log.Info().Msg("Graph schema ensured")
	return nil
}

// UpsertReferences replaces the outgoing REFERENCES edges of every file in
// results with the references found in this run.
func (b *Builder) UpsertReferences(ctx context.Context, results []*annotator.Result) error {
	session := b.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	for _, batch := range worker.Batch(results, b.batchSize) {
		_, err := session.Run(ctx, `
			UNWIND $files AS path
			MERGE (f:SmaliFile {path: path})
			WITH f
			OPTIONAL MATCH (f)-[e:REFERENCES]->(:Resource)
			DELETE e
		`, map[string]any{"files": filePaths(batch)})
		if err != nil {
			return fmt.Errorf("clear file references: %w", err)
		}

		refs := referenceParams(batch)
		if len(refs) == 0 {
			continue
		}

		_, err = session.Run(ctx, `
			UNWIND $refs AS ref
			MATCH (f:SmaliFile {path: ref.file})
			MERGE (r:Resource {id: ref.id})
			SET r.type = ref.type,
			    r.name = ref.name,
			    r.hex = ref.hex
			MERGE (f)-[e:REFERENCES {line: ref.line}]->(r)
		`, map[string]any{"refs": refs})
		if err != nil {
			return fmt.Errorf("upsert references: %w", err)
		}
	}

	log.Info().Int("files", len(results)).Msg("Graph references updated")
	return nil
}

func filePaths(results []*annotator.Result) []string {
	paths := make([]string, 0, len(results))
	for _, r := range results {
		paths = append(paths, r.Path)
	}
	return paths
}

func referenceParams(results []*annotator.Result) []map[string]any {
	var params []map[string]any
	for _, r := range results {
		for _, ref := range r.References {
			params = append(params, map[string]any{
				"file": ref.File,
				"line": int64(ref.Line),
				"id":   int64(ref.ID),
				"hex":  fmt.Sprintf("0x%08x", ref.ID),
				"type": ref.Type,
				"name": ref.Name,
			})
		}
	}
	return params
}
