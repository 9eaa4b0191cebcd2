// Package index persists resolved resource references in PostgreSQL so they
// can be queried after a run ("which classes use R.string.app_name?").
package index

import (
	"context"
	"fmt"

	"resannotate/internal/annotator"
	"resannotate/internal/worker"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

const tableName = "resource_references"

var columns = []string{"file", "line", "resource_id", "type", "name", "value"}

const schema = `
CREATE TABLE IF NOT EXISTS resource_references (
	file        TEXT    NOT NULL,
	line        INTEGER NOT NULL,
	resource_id BIGINT  NOT NULL,
	type        TEXT    NOT NULL,
	name        TEXT    NOT NULL,
	value       TEXT,
	PRIMARY KEY (file, line)
);
CREATE INDEX IF NOT EXISTS resource_references_resource_idx ON resource_references (resource_id);
`

// Store writes references into the resource_references table.
type Store struct {
	pool      *pgxpool.Pool
	batchSize int
}

// NewStore creates a store. batchSize bounds the number of files replaced
// per transaction.
func NewStore(pool *pgxpool.Pool, batchSize int) *Store {
	return &Store{pool: pool, batchSize: batchSize}
}

// EnsureSchema creates the table and index if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create reference schema: %w", err)
	}
	return nil
}

// Replace swaps the stored references of every file in results for the
// references found in this run.
func (s *Store) Replace(ctx context.Context, results []*annotator.Result) error {
	stored := 0

	for _, batch := range worker.Batch(results, s.batchSize) {
		n, err := s.replaceBatch(ctx, batch)
		if err != nil {
			return err
		}
		stored += n
	}

	log.Info().Int("files", len(results)).Int("references", stored).Msg("Stored resource references")
	return nil
}

func (s *Store) replaceBatch(ctx context.Context, batch []*annotator.Result) (int, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin reference batch: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM resource_references WHERE file = ANY($1)`, filePaths(batch)); err != nil {
		return 0, fmt.Errorf("delete stale references: %w", err)
	}

	rows := referenceRows(batch)
	if len(rows) > 0 {
		if _, err := tx.CopyFrom(ctx, pgx.Identifier{tableName}, columns, pgx.CopyFromRows(rows)); err != nil {
			return 0, fmt.Errorf("copy references: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit reference batch: %w", err)
	}
	return len(rows), nil
}

func filePaths(results []*annotator.Result) []string {
	paths := make([]string, 0, len(results))
	for _, r := range results {
		paths = append(paths, r.Path)
	}
	return paths
}

// referenceRows flattens results into COPY rows matching columns. A missing
// value is stored as NULL.
func referenceRows(results []*annotator.Result) [][]any {
	var rows [][]any
	for _, r := range results {
		for _, ref := range r.References {
			var value any
			if ref.HasValue {
				value = ref.Value
			}
			rows = append(rows, []any{
				ref.File,
				int32(ref.Line),
				int64(ref.ID),
				ref.Type,
				ref.Name,
				value,
			})
		}
	}
	return rows
}
