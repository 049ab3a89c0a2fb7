package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/artisan-cli/internal/core/domain"
	"github.com/custodia-labs/artisan-cli/internal/core/ports/driven"
)

var _ driven.IngestionHistory = (*historyStore)(nil)

// historyStore keeps one row per batch and one per file outcome, the
// latter keyed by the file's position in the batch.
type historyStore struct {
	db *sql.DB
}

const upsertBatch = `
INSERT INTO ingestion_batches (id, collection, chunk_size, started_at, completed_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	collection   = excluded.collection,
	chunk_size   = excluded.chunk_size,
	started_at   = excluded.started_at,
	completed_at = excluded.completed_at`

const insertOutcome = `
INSERT INTO ingestion_outcomes
	(batch_id, position, file_name, collection, file_type, status, total_documents, error)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

// Record writes batch, replacing an earlier record with the same ID and
// all of its outcomes.
func (h *historyStore) Record(ctx context.Context, batch domain.IngestionBatch) error {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("recording batch %s: %w", batch.ID, err)
	}
	defer func() { _ = tx.Rollback() }()

	var completed sql.NullTime
	if !batch.CompletedAt.IsZero() {
		completed = sql.NullTime{Time: batch.CompletedAt.UTC(), Valid: true}
	}
	if _, err := tx.ExecContext(ctx, upsertBatch,
		batch.ID, batch.Collection, batch.ChunkSize, batch.StartedAt.UTC(), completed); err != nil {
		return fmt.Errorf("recording batch %s: %w", batch.ID, err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM ingestion_outcomes WHERE batch_id = ?", batch.ID); err != nil {
		return fmt.Errorf("replacing outcomes of %s: %w", batch.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, insertOutcome)
	if err != nil {
		return fmt.Errorf("recording outcomes of %s: %w", batch.ID, err)
	}
	defer stmt.Close()

	for pos, o := range batch.Outcomes {
		if _, err := stmt.ExecContext(ctx, batch.ID, pos,
			o.FileName, o.Collection, o.FileType, string(o.Status), o.TotalDocuments, o.Error); err != nil {
			return fmt.Errorf("recording outcome %s: %w", o.FileName, err)
		}
	}
	return tx.Commit()
}

// List returns up to limit batches, newest first, with their outcomes in
// file order. limit <= 0 returns every batch.
func (h *historyStore) List(ctx context.Context, limit int) ([]domain.IngestionBatch, error) {
	if limit <= 0 {
		limit = -1 // SQLite reads a negative LIMIT as none
	}
	batches, err := h.batches(ctx, limit)
	if err != nil || len(batches) == 0 {
		return batches, err
	}

	ids := make([]any, len(batches))
	for i, b := range batches {
		ids[i] = b.ID
	}
	byBatch, err := h.outcomes(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range batches {
		batches[i].Outcomes = byBatch[batches[i].ID]
	}
	return batches, nil
}

func (h *historyStore) batches(ctx context.Context, limit int) ([]domain.IngestionBatch, error) {
	rows, err := h.db.QueryContext(ctx, `
		SELECT id, collection, chunk_size, started_at, completed_at
		FROM ingestion_batches
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing batches: %w", err)
	}
	defer rows.Close()

	out := []domain.IngestionBatch{}
	for rows.Next() {
		var (
			b         domain.IngestionBatch
			started   time.Time
			completed sql.NullTime
		)
		if err := rows.Scan(&b.ID, &b.Collection, &b.ChunkSize, &started, &completed); err != nil {
			return nil, fmt.Errorf("reading batch: %w", err)
		}
		b.StartedAt, b.CompletedAt = started, completed.Time
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing batches: %w", err)
	}
	return out, nil
}

// outcomes loads the outcomes of every batch in ids with one query.
func (h *historyStore) outcomes(ctx context.Context, ids []any) (map[string][]domain.IngestionOutcome, error) {
	marks := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	rows, err := h.db.QueryContext(ctx, `
		SELECT batch_id, file_name, collection, file_type, status, total_documents, error
		FROM ingestion_outcomes
		WHERE batch_id IN (`+marks+`)
		ORDER BY batch_id, position`, ids...)
	if err != nil {
		return nil, fmt.Errorf("listing outcomes: %w", err)
	}
	defer rows.Close()

	byBatch := make(map[string][]domain.IngestionOutcome, len(ids))
	for rows.Next() {
		var (
			batchID string
			o       domain.IngestionOutcome
		)
		if err := rows.Scan(&batchID, &o.FileName, &o.Collection, &o.FileType,
			(*string)(&o.Status), &o.TotalDocuments, &o.Error); err != nil {
			return nil, fmt.Errorf("reading outcome: %w", err)
		}
		byBatch[batchID] = append(byBatch[batchID], o)
	}
	return byBatch, rows.Err()
}
