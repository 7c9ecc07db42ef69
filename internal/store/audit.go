package store

import (
	"context"
	"database/sql"

	"cashflow-insight/internal/models"
)

// RecordAnalysisRun persists one completed analysis as an audit row.
func (s *Store) RecordAnalysisRun(ctx context.Context, event *models.AnalysisCompletedEvent) error {
	query := `
		INSERT INTO analysis_runs (run_id, kind, budget, row_count, headline, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (run_id) DO NOTHING`

	budget := sql.NullFloat64{Float64: event.Budget, Valid: event.Budget > 0}
	_, err := s.db.ExecContext(ctx, query,
		event.RunID, event.AnalysisKind, budget, event.RowCount, event.Headline, event.DurationMs)
	return err
}

// RecordDatasetUpload persists one table-upload audit row per uploaded kind.
func (s *Store) RecordDatasetUpload(ctx context.Context, event *models.DatasetUploadedEvent) error {
	query := `
		INSERT INTO dataset_uploads (upload_id, kind, rows)
		VALUES ($1, $2, $3)`

	for _, table := range event.Tables {
		if _, err := s.db.ExecContext(ctx, query, event.UploadID, table.Kind, table.Rows); err != nil {
			return err
		}
	}
	return nil
}

// ListRecentRuns retrieves the most recent analysis runs, newest first.
func (s *Store) ListRecentRuns(ctx context.Context, limit int) ([]models.AnalysisRun, error) {
	var runs []models.AnalysisRun
	err := s.db.SelectContext(ctx, &runs,
		"SELECT * FROM analysis_runs ORDER BY created_at DESC LIMIT $1", limit)
	return runs, err
}

// ListRecentUploads retrieves the most recent upload audit rows, newest first.
func (s *Store) ListRecentUploads(ctx context.Context, limit int) ([]models.DatasetUpload, error) {
	var uploads []models.DatasetUpload
	err := s.db.SelectContext(ctx, &uploads,
		"SELECT * FROM dataset_uploads ORDER BY uploaded_at DESC LIMIT $1", limit)
	return uploads, err
}
