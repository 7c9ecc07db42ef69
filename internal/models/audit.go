package models

import (
	"database/sql"
	"time"
)

// AnalysisRun is a persisted audit record of one completed analysis.
type AnalysisRun struct {
	ID         int64           `db:"id" json:"id"`
	RunID      string          `db:"run_id" json:"run_id"`
	Kind       string          `db:"kind" json:"kind"`
	Budget     sql.NullFloat64 `db:"budget" json:"budget,omitempty"`
	RowCount   int             `db:"row_count" json:"row_count"`
	Headline   float64         `db:"headline" json:"headline"`
	DurationMs int64           `db:"duration_ms" json:"duration_ms"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}

// DatasetUpload is a persisted audit record of one uploaded table.
type DatasetUpload struct {
	ID         int64     `db:"id" json:"id"`
	UploadID   string    `db:"upload_id" json:"upload_id"`
	Kind       string    `db:"kind" json:"kind"`
	Rows       int       `db:"rows" json:"rows"`
	UploadedAt time.Time `db:"uploaded_at" json:"uploaded_at"`
}
