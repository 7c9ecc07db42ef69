package models

import "time"

// Event types
const (
	EventTypeDatasetUploaded   = "DATASET_UPLOADED"
	EventTypeDatasetReset      = "DATASET_RESET"
	EventTypeAnalysisCompleted = "ANALYSIS_COMPLETED"
)

// Analysis kinds carried in events and audit rows
const (
	AnalysisKindSnapshot   = "snapshot"
	AnalysisKindCashEaters = "cash_eaters"
	AnalysisKindReorder    = "reorder_plan"
	AnalysisKindClearance  = "clearance"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// TableRowCount reports how many rows one uploaded table carried.
type TableRowCount struct {
	Kind string `json:"kind"`
	Rows int    `json:"rows"`
}

// DatasetUploadedEvent published when one or more tables are uploaded
type DatasetUploadedEvent struct {
	BaseEvent
	UploadID string          `json:"upload_id"`
	Tables   []TableRowCount `json:"tables"`
}

// DatasetResetEvent published when the current dataset is cleared
type DatasetResetEvent struct {
	BaseEvent
}

// AnalysisCompletedEvent published after an analysis finishes
type AnalysisCompletedEvent struct {
	BaseEvent
	RunID        string  `json:"run_id"`
	AnalysisKind string  `json:"analysis_kind"`
	Budget       float64 `json:"budget,omitempty"`
	RowCount     int     `json:"row_count"`
	Headline     float64 `json:"headline"`
	DurationMs   int64   `json:"duration_ms"`
}
