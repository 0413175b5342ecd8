package model

import "time"

type ProcessingStatus string

const (
	StatusPending    ProcessingStatus = "PENDING"
	StatusProcessing ProcessingStatus = "PROCESSING"
	StatusCompleted  ProcessingStatus = "COMPLETED"
	StatusFailed     ProcessingStatus = "FAILED"
)

func (s ProcessingStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

type Document struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	ContentType string    `json:"content_type"`
	IsProcessed bool      `json:"is_processed"`
	CreatedAt   time.Time `json:"created_at"`
}

// IngestionRecord is one snapshot of server-side processing for an uploaded
// document. Progress only moves forward while the status is PROCESSING and is
// clamped to 100 once the document completes.
type IngestionRecord struct {
	DocumentID string           `json:"document_id"`
	Title      string           `json:"title"`
	Status     ProcessingStatus `json:"status"`
	Progress   int              `json:"progress"`
}
