package models

import "time"

// ExportFormat enumerates supported export file formats.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportStatus tracks the lifecycle of an export job.
type ExportStatus string

const (
	ExportQueued     ExportStatus = "queued"
	ExportProcessing ExportStatus = "processing"
	ExportCompleted  ExportStatus = "completed"
	ExportFailed     ExportStatus = "failed"
)

// ExportRequest asks for a moderation-activity export over a date window.
type ExportRequest struct {
	Format ExportFormat `json:"format" validate:"required,oneof=csv pdf"`
	From   string       `json:"from" validate:"required,datetime=2006-01-02"`
	To     string       `json:"to" validate:"required,datetime=2006-01-02"`
}

// ExportJob is the tracked state of one export, generated asynchronously.
type ExportJob struct {
	ID          string       `json:"id"`
	RequestedBy string       `json:"requested_by"`
	Format      ExportFormat `json:"format"`
	From        time.Time    `json:"from"`
	To          time.Time    `json:"to"`
	Status      ExportStatus `json:"status"`
	FilePath    string       `json:"-"`
	DownloadURL string       `json:"download_url,omitempty"`
	ExpiresAt   *time.Time   `json:"expires_at,omitempty"`
	Error       string       `json:"error,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
}
