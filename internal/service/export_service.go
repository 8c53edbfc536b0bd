package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/otakupedia/catalog-api/internal/models"
	appErrors "github.com/otakupedia/catalog-api/pkg/errors"
	"github.com/otakupedia/catalog-api/pkg/export"
	"github.com/otakupedia/catalog-api/pkg/jobs"
	"github.com/otakupedia/catalog-api/pkg/storage"
)

type moderationActivitySource interface {
	ListDecidedBetween(ctx context.Context, from, to time.Time) ([]models.Contribution, error)
	CountByStatus(ctx context.Context) (map[models.ContributionStatus]int, error)
}

type exportFileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportService renders moderation-activity exports (decided contributions
// over a date window) to CSV or PDF, asynchronously, behind signed download
// URLs. Job state lives in memory; exports are disposable artifacts with a
// short TTL, not durable records.
type ExportService struct {
	contributions moderationActivitySource
	storage       exportFileStorage
	csv           csvRenderer
	pdf           pdfRenderer
	signer        *storage.SignedURLSigner
	audit         pointLedger
	validator     *validator.Validate
	logger        *zap.Logger
	cfg           ExportConfig

	queue *jobs.Queue

	mu      sync.RWMutex
	results map[string]*models.ExportJob
}

// NewExportService constructs an ExportService and its worker queue.
func NewExportService(contributions moderationActivitySource, fileStorage exportFileStorage, signer *storage.SignedURLSigner, audit pointLedger, cfg ExportConfig, validate *validator.Validate, logger *zap.Logger, queueCfg jobs.QueueConfig) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	s := &ExportService{
		contributions: contributions,
		storage:       fileStorage,
		csv:           export.NewCSVExporter(),
		pdf:           export.NewPDFExporter(),
		signer:        signer,
		audit:         audit,
		validator:     validate,
		logger:        logger,
		cfg:           cfg,
		results:       make(map[string]*models.ExportJob),
	}
	if queueCfg.Logger == nil {
		queueCfg.Logger = logger
	}
	s.queue = jobs.NewQueue("exports", s.process, queueCfg)
	return s
}

// Start begins background export workers.
func (s *ExportService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the export workers.
func (s *ExportService) Stop() {
	s.queue.Stop()
}

// Request validates and queues a new export job.
func (s *ExportService) Request(ctx context.Context, req models.ExportRequest, requestedBy string) (*models.ExportJob, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export request")
	}
	from, err := time.Parse("2006-01-02", req.From)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "from must be YYYY-MM-DD")
	}
	to, err := time.Parse("2006-01-02", req.To)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "to must be YYYY-MM-DD")
	}
	// The window is inclusive of the end date.
	to = to.Add(24 * time.Hour)
	if !to.After(from) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "to must not precede from")
	}

	job := &models.ExportJob{
		ID:          uuid.NewString(),
		RequestedBy: requestedBy,
		Format:      req.Format,
		From:        from,
		To:          to,
		Status:      models.ExportQueued,
		CreatedAt:   time.Now().UTC(),
	}
	s.mu.Lock()
	s.results[job.ID] = job
	s.mu.Unlock()

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: "moderation_activity", Payload: job.ID}); err != nil {
		s.setFailed(job.ID, "export queue unavailable")
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue export")
	}

	if s.audit != nil {
		if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
			UserID:     &requestedBy,
			Action:     models.AuditActionExportRequest,
			Resource:   "export",
			ResourceID: &job.ID,
			NewValues:  []byte(fmt.Sprintf(`{"format":%q,"from":%q,"to":%q}`, req.Format, req.From, req.To)),
			IPAddress:  "system",
			UserAgent:  "export-service",
		}); err != nil {
			s.logger.Warn("failed to record export audit log", zap.Error(err))
		}
	}
	return job, nil
}

// Status returns the current state of an export job.
func (s *ExportService) Status(id, requesterID string) (*models.ExportJob, error) {
	s.mu.RLock()
	job, ok := s.results[id]
	s.mu.RUnlock()
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
	}
	if job.RequestedBy != requesterID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "export belongs to another user")
	}
	copied := *job
	return &copied, nil
}

// OpenByToken validates a download token and opens the underlying file.
func (s *ExportService) OpenByToken(token string) (*os.File, error) {
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired download token")
	}
	file, err := s.storage.Open(relPath)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export file no longer available")
	}
	return file, nil
}

// Cleanup removes expired export files.
func (s *ExportService) Cleanup() ([]string, error) {
	return s.storage.CleanupOlderThan(s.cfg.ResultTTL)
}

func (s *ExportService) process(ctx context.Context, job jobs.Job) error {
	id, ok := job.Payload.(string)
	if !ok {
		return nil
	}
	s.mu.Lock()
	record, found := s.results[id]
	if !found {
		s.mu.Unlock()
		return nil
	}
	record.Status = models.ExportProcessing
	format := record.Format
	from, to := record.From, record.To
	s.mu.Unlock()

	dataset, title, err := s.buildDataset(ctx, from, to)
	if err != nil {
		s.setFailed(id, "failed to collect moderation activity")
		return fmt.Errorf("build export dataset: %w", err)
	}

	var payload []byte
	switch format {
	case models.ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
	default:
		err = fmt.Errorf("unsupported format %s", format)
	}
	if err != nil {
		s.setFailed(id, "failed to render export")
		return fmt.Errorf("render export: %w", err)
	}

	filename := fmt.Sprintf("moderation_%s_%s.%s", from.Format("20060102"), time.Now().UTC().Format("20060102_150405"), format)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		s.setFailed(id, "failed to store export file")
		return fmt.Errorf("store export: %w", err)
	}

	token, expiresAt, err := s.signer.Generate(id, relPath)
	if err != nil {
		s.setFailed(id, "failed to sign download link")
		return fmt.Errorf("sign export url: %w", err)
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api"
	}

	now := time.Now().UTC()
	s.mu.Lock()
	record.Status = models.ExportCompleted
	record.FilePath = relPath
	record.DownloadURL = fmt.Sprintf("%s/export/%s", prefix, token)
	record.ExpiresAt = &expiresAt
	record.CompletedAt = &now
	s.mu.Unlock()
	return nil
}

func (s *ExportService) setFailed(id, message string) {
	s.mu.Lock()
	if record, ok := s.results[id]; ok {
		record.Status = models.ExportFailed
		record.Error = message
	}
	s.mu.Unlock()
}

func (s *ExportService) buildDataset(ctx context.Context, from, to time.Time) (export.Dataset, string, error) {
	decided, err := s.contributions.ListDecidedBetween(ctx, from, to)
	if err != nil {
		return export.Dataset{}, "", err
	}
	dataset := export.Dataset{
		Headers: []string{"Contribution ID", "Type", "Target", "Contributor", "Status", "Points", "Reviewed By", "Reviewed At", "Reason"},
	}
	for _, c := range decided {
		reviewedBy := ""
		if c.ReviewedBy != nil {
			reviewedBy = *c.ReviewedBy
		}
		reviewedAt := ""
		if c.ReviewedAt != nil {
			reviewedAt = c.ReviewedAt.UTC().Format(time.RFC3339)
		}
		reason := ""
		if c.RejectionReason != nil {
			reason = *c.RejectionReason
		}
		dataset.Append(c.ID, string(c.ContributionType), string(c.ContributableType),
			c.UserID, string(c.Status), fmt.Sprintf("%d", c.AwardedPoints),
			reviewedBy, reviewedAt, reason)
	}
	title := fmt.Sprintf("Moderation Activity %s to %s", from.Format("2006-01-02"), to.Add(-24*time.Hour).Format("2006-01-02"))
	return dataset, title, nil
}
