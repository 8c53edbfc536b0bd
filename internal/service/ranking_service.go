package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/otakupedia/catalog-api/internal/models"
	appErrors "github.com/otakupedia/catalog-api/pkg/errors"
)

type rankingStore interface {
	Refresh(ctx context.Context) (bool, string, float64, []string, error)
	LastRefreshedAt(ctx context.Context) (time.Time, error)
	RecordRefresh(ctx context.Context, refreshedAt time.Time, refreshType string, durationSeconds float64) error
}

// RankingService rebuilds the ranking materialized views through the
// database-side refresh function.
type RankingService struct {
	repo     rankingStore
	audit    pointLedger
	metrics  *MetricsService
	logger   *zap.Logger
	interval time.Duration
}

// NewRankingService constructs a RankingService. The interval throttles
// scheduled refreshes; manual refreshes ignore it.
func NewRankingService(repo rankingStore, audit pointLedger, metrics *MetricsService, logger *zap.Logger, interval time.Duration) *RankingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = 6 * time.Hour
	}
	return &RankingService{repo: repo, audit: audit, metrics: metrics, logger: logger, interval: interval}
}

// RefreshScheduled runs a refresh unless one completed inside the throttle
// window, in which case it reports when the next one is due.
func (s *RankingService) RefreshScheduled(ctx context.Context) (*models.RankingRefreshResult, error) {
	last, err := s.repo.LastRefreshedAt(ctx)
	if err != nil {
		s.logger.Warn("failed to read last refresh time", zap.Error(err))
	}
	if !last.IsZero() {
		next := last.Add(s.interval)
		if time.Now().UTC().Before(next) {
			return &models.RankingRefreshResult{
				Success:     true,
				Skipped:     true,
				Message:     "refresh skipped: interval not elapsed",
				Timestamp:   time.Now().UTC(),
				NextRefresh: &next,
				Type:        "scheduled",
			}, nil
		}
	}
	return s.refresh(ctx, "scheduled")
}

// RefreshManual runs an unconditional refresh, bypassing the throttle.
func (s *RankingService) RefreshManual(ctx context.Context) (*models.RankingRefreshResult, error) {
	return s.refresh(ctx, "manual")
}

// refresh invokes the database function and measures wall-clock time. On
// database failure the measured duration is still reported alongside the
// error, matching what operators see in the response body.
func (s *RankingService) refresh(ctx context.Context, refreshType string) (*models.RankingRefreshResult, error) {
	start := time.Now().UTC()
	success, message, dbSeconds, views, err := s.repo.Refresh(ctx)
	elapsed := time.Since(start)
	apiSeconds := elapsed.Seconds()
	s.metrics.ObserveDBQuery("refresh_ranking_views", elapsed)

	result := &models.RankingRefreshResult{
		Success:            success,
		Message:            message,
		Timestamp:          time.Now().UTC(),
		DurationSeconds:    dbSeconds,
		APIDurationSeconds: apiSeconds,
		RefreshedViews:     views,
		Type:               refreshType,
	}
	if err != nil {
		result.Success = false
		result.Message = err.Error()
		return result, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "ranking refresh failed")
	}

	if err := s.repo.RecordRefresh(ctx, start, refreshType, dbSeconds); err != nil {
		s.logger.Warn("failed to record ranking refresh", zap.Error(err))
	}
	next := start.Add(s.interval)
	result.NextRefresh = &next

	if s.audit != nil {
		if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
			Action:    models.AuditActionRankingRefresh,
			Resource:  "rankings",
			NewValues: []byte(`{"type":"` + refreshType + `"}`),
			IPAddress: "system",
			UserAgent: "ranking-service",
		}); err != nil {
			s.logger.Warn("failed to record refresh audit log", zap.Error(err))
		}
	}
	return result, nil
}
