package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	appErrors "github.com/otakupedia/catalog-api/pkg/errors"
)

type rankingRepoStub struct {
	last        time.Time
	refreshErr  error
	refreshed   int
	recorded    []string
	views       []string
	lastReadErr error
}

func (m *rankingRepoStub) Refresh(ctx context.Context) (bool, string, float64, []string, error) {
	if m.refreshErr != nil {
		return false, "", 0, nil, m.refreshErr
	}
	m.refreshed++
	return true, "rankings refreshed", 1.5, m.views, nil
}

func (m *rankingRepoStub) LastRefreshedAt(ctx context.Context) (time.Time, error) {
	return m.last, m.lastReadErr
}

func (m *rankingRepoStub) RecordRefresh(ctx context.Context, refreshedAt time.Time, refreshType string, durationSeconds float64) error {
	m.recorded = append(m.recorded, refreshType)
	return nil
}

func TestRankingServiceScheduledSkipsWithinInterval(t *testing.T) {
	repo := &rankingRepoStub{last: time.Now().UTC().Add(-time.Hour)}
	svc := NewRankingService(repo, nil, nil, nil, 6*time.Hour)

	result, err := svc.RefreshScheduled(context.Background())
	require.NoError(t, err)
	require.True(t, result.Skipped)
	require.True(t, result.Success)
	require.Equal(t, "scheduled", result.Type)
	require.NotNil(t, result.NextRefresh)
	require.Zero(t, repo.refreshed)
}

func TestRankingServiceScheduledRunsWhenDue(t *testing.T) {
	repo := &rankingRepoStub{
		last:  time.Now().UTC().Add(-7 * time.Hour),
		views: []string{"anime_rankings", "manga_rankings"},
	}
	svc := NewRankingService(repo, nil, nil, nil, 6*time.Hour)

	result, err := svc.RefreshScheduled(context.Background())
	require.NoError(t, err)
	require.False(t, result.Skipped)
	require.True(t, result.Success)
	require.Equal(t, 1, repo.refreshed)
	require.Equal(t, []string{"scheduled"}, repo.recorded)
	require.Len(t, result.RefreshedViews, 2)
}

func TestRankingServiceManualBypassesThrottle(t *testing.T) {
	repo := &rankingRepoStub{last: time.Now().UTC()}
	svc := NewRankingService(repo, nil, nil, nil, 6*time.Hour)

	result, err := svc.RefreshManual(context.Background())
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, "manual", result.Type)
	require.Equal(t, 1, repo.refreshed)
	require.Equal(t, []string{"manual"}, repo.recorded)
}

func TestRankingServiceRefreshErrorStillReportsDurations(t *testing.T) {
	repo := &rankingRepoStub{refreshErr: errors.New("deadlock detected")}
	svc := NewRankingService(repo, nil, nil, nil, 6*time.Hour)

	result, err := svc.RefreshManual(context.Background())
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, appErrors.ErrInternal.Code, appErr.Code)

	require.NotNil(t, result)
	require.False(t, result.Success)
	require.Equal(t, "deadlock detected", result.Message)
	require.GreaterOrEqual(t, result.APIDurationSeconds, float64(0))
	require.Empty(t, repo.recorded)
}
