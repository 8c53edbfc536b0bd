package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/otakupedia/catalog-api/internal/models"
	appErrors "github.com/otakupedia/catalog-api/pkg/errors"
)

type stubRankingService struct {
	scheduled      *models.RankingRefreshResult
	scheduledErr   error
	manual         *models.RankingRefreshResult
	manualErr      error
	scheduledCalls int
	manualCalls    int
}

func (s *stubRankingService) RefreshScheduled(context.Context) (*models.RankingRefreshResult, error) {
	s.scheduledCalls++
	return s.scheduled, s.scheduledErr
}

func (s *stubRankingService) RefreshManual(context.Context) (*models.RankingRefreshResult, error) {
	s.manualCalls++
	return s.manual, s.manualErr
}

func cronRequest(method, token string) (*httptest.ResponseRecorder, *gin.Context) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(method, "/cron/refresh-rankings", nil)
	if token != "" {
		c.Request.Header.Set("Authorization", "Bearer "+token)
	}
	return rec, c
}

func TestCronHandlerMissingSecretConfig(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := &stubRankingService{}
	handler := NewCronHandler(service, "")

	rec, c := cronRequest(http.MethodGet, "anything")
	handler.RefreshScheduled(c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]interface{}
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	assert.Equal(t, appErrors.ErrCronMisconfigured.Code, body["code"])
	assert.Zero(t, service.scheduledCalls)
}

func TestCronHandlerWrongSecret(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := &stubRankingService{}
	handler := NewCronHandler(service, "s3cret")

	rec, c := cronRequest(http.MethodGet, "wrong")
	handler.RefreshScheduled(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, service.scheduledCalls)
}

func TestCronHandlerScheduledSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	next := time.Now().UTC().Add(6 * time.Hour)
	service := &stubRankingService{
		scheduled: &models.RankingRefreshResult{
			Success:         true,
			Message:         "rankings refreshed",
			DurationSeconds: 1.2,
			NextRefresh:     &next,
			Type:            "scheduled",
		},
	}
	handler := NewCronHandler(service, "s3cret")

	rec, c := cronRequest(http.MethodGet, "s3cret")
	handler.RefreshScheduled(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var result models.RankingRefreshResult
	_ = json.Unmarshal(rec.Body.Bytes(), &result)
	assert.True(t, result.Success)
	assert.Equal(t, "scheduled", result.Type)
	assert.Equal(t, 1, service.scheduledCalls)
}

func TestCronHandlerManualBypassesThrottle(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := &stubRankingService{
		manual: &models.RankingRefreshResult{Success: true, Type: "manual"},
	}
	handler := NewCronHandler(service, "s3cret")

	rec, c := cronRequest(http.MethodPost, "s3cret")
	handler.RefreshManual(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, service.manualCalls)
	assert.Zero(t, service.scheduledCalls)
}

func TestCronHandlerRefreshFailureReportsDurations(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := &stubRankingService{
		scheduled: &models.RankingRefreshResult{
			Success:            false,
			Message:            "deadlock detected",
			APIDurationSeconds: 0.4,
		},
		scheduledErr: errors.New("refresh failed"),
	}
	handler := NewCronHandler(service, "s3cret")

	rec, c := cronRequest(http.MethodGet, "s3cret")
	handler.RefreshScheduled(c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var result models.RankingRefreshResult
	_ = json.Unmarshal(rec.Body.Bytes(), &result)
	assert.False(t, result.Success)
	assert.Equal(t, "deadlock detected", result.Message)
}
