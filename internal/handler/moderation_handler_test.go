package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/otakupedia/catalog-api/internal/middleware"
	"github.com/otakupedia/catalog-api/internal/models"
	"github.com/otakupedia/catalog-api/internal/service"
	appErrors "github.com/otakupedia/catalog-api/pkg/errors"
)

type fakeModerationSrv struct {
	approved     []string
	rejected     []string
	reviewed     []string
	lastReason   string
	approveErr   error
	contribution *models.Contribution
}

func (f *fakeModerationSrv) ListQueue(context.Context, models.ContributionFilter) ([]models.Contribution, int, error) {
	return nil, 0, nil
}

func (f *fakeModerationSrv) Detail(context.Context, string) (*service.ModerationDetail, error) {
	return &service.ModerationDetail{Contribution: f.contribution}, nil
}

func (f *fakeModerationSrv) StartReview(_ context.Context, id, _ string) error {
	f.reviewed = append(f.reviewed, id)
	return nil
}

func (f *fakeModerationSrv) Approve(_ context.Context, id, _ string) (*models.Contribution, error) {
	if f.approveErr != nil {
		return nil, f.approveErr
	}
	f.approved = append(f.approved, id)
	return f.contribution, nil
}

func (f *fakeModerationSrv) Reject(_ context.Context, id, _ string, req models.RejectContributionRequest) (*models.Contribution, error) {
	f.rejected = append(f.rejected, id)
	f.lastReason = req.Reason
	return f.contribution, nil
}

func (f *fakeModerationSrv) QueueCounts(context.Context) (map[models.ContributionStatus]int, error) {
	return map[models.ContributionStatus]int{models.ContributionPending: 2}, nil
}

func decisionContext(t *testing.T, body interface{}) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPatch, "/moderation/contributions/con-1", bytes.NewReader(raw))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "con-1"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "mod-1", Role: models.RoleModerator})
	return rec, c
}

func TestModerationHandlerApprove(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := &fakeModerationSrv{
		contribution: &models.Contribution{ID: "con-1", Status: models.ContributionApproved},
	}
	handler := NewModerationHandler(service)

	rec, c := decisionContext(t, gin.H{"action": "approve"})
	handler.Decide(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"con-1"}, service.approved)
}

func TestModerationHandlerRejectForwardsReason(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := &fakeModerationSrv{
		contribution: &models.Contribution{ID: "con-1", Status: models.ContributionRejected},
	}
	handler := NewModerationHandler(service)

	rec, c := decisionContext(t, gin.H{"action": "reject", "rejection_reason": "no sources"})
	handler.Decide(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no sources", service.lastReason)
}

func TestModerationHandlerUnknownAction(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := &fakeModerationSrv{}
	handler := NewModerationHandler(service)

	rec, c := decisionContext(t, gin.H{"action": "escalate"})
	handler.Decide(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, service.approved)
	assert.Empty(t, service.rejected)
}

func TestModerationHandlerApproveConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := &fakeModerationSrv{
		approveErr: appErrors.Clone(appErrors.ErrAlreadyReviewed, "contribution already decided"),
	}
	handler := NewModerationHandler(service)

	rec, c := decisionContext(t, gin.H{"action": "approve"})
	handler.Decide(c)

	assert.Equal(t, http.StatusConflict, rec.Code)
	var body map[string]interface{}
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	assert.Equal(t, appErrors.ErrAlreadyReviewed.Code, body["code"])
}

func TestModerationHandlerReviewAction(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := &fakeModerationSrv{}
	handler := NewModerationHandler(service)

	rec, c := decisionContext(t, gin.H{"action": "review"})
	handler.Decide(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"con-1"}, service.reviewed)
}
