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
)

type fakeContributionSrv struct {
	submitted    *models.SubmitContributionRequest
	submitUserID string
	result       *models.Contribution
	err          error
}

func (f *fakeContributionSrv) Submit(_ context.Context, req models.SubmitContributionRequest, userID string) (*models.Contribution, error) {
	f.submitted = &req
	f.submitUserID = userID
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeContributionSrv) ListMine(context.Context, string, models.ContributionFilter) ([]models.Contribution, int, error) {
	return nil, 0, nil
}

func (f *fakeContributionSrv) Get(context.Context, string, *models.JWTClaims) (*models.Contribution, error) {
	return f.result, f.err
}

func submissionContext(t *testing.T, body interface{}, claims *models.JWTClaims) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/user/contributions", bytes.NewReader(raw))
	c.Request.Header.Set("Content-Type", "application/json")
	if claims != nil {
		c.Set(middleware.ContextUserKey, claims)
	}
	return rec, c
}

func TestContributionHandlerSubmitRequiresAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewContributionHandler(&fakeContributionSrv{})

	rec, c := submissionContext(t, gin.H{}, nil)
	handler.SubmitNew(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestContributionHandlerSubmitNewRejectsEditTypes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := &fakeContributionSrv{}
	handler := NewContributionHandler(service)

	rec, c := submissionContext(t, gin.H{
		"contributable_type": "anime",
		"contribution_type":  "modification",
		"data":               gin.H{"title_romaji": "Example"},
	}, &models.JWTClaims{UserID: "user-1", Role: models.RoleUser})
	handler.SubmitNew(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, service.submitted)
}

func TestContributionHandlerSubmitNewPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := &fakeContributionSrv{
		result: &models.Contribution{ID: "con-1", Status: models.ContributionPending},
	}
	handler := NewContributionHandler(service)

	rec, c := submissionContext(t, gin.H{
		"contributable_type": "anime",
		"contribution_type":  "full",
		"data":               gin.H{"title_romaji": "Example"},
	}, &models.JWTClaims{UserID: "user-1", Role: models.RoleUser})
	handler.SubmitNew(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "user-1", service.submitUserID)
	assert.Equal(t, models.ContributionFull, service.submitted.ContributionType)

	var body map[string]interface{}
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	assert.Equal(t, true, body["success"])
}

func TestContributionHandlerSubmitEditRejectsFullTypes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := &fakeContributionSrv{}
	handler := NewContributionHandler(service)

	rec, c := submissionContext(t, gin.H{
		"contributable_type": "anime",
		"contribution_type":  "full",
		"data":               gin.H{"title_romaji": "Example"},
	}, &models.JWTClaims{UserID: "user-1", Role: models.RoleUser})
	handler.SubmitEdit(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, service.submitted)
}
