package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/otakupedia/catalog-api/internal/models"
	appErrors "github.com/otakupedia/catalog-api/pkg/errors"
)

type scanlationRepoStub struct {
	groups       map[string]*models.ScanlationGroup
	linkRequests []*models.LinkRequest
}

func newScanlationRepoStub() *scanlationRepoStub {
	return &scanlationRepoStub{groups: make(map[string]*models.ScanlationGroup)}
}

func (m *scanlationRepoStub) SearchGroups(ctx context.Context, filter models.EntityFilter) ([]models.ScanlationGroup, error) {
	return nil, nil
}

func (m *scanlationRepoStub) FindGroupByID(ctx context.Context, id string) (*models.ScanlationGroup, error) {
	if g, ok := m.groups[id]; ok {
		return g, nil
	}
	return nil, sql.ErrNoRows
}

func (m *scanlationRepoStub) CreateGroup(ctx context.Context, group *models.ScanlationGroup) error {
	return nil
}

func (m *scanlationRepoStub) ListProjects(ctx context.Context, userID string, mediaType models.ContributableType, mediaID string) ([]models.ScanProject, error) {
	return nil, nil
}

func (m *scanlationRepoStub) FindProjectByID(ctx context.Context, id string) (*models.ScanProject, error) {
	return nil, sql.ErrNoRows
}

func (m *scanlationRepoStub) ProjectExists(ctx context.Context, userID string, mediaType models.ContributableType, mediaID string) (bool, error) {
	return false, nil
}

func (m *scanlationRepoStub) CreateProject(ctx context.Context, project *models.ScanProject) error {
	return nil
}

func (m *scanlationRepoStub) UpdateProject(ctx context.Context, project *models.ScanProject) error {
	return nil
}

func (m *scanlationRepoStub) DeleteProject(ctx context.Context, id string) error {
	return nil
}

func (m *scanlationRepoStub) ListLinkRequests(ctx context.Context, ownerUserID string, status models.LinkRequestStatus) ([]models.LinkRequest, error) {
	return nil, nil
}

func (m *scanlationRepoStub) FindLinkRequestByID(ctx context.Context, id string) (*models.LinkRequest, error) {
	return nil, sql.ErrNoRows
}

func (m *scanlationRepoStub) CreateLinkRequest(ctx context.Context, request *models.LinkRequest) error {
	request.ID = "req-1"
	m.linkRequests = append(m.linkRequests, request)
	return nil
}

func (m *scanlationRepoStub) DecideLinkRequest(ctx context.Context, id string, status models.LinkRequestStatus, deciderID string, decidedAt time.Time) (bool, error) {
	return false, nil
}

func TestScanlationServiceLinkRequestNotifiesOwner(t *testing.T) {
	repo := newScanlationRepoStub()
	repo.groups["grp-1"] = &models.ScanlationGroup{ID: "grp-1", OwnerUserID: "owner-1", Name: "Moonlight Scans"}
	notifier := &notifierStub{}
	svc := NewScanlationService(repo, nil, notifier, nil, nil)

	req := models.CreateLinkRequestRequest{GroupID: "grp-1", MediaType: models.ContributableManga, MediaID: "media-1"}
	created, err := svc.CreateLinkRequest(context.Background(), req, "user-2")
	require.NoError(t, err)
	require.Equal(t, models.LinkRequestPending, created.Status)
	require.Equal(t, "Moonlight Scans", created.GroupName)

	require.Len(t, notifier.sent, 1)
	require.Equal(t, "owner-1", notifier.sent[0].RecipientID)
}

func TestScanlationServiceOwnerCannotFileLinkRequest(t *testing.T) {
	repo := newScanlationRepoStub()
	repo.groups["grp-1"] = &models.ScanlationGroup{ID: "grp-1", OwnerUserID: "owner-1", Name: "Moonlight Scans"}
	svc := NewScanlationService(repo, nil, &notifierStub{}, nil, nil)

	req := models.CreateLinkRequestRequest{GroupID: "grp-1", MediaType: models.ContributableManga, MediaID: "media-1"}
	_, err := svc.CreateLinkRequest(context.Background(), req, "owner-1")

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	require.Empty(t, repo.linkRequests)
}
