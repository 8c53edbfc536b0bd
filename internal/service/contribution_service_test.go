package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/otakupedia/catalog-api/internal/models"
	appErrors "github.com/otakupedia/catalog-api/pkg/errors"
)

type contributionRepoStub struct {
	contributions map[string]*models.Contribution
	filter        models.ContributionFilter
}

func newContributionRepoStub() *contributionRepoStub {
	return &contributionRepoStub{contributions: make(map[string]*models.Contribution)}
}

func (m *contributionRepoStub) Create(ctx context.Context, c *models.Contribution) error {
	if c.ID == "" {
		c.ID = "con-" + c.UserID
	}
	if c.Status == "" {
		c.Status = models.ContributionPending
	}
	m.contributions[c.ID] = c
	return nil
}

func (m *contributionRepoStub) FindByID(ctx context.Context, id string) (*models.Contribution, error) {
	if c, ok := m.contributions[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (m *contributionRepoStub) List(ctx context.Context, filter models.ContributionFilter) ([]models.Contribution, int, error) {
	m.filter = filter
	result := make([]models.Contribution, 0, len(m.contributions))
	for _, c := range m.contributions {
		result = append(result, *c)
	}
	return result, len(result), nil
}

type moderatorDirectoryStub struct {
	ids []string
}

func (m *moderatorDirectoryStub) ListModeratorIDs(ctx context.Context) ([]string, error) {
	return m.ids, nil
}

type snapshotterStub struct {
	payload map[string]interface{}
	err     error
}

func (m *snapshotterStub) Snapshot(ctx context.Context, t models.ContributableType, id string) (map[string]interface{}, error) {
	return m.payload, m.err
}

type notifierStub struct {
	sent []models.Notification
}

func (m *notifierStub) Notify(ctx context.Context, n models.Notification) {
	m.sent = append(m.sent, n)
}

func (m *notifierStub) NotifyAll(ctx context.Context, recipients []string, template models.Notification) {
	for _, r := range recipients {
		n := template
		n.RecipientID = r
		m.sent = append(m.sent, n)
	}
}

func animeSubmission() models.SubmitContributionRequest {
	return models.SubmitContributionRequest{
		ContributableType: models.ContributableAnime,
		ContributionType:  models.ContributionFull,
		Data: map[string]interface{}{
			"title_romaji": "Example Title",
			"synopsis":     "A long enough synopsis describing the plot in detail.",
			"status":       "ongoing",
			"type":         "TV",
			"genre_ids":    []interface{}{"genre-1"},
		},
	}
}

func TestContributionServiceSubmitFull(t *testing.T) {
	repo := newContributionRepoStub()
	notifier := &notifierStub{}
	svc := NewContributionService(repo, &moderatorDirectoryStub{ids: []string{"mod-1", "mod-2"}}, &snapshotterStub{}, notifier, nil, nil)

	contribution, err := svc.Submit(context.Background(), animeSubmission(), "user-1")
	require.NoError(t, err)
	require.Equal(t, models.ContributionPending, contribution.Status)
	require.Nil(t, contribution.ContributableID)
	require.NotEmpty(t, contribution.ContributionData)

	// Both moderators got the submission notification.
	require.Len(t, notifier.sent, 2)
	require.Equal(t, models.NotifyContributionSubmitted, notifier.sent[0].ActionType)
}

func TestContributionServiceSubmitRejectsInvalidPayload(t *testing.T) {
	svc := NewContributionService(newContributionRepoStub(), &moderatorDirectoryStub{}, &snapshotterStub{}, &notifierStub{}, nil, nil)

	req := animeSubmission()
	req.Data["synopsis"] = "too short"
	_, err := svc.Submit(context.Background(), req, "user-1")
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestContributionServiceSubmitEditRequiresTarget(t *testing.T) {
	svc := NewContributionService(newContributionRepoStub(), &moderatorDirectoryStub{}, &snapshotterStub{}, &notifierStub{}, nil, nil)

	req := animeSubmission()
	req.ContributionType = models.ContributionModification
	_, err := svc.Submit(context.Background(), req, "user-1")
	require.Error(t, err)
}

func TestContributionServiceSubmitEditComputesDiff(t *testing.T) {
	repo := newContributionRepoStub()
	snapshot := &snapshotterStub{payload: map[string]interface{}{
		"title_romaji": "Example Title",
		"synopsis":     "A long enough synopsis describing the plot in detail.",
		"status":       "ongoing",
		"type":         "TV",
		"genre_ids":    []interface{}{"genre-1"},
	}}
	svc := NewContributionService(repo, &moderatorDirectoryStub{}, snapshot, &notifierStub{}, nil, nil)

	target := "media-1"
	req := animeSubmission()
	req.ContributionType = models.ContributionModification
	req.ContributableID = &target
	req.Data["status"] = "completed"

	contribution, err := svc.Submit(context.Background(), req, "user-1")
	require.NoError(t, err)

	changes, err := contribution.DecodeChanges()
	require.NoError(t, err)
	require.Len(t, changes, 1)
	require.Equal(t, "ongoing", changes["status"].Old)
	require.Equal(t, "completed", changes["status"].New)
}

func TestContributionServiceSubmitEditNoChanges(t *testing.T) {
	snapshot := &snapshotterStub{payload: map[string]interface{}{
		"title_romaji": "Example Title",
		"synopsis":     "A long enough synopsis describing the plot in detail.",
		"status":       "ongoing",
		"type":         "TV",
		"genre_ids":    []interface{}{"genre-1"},
	}}
	svc := NewContributionService(newContributionRepoStub(), &moderatorDirectoryStub{}, snapshot, &notifierStub{}, nil, nil)

	target := "media-1"
	req := animeSubmission()
	req.ContributionType = models.ContributionAddInfo
	req.ContributableID = &target

	_, err := svc.Submit(context.Background(), req, "user-1")
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, appErrors.ErrNoChanges.Code, appErr.Code)
}

func TestContributionServiceGetScope(t *testing.T) {
	repo := newContributionRepoStub()
	svc := NewContributionService(repo, &moderatorDirectoryStub{}, &snapshotterStub{}, &notifierStub{}, nil, nil)

	created, err := svc.Submit(context.Background(), animeSubmission(), "user-1")
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), created.ID, &models.JWTClaims{UserID: "user-2", Role: models.RoleUser})
	require.ErrorIs(t, err, appErrors.ErrForbidden)

	got, err := svc.Get(context.Background(), created.ID, &models.JWTClaims{UserID: "user-2", Role: models.RoleModerator})
	require.NoError(t, err)
	require.Equal(t, created.ID, got.ID)
}
