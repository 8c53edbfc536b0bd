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

type moderationRepoStub struct {
	contributions map[string]*models.Contribution
	users         map[string]*models.UserInfo
	approveDenied bool
}

func newModerationRepoStub() *moderationRepoStub {
	return &moderationRepoStub{
		contributions: make(map[string]*models.Contribution),
		users:         make(map[string]*models.UserInfo),
	}
}

func (m *moderationRepoStub) FindByID(ctx context.Context, id string) (*models.Contribution, error) {
	if c, ok := m.contributions[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (m *moderationRepoStub) FindUserInfo(ctx context.Context, userID string) (*models.UserInfo, error) {
	if u, ok := m.users[userID]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (m *moderationRepoStub) List(ctx context.Context, filter models.ContributionFilter) ([]models.Contribution, int, error) {
	result := make([]models.Contribution, 0, len(m.contributions))
	for _, c := range m.contributions {
		result = append(result, *c)
	}
	return result, len(result), nil
}

func (m *moderationRepoStub) MarkInReview(ctx context.Context, id, reviewerID string) (bool, error) {
	c, ok := m.contributions[id]
	if !ok || c.Status != models.ContributionPending {
		return false, nil
	}
	c.Status = models.ContributionInReview
	return true, nil
}

func (m *moderationRepoStub) Approve(ctx context.Context, id, reviewerID string, points int, reviewedAt time.Time) (bool, error) {
	c, ok := m.contributions[id]
	if m.approveDenied || !ok || (c.Status != models.ContributionPending && c.Status != models.ContributionInReview) {
		return false, nil
	}
	c.Status = models.ContributionApproved
	c.ReviewedBy = &reviewerID
	c.AwardedPoints = points
	return true, nil
}

func (m *moderationRepoStub) Reopen(ctx context.Context, id string) error {
	c, ok := m.contributions[id]
	if !ok || c.Status != models.ContributionApproved {
		return nil
	}
	c.Status = models.ContributionPending
	c.ReviewedBy = nil
	c.AwardedPoints = 0
	return nil
}

func (m *moderationRepoStub) Reject(ctx context.Context, id, reviewerID, reason string, reviewedAt time.Time) (bool, error) {
	c, ok := m.contributions[id]
	if !ok || (c.Status != models.ContributionPending && c.Status != models.ContributionInReview) {
		return false, nil
	}
	c.Status = models.ContributionRejected
	c.RejectionReason = &reason
	return true, nil
}

func (m *moderationRepoStub) CountByStatus(ctx context.Context) (map[models.ContributionStatus]int, error) {
	counts := make(map[models.ContributionStatus]int)
	for _, c := range m.contributions {
		counts[c.Status]++
	}
	return counts, nil
}

type ledgerStub struct {
	points map[string]int
	logs   []*models.AuditLog
}

func newLedgerStub() *ledgerStub {
	return &ledgerStub{points: make(map[string]int)}
}

func (m *ledgerStub) AddContributionPoints(ctx context.Context, userID string, points int) error {
	m.points[userID] += points
	return nil
}

func (m *ledgerStub) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.logs = append(m.logs, log)
	return nil
}

type applierStub struct {
	entityID string
	applied  []string
	err      error
}

func (m *applierStub) Apply(ctx context.Context, c *models.Contribution) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.applied = append(m.applied, c.ID)
	return m.entityID, nil
}

func pendingContribution(id string) *models.Contribution {
	return &models.Contribution{
		ID:                id,
		UserID:            "user-1",
		ContributableType: models.ContributableAnime,
		ContributionType:  models.ContributionFull,
		Status:            models.ContributionPending,
		ContributionData:  []byte(`{"title_romaji":"Example"}`),
	}
}

func newModerationService(repo *moderationRepoStub, ledger *ledgerStub, applier *applierStub, notifier *notifierStub) *ModerationService {
	return NewModerationService(repo, ledger, applier, notifier, ModerationPoints{FullContribution: 10, EditContribution: 5}, nil)
}

func TestModerationServiceApproveAwardsPoints(t *testing.T) {
	repo := newModerationRepoStub()
	repo.contributions["con-1"] = pendingContribution("con-1")
	ledger := newLedgerStub()
	applier := &applierStub{entityID: "media-1"}
	notifier := &notifierStub{}
	svc := newModerationService(repo, ledger, applier, notifier)

	approved, err := svc.Approve(context.Background(), "con-1", "mod-1")
	require.NoError(t, err)
	require.Equal(t, models.ContributionApproved, approved.Status)
	require.Equal(t, 10, approved.AwardedPoints)
	require.NotNil(t, approved.ContributableID)
	require.Equal(t, "media-1", *approved.ContributableID)

	require.Equal(t, 10, ledger.points["user-1"])
	require.Len(t, applier.applied, 1)
	require.Len(t, notifier.sent, 1)
	require.Equal(t, models.NotifyContributionApproved, notifier.sent[0].ActionType)
	require.Equal(t, "user-1", notifier.sent[0].RecipientID)
}

func TestModerationServiceApproveTwiceConflicts(t *testing.T) {
	repo := newModerationRepoStub()
	repo.contributions["con-1"] = pendingContribution("con-1")
	svc := newModerationService(repo, newLedgerStub(), &applierStub{entityID: "media-1"}, &notifierStub{})

	_, err := svc.Approve(context.Background(), "con-1", "mod-1")
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), "con-1", "mod-2")
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, appErrors.ErrAlreadyReviewed.Code, appErr.Code)
}

func TestModerationServiceConcurrentDecisionLeavesCatalogUntouched(t *testing.T) {
	repo := newModerationRepoStub()
	repo.contributions["con-1"] = pendingContribution("con-1")
	// Another moderator decides the row between load and the guarded update.
	repo.approveDenied = true
	ledger := newLedgerStub()
	applier := &applierStub{entityID: "media-1"}
	svc := newModerationService(repo, ledger, applier, &notifierStub{})

	_, err := svc.Approve(context.Background(), "con-1", "mod-1")
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, appErrors.ErrAlreadyReviewed.Code, appErr.Code)

	require.Empty(t, applier.applied)
	require.Empty(t, ledger.points)
}

func TestModerationServiceApplyFailureReopens(t *testing.T) {
	repo := newModerationRepoStub()
	repo.contributions["con-1"] = pendingContribution("con-1")
	ledger := newLedgerStub()
	applier := &applierStub{err: appErrors.Clone(appErrors.ErrInternal, "catalog write failed")}
	svc := newModerationService(repo, ledger, applier, &notifierStub{})

	_, err := svc.Approve(context.Background(), "con-1", "mod-1")
	require.Error(t, err)

	require.Equal(t, models.ContributionPending, repo.contributions["con-1"].Status)
	require.Equal(t, 0, repo.contributions["con-1"].AwardedPoints)
	require.Empty(t, ledger.points)
}

func TestModerationServiceApproveEditAwardsEditPoints(t *testing.T) {
	repo := newModerationRepoStub()
	target := "media-1"
	c := pendingContribution("con-2")
	c.ContributionType = models.ContributionModification
	c.ContributableID = &target
	c.ProposedChanges = []byte(`{"status":{"old":"ongoing","new":"completed"}}`)
	repo.contributions["con-2"] = c
	ledger := newLedgerStub()
	svc := newModerationService(repo, ledger, &applierStub{entityID: target}, &notifierStub{})

	approved, err := svc.Approve(context.Background(), "con-2", "mod-1")
	require.NoError(t, err)
	require.Equal(t, 5, approved.AwardedPoints)
	require.Equal(t, 5, ledger.points["user-1"])
}

func TestModerationServiceRejectRequiresReason(t *testing.T) {
	repo := newModerationRepoStub()
	repo.contributions["con-1"] = pendingContribution("con-1")
	svc := newModerationService(repo, newLedgerStub(), &applierStub{}, &notifierStub{})

	_, err := svc.Reject(context.Background(), "con-1", "mod-1", models.RejectContributionRequest{})
	require.Error(t, err)

	rejected, err := svc.Reject(context.Background(), "con-1", "mod-1", models.RejectContributionRequest{Reason: "unsourced"})
	require.NoError(t, err)
	require.Equal(t, models.ContributionRejected, rejected.Status)
	require.NotNil(t, rejected.RejectionReason)
}

func TestModerationServiceStartReviewOnlyFromPending(t *testing.T) {
	repo := newModerationRepoStub()
	repo.contributions["con-1"] = pendingContribution("con-1")
	svc := newModerationService(repo, newLedgerStub(), &applierStub{}, &notifierStub{})

	require.NoError(t, svc.StartReview(context.Background(), "con-1", "mod-1"))
	err := svc.StartReview(context.Background(), "con-1", "mod-2")
	require.Error(t, err)
}

func TestModerationServiceDetailRendersFields(t *testing.T) {
	repo := newModerationRepoStub()
	c := pendingContribution("con-1")
	c.ContributionData = []byte(`{"title_romaji":"Example","synopsis":"A long enough synopsis describing things.","status":"ongoing"}`)
	repo.contributions["con-1"] = c
	repo.users["user-1"] = &models.UserInfo{ID: "user-1", Username: "alice", Role: models.RoleUser}
	svc := newModerationService(repo, newLedgerStub(), &applierStub{}, &notifierStub{})

	detail, err := svc.Detail(context.Background(), "con-1")
	require.NoError(t, err)
	require.NotNil(t, detail.User)
	require.Equal(t, "alice", detail.User.Username)
	require.NotEmpty(t, detail.Fields)
	// Schema order: title_romaji comes before status.
	require.Equal(t, "title_romaji", detail.Fields[0].Name)
}
