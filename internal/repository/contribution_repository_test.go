package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/otakupedia/catalog-api/internal/models"
)

func newContributionRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func contributionRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "contributable_type", "contributable_id", "contribution_type",
		"status", "contribution_data", "proposed_changes", "contribution_notes", "sources",
		"rejection_reason", "awarded_points", "reviewed_by", "reviewed_at", "created_at",
	})
}

func TestContributionRepositoryCreateAndFind(t *testing.T) {
	db, mock, cleanup := newContributionRepoMock(t)
	defer cleanup()

	repo := NewContributionRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO contributions")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	contribution := &models.Contribution{
		UserID:            "user-1",
		ContributableType: models.ContributableAnime,
		ContributionType:  models.ContributionFull,
		ContributionData:  []byte(`{"title_romaji":"Sousou no Frieren"}`),
	}
	require.NoError(t, repo.Create(context.Background(), contribution))
	require.NotEmpty(t, contribution.ID)
	require.Equal(t, models.ContributionPending, contribution.Status)

	rows := contributionRows().
		AddRow(contribution.ID, "user-1", "anime", nil, "full", "pending",
			[]byte(`{"title_romaji":"Sousou no Frieren"}`), nil, nil, nil, nil, 0, nil, nil, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, contributable_type")).
		WithArgs(contribution.ID).
		WillReturnRows(rows)

	found, err := repo.FindByID(context.Background(), contribution.ID)
	require.NoError(t, err)
	require.Equal(t, contribution.ID, found.ID)
	require.Equal(t, models.ContributableAnime, found.ContributableType)

	// Full contributions carry no diff; the NULL column must read back as
	// an absent document, not a scan error.
	require.Empty(t, found.ProposedChanges)
	changes, err := found.DecodeChanges()
	require.NoError(t, err)
	require.Nil(t, changes)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContributionRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newContributionRepoMock(t)
	defer cleanup()

	repo := NewContributionRepository(db)
	rows := contributionRows().
		AddRow("contrib-1", "user-1", "anime", nil, "full", "pending",
			[]byte(`{}`), nil, nil, nil, nil, 0, nil, nil, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, contributable_type")).
		WithArgs("pending", "anime").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs("pending", "anime").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	status := models.ContributionPending
	kind := models.ContributableAnime
	list, total, err := repo.List(context.Background(), models.ContributionFilter{
		Status:            &status,
		ContributableType: &kind,
		Page:              1,
		PageSize:          20,
	})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, 1, total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContributionRepositoryMarkInReview(t *testing.T) {
	db, mock, cleanup := newContributionRepoMock(t)
	defer cleanup()

	repo := NewContributionRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE contributions SET status = 'in_review'")).
		WithArgs("contrib-1", "mod-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.MarkInReview(context.Background(), "contrib-1", "mod-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContributionRepositoryApproveIdempotent(t *testing.T) {
	db, mock, cleanup := newContributionRepoMock(t)
	defer cleanup()

	repo := NewContributionRepository(db)
	reviewedAt := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE contributions SET status = 'approved'")).
		WithArgs("contrib-1", "mod-1", 10, reviewedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE contributions SET status = 'approved'")).
		WithArgs("contrib-1", "mod-1", 10, reviewedAt).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.Approve(context.Background(), "contrib-1", "mod-1", 10, reviewedAt)
	require.NoError(t, err)
	require.True(t, ok)

	// The status guard makes the second decision a no-op.
	ok, err = repo.Approve(context.Background(), "contrib-1", "mod-1", 10, reviewedAt)
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContributionRepositoryReopen(t *testing.T) {
	db, mock, cleanup := newContributionRepoMock(t)
	defer cleanup()

	repo := NewContributionRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE contributions SET status = 'pending'")).
		WithArgs("contrib-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Reopen(context.Background(), "contrib-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContributionRepositoryRejectGuarded(t *testing.T) {
	db, mock, cleanup := newContributionRepoMock(t)
	defer cleanup()

	repo := NewContributionRepository(db)
	reviewedAt := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE contributions SET status = 'rejected'")).
		WithArgs("contrib-9", "mod-1", "no sources provided", reviewedAt).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.Reject(context.Background(), "contrib-9", "mod-1", "no sources provided", reviewedAt)
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContributionRepositoryCountByStatus(t *testing.T) {
	db, mock, cleanup := newContributionRepoMock(t)
	defer cleanup()

	repo := NewContributionRepository(db)
	rows := sqlmock.NewRows([]string{"status", "total"}).
		AddRow("pending", 4).
		AddRow("approved", 12)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT status, COUNT(*) AS total FROM contributions")).
		WillReturnRows(rows)

	counts, err := repo.CountByStatus(context.Background())
	require.NoError(t, err)
	require.Equal(t, 4, counts[models.ContributionPending])
	require.Equal(t, 12, counts[models.ContributionApproved])
	require.NoError(t, mock.ExpectationsWereMet())
}
