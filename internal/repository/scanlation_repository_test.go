package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/otakupedia/catalog-api/internal/models"
)

func newScanlationRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestScanlationRepositorySearchGroups(t *testing.T) {
	db, mock, cleanup := newScanlationRepoMock(t)
	defer cleanup()

	repo := NewScanlationRepository(db)
	rows := sqlmock.NewRows([]string{"id", "owner_user_id", "name", "website", "discord", "verified", "created_at", "updated_at"}).
		AddRow("group-1", "user-1", "Moonlight Scans", nil, nil, true, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, owner_user_id, name")).
		WithArgs("%moon%").
		WillReturnRows(rows)

	groups, err := repo.SearchGroups(context.Background(), models.EntityFilter{Search: "Moon", Limit: 10})
	require.NoError(t, err)
	require.Len(t, groups, 1)
	require.Equal(t, "Moonlight Scans", groups[0].Name)
	require.True(t, groups[0].Verified)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScanlationRepositoryCreateProjectUniqueViolation(t *testing.T) {
	db, mock, cleanup := newScanlationRepoMock(t)
	defer cleanup()

	repo := NewScanlationRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO scan_projects")).
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.CreateProject(context.Background(), &models.ScanProject{
		UserID:    "user-1",
		GroupID:   "group-1",
		MediaType: models.ContributableManga,
		MediaID:   "media-1",
		Status:    models.ProjectActive,
	})
	require.Error(t, err)
	require.True(t, IsUniqueViolation(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScanlationRepositoryProjectExists(t *testing.T) {
	db, mock, cleanup := newScanlationRepoMock(t)
	defer cleanup()

	repo := NewScanlationRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM scan_projects")).
		WithArgs("user-1", "manga", "media-1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	exists, err := repo.ProjectExists(context.Background(), "user-1", models.ContributableManga, "media-1")
	require.NoError(t, err)
	require.True(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScanlationRepositoryDecideLinkRequestGuarded(t *testing.T) {
	db, mock, cleanup := newScanlationRepoMock(t)
	defer cleanup()

	repo := NewScanlationRepository(db)
	decidedAt := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE link_requests SET status = $2")).
		WithArgs("req-1", models.LinkRequestApproved, "user-1", decidedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE link_requests SET status = $2")).
		WithArgs("req-1", models.LinkRequestApproved, "user-1", decidedAt).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.DecideLinkRequest(context.Background(), "req-1", models.LinkRequestApproved, "user-1", decidedAt)
	require.NoError(t, err)
	require.True(t, ok)

	// Already decided requests fall outside the pending guard.
	ok, err = repo.DecideLinkRequest(context.Background(), "req-1", models.LinkRequestApproved, "user-1", decidedAt)
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}
