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

func newReviewRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestReviewRepositoryList(t *testing.T) {
	db, mock, cleanup := newReviewRepoMock(t)
	defer cleanup()

	repo := NewReviewRepository(db)
	rows := sqlmock.NewRows([]string{"id", "user_id", "reviewable_type", "reviewable_id", "content", "overall_score", "helpful_votes", "created_at", "updated_at", "username"}).
		AddRow("review-1", "user-1", "anime", "media-1", "A quiet masterpiece.", 9, 3, time.Now(), time.Now(), "alice")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT r.id, r.user_id")).
		WithArgs(models.ContributableAnime, "media-1").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM reviews")).
		WithArgs(models.ContributableAnime, "media-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	reviews, total, err := repo.List(context.Background(), models.ReviewFilter{
		ReviewableType: models.ContributableAnime,
		ReviewableID:   "media-1",
		Page:           1,
		PageSize:       10,
	})
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	require.Equal(t, 1, total)
	require.Equal(t, "alice", reviews[0].Username)
	require.Equal(t, 3, reviews[0].HelpfulVotes)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepositoryCreateDuplicate(t *testing.T) {
	db, mock, cleanup := newReviewRepoMock(t)
	defer cleanup()

	repo := NewReviewRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO reviews")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO reviews")).
		WillReturnError(&pq.Error{Code: "23505"})

	review := &models.Review{
		UserID:         "user-1",
		ReviewableType: models.ContributableAnime,
		ReviewableID:   "media-1",
		Content:        "A quiet masterpiece.",
		OverallScore:   9,
	}
	require.NoError(t, repo.Create(context.Background(), review))
	require.NotEmpty(t, review.ID)

	// The (user, target) unique constraint surfaces as-is for conflict mapping.
	err := repo.Create(context.Background(), &models.Review{
		UserID:         "user-1",
		ReviewableType: models.ContributableAnime,
		ReviewableID:   "media-1",
		Content:        "Second attempt.",
		OverallScore:   8,
	})
	require.Error(t, err)
	require.True(t, IsUniqueViolation(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepositoryIncrementHelpfulVotes(t *testing.T) {
	db, mock, cleanup := newReviewRepoMock(t)
	defer cleanup()

	repo := NewReviewRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE reviews SET helpful_votes = helpful_votes + 1")).
		WithArgs("review-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.IncrementHelpfulVotes(context.Background(), "review-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
