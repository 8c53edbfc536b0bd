package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/otakupedia/catalog-api/internal/models"
)

type mediaApplierStub struct {
	detail  *models.MediaDetail
	created *models.MediaEntity
	updated *models.MediaEntity
	genres  []string
	studios []string
}

func (m *mediaApplierStub) FindDetail(ctx context.Context, id string) (*models.MediaDetail, error) {
	return m.detail, nil
}

func (m *mediaApplierStub) Create(ctx context.Context, media *models.MediaEntity) error {
	m.created = media
	return nil
}

func (m *mediaApplierStub) Update(ctx context.Context, media *models.MediaEntity) error {
	m.updated = media
	return nil
}

func (m *mediaApplierStub) ReplaceGenres(ctx context.Context, mediaID string, genreIDs []string) error {
	m.genres = genreIDs
	return nil
}

func (m *mediaApplierStub) ReplaceStudios(ctx context.Context, mediaID string, studioIDs []string) error {
	m.studios = studioIDs
	return nil
}

func (m *mediaApplierStub) ReplaceStaff(ctx context.Context, mediaID string, credits []models.StaffCredit) error {
	return nil
}

func (m *mediaApplierStub) ReplaceCharacters(ctx context.Context, mediaID string, credits []models.CharacterCredit) error {
	return nil
}

func (m *mediaApplierStub) ReplaceExternalLinks(ctx context.Context, mediaID string, links []models.ExternalLink) error {
	return nil
}

func TestContributionApplierKeepsNumericGenreIDs(t *testing.T) {
	media := &mediaApplierStub{}
	applier := NewContributionApplier(media, nil, nil, nil, nil, nil, nil)

	contribution := &models.Contribution{
		ID:                "con-1",
		ContributableType: models.ContributableAnime,
		ContributionType:  models.ContributionFull,
		Status:            models.ContributionInReview,
		ContributionData:  []byte(`{"title_romaji":"Frieren","synopsis":"A journey after the journey.","type":"TV","status":"ongoing","genre_ids":[1,"g2"]}`),
	}

	entityID, err := applier.Apply(context.Background(), contribution)
	require.NoError(t, err)
	require.NotEmpty(t, entityID)

	require.NotNil(t, media.created)
	require.Equal(t, "Frieren", media.created.TitleRomaji)
	// Numeric ids survive approval as their string form, mixed lists included.
	require.Equal(t, []string{"1", "g2"}, media.genres)
}

func TestContributionApplierParsesDates(t *testing.T) {
	media := &mediaApplierStub{}
	applier := NewContributionApplier(media, nil, nil, nil, nil, nil, nil)

	contribution := &models.Contribution{
		ID:                "con-2",
		ContributableType: models.ContributableAnime,
		ContributionType:  models.ContributionFull,
		Status:            models.ContributionInReview,
		ContributionData:  []byte(`{"title_romaji":"Frieren","synopsis":"A journey after the journey.","type":"TV","status":"ongoing","genre_ids":["g1"],"start_date":"2023-09-29","end_date":"bad-date"}`),
	}

	_, err := applier.Apply(context.Background(), contribution)
	require.NoError(t, err)

	require.NotNil(t, media.created)
	require.NotNil(t, media.created.StartDate)
	require.Equal(t, time.Date(2023, 9, 29, 0, 0, 0, 0, time.UTC), *media.created.StartDate)
	// An unparseable date is dropped rather than failing the approval.
	require.Nil(t, media.created.EndDate)
}
