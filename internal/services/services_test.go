package services

import (
	"context"
	"testing"
	"time"

	"github.com/mroshb/filmorate/internal/models"
	"github.com/mroshb/filmorate/internal/repositories"
	"github.com/mroshb/filmorate/internal/repositories/memory"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store      repositories.Store
	friends    *FriendService
	engagement *EngagementService
	popularity *PopularityService
	recommend  *RecommendationService
	feed       *FeedService
	reviews    *ReviewService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	return &fixture{
		store:      store,
		friends:    NewFriendService(store),
		engagement: NewEngagementService(store),
		popularity: NewPopularityService(store),
		recommend:  NewRecommendationService(store),
		feed:       NewFeedService(store),
		reviews:    NewReviewService(store, 10),
	}
}

func (f *fixture) users(t *testing.T, ids ...uint) {
	t.Helper()
	for _, id := range ids {
		require.NoError(t, f.store.Catalog().SaveUser(context.Background(), &models.User{ID: id, Login: "user"}))
	}
}

func (f *fixture) director(t *testing.T, id uint, name string) models.Director {
	t.Helper()
	d := models.Director{ID: id, Name: name}
	require.NoError(t, f.store.Catalog().SaveDirector(context.Background(), &d))
	return d
}

func (f *fixture) genre(t *testing.T, id uint, name string) models.Genre {
	t.Helper()
	g := models.Genre{ID: id, Name: name}
	require.NoError(t, f.store.Catalog().SaveGenre(context.Background(), &g))
	return g
}

func (f *fixture) film(t *testing.T, id uint, name string, year int, genres []models.Genre, directors ...models.Director) {
	t.Helper()
	film := &models.Film{
		ID:          id,
		Name:        name,
		ReleaseDate: time.Date(year, 6, 1, 0, 0, 0, 0, time.UTC),
		Genres:      genres,
		Directors:   directors,
	}
	require.NoError(t, f.store.Catalog().SaveFilm(context.Background(), film))
}

func (f *fixture) like(t *testing.T, userID uint, filmIDs ...uint) {
	t.Helper()
	for _, filmID := range filmIDs {
		require.NoError(t, f.engagement.AddLike(context.Background(), filmID, userID))
	}
}

func filmIDs(films []models.Film) []uint {
	ids := make([]uint, len(films))
	for i, f := range films {
		ids[i] = f.ID
	}
	return ids
}
