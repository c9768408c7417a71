package memory

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/mroshb/filmorate/internal/models"
	"github.com/mroshb/filmorate/internal/repositories"
	"github.com/mroshb/filmorate/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, users, films int) *Store {
	t.Helper()
	ctx := context.Background()
	s := NewStore()

	director := &models.Director{Name: "Lana Wachowski"}
	require.NoError(t, s.Catalog().SaveDirector(ctx, director))
	genre := &models.Genre{Name: "Sci-Fi"}
	require.NoError(t, s.Catalog().SaveGenre(ctx, genre))

	for i := 0; i < users; i++ {
		require.NoError(t, s.Catalog().SaveUser(ctx, &models.User{Login: "user", Email: "u@example.com"}))
	}
	for i := 0; i < films; i++ {
		film := &models.Film{
			Name:        "Film",
			ReleaseDate: time.Date(2000+i, 1, 1, 0, 0, 0, 0, time.UTC),
			Genres:      []models.Genre{{ID: genre.ID}},
			Directors:   []models.Director{{ID: director.ID}},
		}
		require.NoError(t, s.Catalog().SaveFilm(ctx, film))
	}
	return s
}

func TestEntities(t *testing.T) {
	ctx := context.Background()
	s := seed(t, 2, 3)

	ok, err := s.Entities().UserExists(ctx, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Entities().FilmExists(ctx, 4)
	require.NoError(t, err)
	assert.False(t, ok)

	films, err := s.Entities().GetFilms(ctx, []uint{3, 1, 3, 99})
	require.NoError(t, err)
	require.Len(t, films, 2)
	assert.Equal(t, uint(1), films[0].ID)
	assert.Equal(t, uint(3), films[1].ID)
	assert.Equal(t, "Lana Wachowski", films[0].Directors[0].Name)
	assert.Equal(t, "Sci-Fi", films[0].Genres[0].Name)

	films, err = s.Entities().ListFilms(ctx, models.FilmFilter{Year: 2001})
	require.NoError(t, err)
	require.Len(t, films, 1)
	assert.Equal(t, uint(2), films[0].ID)
}

func TestLikesIdempotent(t *testing.T) {
	ctx := context.Background()
	s := seed(t, 2, 2)

	added, err := s.Likes().Add(ctx, 1, 1)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = s.Likes().Add(ctx, 1, 1)
	require.NoError(t, err)
	assert.False(t, added)

	removed, err := s.Likes().Remove(ctx, 2, 1)
	require.NoError(t, err)
	assert.False(t, removed)

	counts, err := s.Likes().Counts(ctx, []uint{1, 2})
	require.NoError(t, err)
	assert.Equal(t, map[uint]int{1: 1}, counts)
}

func TestLikesConcurrent(t *testing.T) {
	ctx := context.Background()
	s := seed(t, 20, 1)

	var wg sync.WaitGroup
	for user := uint(1); user <= 20; user++ {
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func(user uint) {
				defer wg.Done()
				_, _ = s.Likes().Add(ctx, 1, user)
			}(user)
		}
	}
	wg.Wait()

	counts, err := s.Likes().Counts(ctx, []uint{1})
	require.NoError(t, err)
	assert.Equal(t, 20, counts[1])

	sets, err := s.Likes().LikeSets(ctx)
	require.NoError(t, err)
	assert.Len(t, sets, 20)
	assert.Equal(t, []uint{1}, sets[7])
}

func TestFriendRequestConfirmation(t *testing.T) {
	ctx := context.Background()
	s := seed(t, 3, 0)

	created, err := s.Friends().Request(ctx, 2, 1)
	require.NoError(t, err)
	assert.True(t, created)

	edge, err := s.Friends().Get(ctx, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, models.FriendshipStatusPending, edge.Status)

	created, err = s.Friends().Request(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, created)

	for _, pair := range [][2]uint{{1, 2}, {2, 1}} {
		edge, err := s.Friends().Get(ctx, pair[0], pair[1])
		require.NoError(t, err)
		assert.Equal(t, models.FriendshipStatusConfirmed, edge.Status)
	}

	created, err = s.Friends().Request(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, created)

	_, err = s.Friends().Request(ctx, 1, 42)
	assert.True(t, errors.IsNotFound(err))

	edge, err = s.Friends().Get(ctx, 1, 3)
	require.NoError(t, err)
	assert.Nil(t, edge)
}

func TestFriendRequestsRace(t *testing.T) {
	ctx := context.Background()

	for round := 0; round < 20; round++ {
		s := seed(t, 2, 0)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() { defer wg.Done(); _, _ = s.Friends().Request(ctx, 1, 2) }()
		go func() { defer wg.Done(); _, _ = s.Friends().Request(ctx, 2, 1) }()
		wg.Wait()

		for _, pair := range [][2]uint{{1, 2}, {2, 1}} {
			edge, err := s.Friends().Get(ctx, pair[0], pair[1])
			require.NoError(t, err)
			require.NotNil(t, edge)
			assert.True(t, edge.IsConfirmed())
		}
	}
}

func TestVoteStateMachine(t *testing.T) {
	ctx := context.Background()
	s := seed(t, 2, 1)

	review := &models.Review{Content: "Solid", IsPositive: true, UserID: 1, FilmID: 1}
	require.NoError(t, s.Reviews().Create(ctx, review))

	steps := []struct {
		name    string
		remove  bool
		value   models.VoteValue
		useful  int
		changed bool
	}{
		{"like", false, models.VoteLike, 1, true},
		{"like again", false, models.VoteLike, 1, false},
		{"flip to dislike", false, models.VoteDislike, -1, true},
		{"remove wrong polarity", true, models.VoteLike, -1, false},
		{"remove dislike", true, models.VoteDislike, 0, true},
		{"remove absent", true, models.VoteDislike, 0, false},
	}

	for _, step := range steps {
		var useful int
		var changed bool
		var err error
		if step.remove {
			useful, changed, err = s.Reviews().RemoveVote(ctx, review.ID, 2, step.value)
		} else {
			useful, changed, err = s.Reviews().Vote(ctx, review.ID, 2, step.value)
		}
		require.NoError(t, err, step.name)
		assert.Equal(t, step.useful, useful, step.name)
		assert.Equal(t, step.changed, changed, step.name)
	}

	_, _, err := s.Reviews().Vote(ctx, 99, 2, models.VoteLike)
	assert.True(t, errors.IsNotFound(err))
}

func TestVoteConservationUnderConcurrency(t *testing.T) {
	ctx := context.Background()
	s := seed(t, 1, 1)

	review := &models.Review{Content: "Mixed", UserID: 1, FilmID: 1}
	require.NoError(t, s.Reviews().Create(ctx, review))

	var wg sync.WaitGroup
	for worker := 0; worker < 8; worker++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for i := 0; i < 200; i++ {
				user := uint(rng.Intn(10) + 1)
				value := models.VoteFromBool(rng.Intn(2) == 0)
				if rng.Intn(3) == 0 {
					_, _, _ = s.Reviews().RemoveVote(ctx, review.ID, user, value)
				} else {
					_, _, _ = s.Reviews().Vote(ctx, review.ID, user, value)
				}
			}
		}(int64(worker))
	}
	wg.Wait()

	votes, err := s.Reviews().Votes(ctx, review.ID)
	require.NoError(t, err)
	useful, err := s.Reviews().Usefulness(ctx, review.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SumVotes(votes), useful)
}

func TestReviewListAndDelete(t *testing.T) {
	ctx := context.Background()
	s := seed(t, 3, 2)

	first := &models.Review{Content: "a", UserID: 1, FilmID: 1}
	second := &models.Review{Content: "b", UserID: 2, FilmID: 1}
	other := &models.Review{Content: "c", UserID: 3, FilmID: 2}
	for _, r := range []*models.Review{first, second, other} {
		require.NoError(t, s.Reviews().Create(ctx, r))
	}
	_, _, err := s.Reviews().Vote(ctx, second.ID, 3, models.VoteLike)
	require.NoError(t, err)

	reviews, err := s.Reviews().List(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, second.ID, reviews[0].ID)
	assert.Equal(t, first.ID, reviews[1].ID)

	reviews, err = s.Reviews().List(ctx, 0, 1)
	require.NoError(t, err)
	assert.Len(t, reviews, 1)

	deleted, err := s.Reviews().Delete(ctx, second.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = s.Reviews().Get(ctx, second.ID)
	assert.True(t, errors.IsNotFound(err))

	votes, err := s.Reviews().Votes(ctx, second.ID)
	require.NoError(t, err)
	assert.Empty(t, votes)
}

func TestFeedOrdering(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	for i := uint(1); i <= 3; i++ {
		event := &models.FeedEvent{UserID: 1, EntityID: i, EventType: models.EventTypeLike, Operation: models.OperationAdd}
		require.NoError(t, s.Feed().Append(ctx, event))
		assert.Equal(t, i, event.ID)
	}
	require.NoError(t, s.Feed().Append(ctx, &models.FeedEvent{UserID: 2, EntityID: 9, EventType: models.EventTypeFriend, Operation: models.OperationAdd}))

	events, err := s.Feed().ByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, []uint{3, 2, 1}, []uint{events[0].EntityID, events[1].EntityID, events[2].EntityID})

	deleted, err := s.Feed().Delete(ctx, 2)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = s.Feed().Delete(ctx, 2)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = s.Feed().Get(ctx, 2)
	assert.True(t, errors.IsNotFound(err))

	all, err := s.Feed().All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestAtomicHoldsLikeKeyUntilReturn(t *testing.T) {
	ctx := context.Background()
	s := seed(t, 1, 1)

	entered := make(chan struct{})
	finish := make(chan struct{})
	done := make(chan struct{})

	go func() {
		_ = s.Atomic(ctx, func(tx repositories.Store) error {
			_, err := tx.Likes().Add(ctx, 1, 1)
			close(entered)
			<-finish
			return err
		})
	}()
	<-entered

	go func() {
		_ = s.Atomic(ctx, func(tx repositories.Store) error {
			_, err := tx.Likes().Remove(ctx, 1, 1)
			return err
		})
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("second mutation on the same key ran inside the first Atomic call")
	case <-time.After(50 * time.Millisecond):
	}

	close(finish)
	<-done

	counts, err := s.Likes().Counts(ctx, []uint{1})
	require.NoError(t, err)
	assert.Empty(t, counts)
	assert.Equal(t, 0, s.txLocks.size())
}
