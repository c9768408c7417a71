package services

import (
	"context"
	"sync"
	"testing"

	"github.com/mroshb/filmorate/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertAlternating checks that a toggle-only history never repeats an
// operation, which is what feed order must show when it follows mutation order.
func assertAlternating(t *testing.T, events []models.FeedEvent) {
	t.Helper()
	repeats := 0
	for i := 1; i < len(events); i++ {
		if events[i].Operation == events[i-1].Operation {
			repeats++
		}
	}
	assert.Zero(t, repeats, "feed has %d consecutive repeated operations out of %d events", repeats, len(events))
}

func TestLikeFeedFollowsMutationOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.users(t, 1)
	f.film(t, 10, "Heat", 1995, nil)

	var wg sync.WaitGroup
	for worker := 0; worker < 8; worker++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				if (worker+i)%2 == 0 {
					assert.NoError(t, f.engagement.AddLike(ctx, 10, 1))
				} else {
					assert.NoError(t, f.engagement.RemoveLike(ctx, 10, 1))
				}
			}
		}(worker)
	}
	wg.Wait()

	events, err := f.feed.All(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, events)
	assert.Equal(t, models.OperationAdd, events[0].Operation)
	assertAlternating(t, events)
}

func TestFriendFeedFollowsMutationOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.users(t, 1, 2)

	var wg sync.WaitGroup
	for worker := 0; worker < 8; worker++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				if (worker+i)%2 == 0 {
					assert.NoError(t, f.friends.RequestFriend(ctx, 1, 2))
				} else {
					// NotFound when the edge is already gone.
					_ = f.friends.RemoveFriend(ctx, 1, 2)
				}
			}
		}(worker)
	}
	wg.Wait()

	events, err := f.feed.ByUser(ctx, 1)
	require.NoError(t, err)
	require.NotEmpty(t, events)
	assert.Equal(t, models.OperationAdd, events[len(events)-1].Operation)
	assertAlternating(t, events)
}
