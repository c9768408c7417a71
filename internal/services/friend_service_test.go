package services

import (
	"context"
	"testing"

	"github.com/mroshb/filmorate/internal/models"
	"github.com/mroshb/filmorate/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestFriend_MutualConfirmation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.users(t, 1, 2)

	require.NoError(t, f.friends.RequestFriend(ctx, 2, 1))
	status, err := f.friends.Status(ctx, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, models.FriendshipStatusPending, status)

	_, err = f.friends.Status(ctx, 1, 2)
	assert.True(t, errors.IsNotFound(err))

	require.NoError(t, f.friends.RequestFriend(ctx, 1, 2))
	for _, pair := range [][2]uint{{1, 2}, {2, 1}} {
		status, err := f.friends.Status(ctx, pair[0], pair[1])
		require.NoError(t, err)
		assert.Equal(t, models.FriendshipStatusConfirmed, status)
	}
}

func TestRequestFriend_Idempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.users(t, 1, 2)

	require.NoError(t, f.friends.RequestFriend(ctx, 1, 2))
	require.NoError(t, f.friends.RequestFriend(ctx, 1, 2))

	ids, err := f.friends.FriendIDs(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{2}, ids)

	events, err := f.feed.ByUser(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, events, 1, "a repeated request writes no second event")
}

func TestRequestFriend_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.users(t, 1)

	err := f.friends.RequestFriend(ctx, 1, 1)
	assert.True(t, errors.IsInvalidArgument(err))

	err = f.friends.RequestFriend(ctx, 0, 1)
	assert.True(t, errors.IsInvalidArgument(err))

	err = f.friends.RequestFriend(ctx, 1, 5)
	require.True(t, errors.IsNotFound(err))
	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "user", appErr.Entity)
	assert.Equal(t, uint(5), appErr.EntityID)

	events, err := f.feed.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, events, "failed calls leave no feed record")
}

func TestRemoveFriend(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.users(t, 1, 2)

	err := f.friends.RemoveFriend(ctx, 1, 2)
	assert.True(t, errors.IsNotFound(err))

	require.NoError(t, f.friends.RequestFriend(ctx, 1, 2))
	require.NoError(t, f.friends.RequestFriend(ctx, 2, 1))
	require.NoError(t, f.friends.RemoveFriend(ctx, 1, 2))

	friends, err := f.friends.ListFriends(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, friends)

	status, err := f.friends.Status(ctx, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, models.FriendshipStatusConfirmed, status)

	events, err := f.feed.ByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, models.OperationRemove, events[0].Operation)
	assert.Equal(t, models.EventTypeFriend, events[0].EventType)
	assert.Equal(t, uint(2), events[0].EntityID)
}

func TestCommonFriends(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.users(t, 1, 2, 3, 4, 5)

	for _, other := range []uint{5, 3, 4} {
		require.NoError(t, f.friends.RequestFriend(ctx, 1, other))
	}
	for _, other := range []uint{3, 5} {
		require.NoError(t, f.friends.RequestFriend(ctx, 2, other))
	}

	common, err := f.friends.CommonFriends(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, common, 2)
	assert.Equal(t, uint(3), common[0].ID)
	assert.Equal(t, uint(5), common[1].ID)

	_, err = f.friends.CommonFriends(ctx, 1, 9)
	assert.True(t, errors.IsNotFound(err))
}
