package services

import (
	"context"
	"testing"

	"github.com/mroshb/filmorate/internal/models"
	"github.com/mroshb/filmorate/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.users(t, 1, 2)
	f.film(t, 10, "Heat", 1995, nil)

	review, err := f.reviews.Create(ctx, "<p>Great <b>shootout</b></p>", true, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, "Great shootout", review.Content)
	assert.Equal(t, 0, review.Useful)

	updated, err := f.reviews.Update(ctx, review.ID, "Overlong", false)
	require.NoError(t, err)
	assert.Equal(t, "Overlong", updated.Content)
	assert.False(t, updated.IsPositive)
	assert.Equal(t, uint(1), updated.UserID)

	require.NoError(t, f.reviews.Delete(ctx, review.ID))
	_, err = f.reviews.Get(ctx, review.ID)
	assert.True(t, errors.IsNotFound(err))

	events, err := f.feed.ByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, events, 3)
	ops := []models.Operation{events[0].Operation, events[1].Operation, events[2].Operation}
	assert.Equal(t, []models.Operation{models.OperationRemove, models.OperationUpdate, models.OperationAdd}, ops)
	for _, e := range events {
		assert.Equal(t, models.EventTypeReview, e.EventType)
		assert.Equal(t, review.ID, e.EntityID)
	}
}

func TestReviewValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.users(t, 1)
	f.film(t, 10, "Heat", 1995, nil)

	_, err := f.reviews.Create(ctx, "  <br>  ", true, 1, 10)
	assert.True(t, errors.IsInvalidArgument(err))

	_, err = f.reviews.Create(ctx, "fine", true, 1, 11)
	assert.True(t, errors.IsNotFound(err))

	_, err = f.reviews.Update(ctx, 42, "fine", true)
	assert.True(t, errors.IsNotFound(err))

	err = f.reviews.Delete(ctx, 42)
	assert.True(t, errors.IsNotFound(err))

	events, err := f.feed.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestReviewList(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.users(t, 1, 2, 3)
	f.film(t, 10, "Heat", 1995, nil)
	f.film(t, 11, "Ronin", 1998, nil)

	a, err := f.reviews.Create(ctx, "a", true, 1, 10)
	require.NoError(t, err)
	b, err := f.reviews.Create(ctx, "b", true, 2, 10)
	require.NoError(t, err)
	c, err := f.reviews.Create(ctx, "c", false, 3, 11)
	require.NoError(t, err)

	_, err = f.engagement.Vote(ctx, b.ID, 3, true)
	require.NoError(t, err)
	_, err = f.engagement.Vote(ctx, a.ID, 3, false)
	require.NoError(t, err)

	reviews, err := f.reviews.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, b.ID, reviews[0].ID)
	assert.Equal(t, a.ID, reviews[1].ID)

	reviews, err = f.reviews.List(ctx, 0, 2)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, b.ID, reviews[0].ID)
	assert.Equal(t, c.ID, reviews[1].ID)
}
