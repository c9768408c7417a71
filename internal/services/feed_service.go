package services

import (
	"context"

	"github.com/mroshb/filmorate/internal/models"
	"github.com/mroshb/filmorate/internal/repositories"
	"github.com/mroshb/filmorate/pkg/errors"
	"github.com/mroshb/filmorate/pkg/logger"
)

// FeedService reads and administers the activity log. Engagement and
// friend mutations append to it inside their own transactions.
type FeedService struct {
	store repositories.Store
}

func NewFeedService(store repositories.Store) *FeedService {
	return &FeedService{store: store}
}

// Record appends an event directly. It is meant for collaborators whose
// mutations live outside the engine.
func (s *FeedService) Record(ctx context.Context, userID, entityID uint, eventType models.EventType, op models.Operation) (*models.FeedEvent, error) {
	if err := models.ValidateID("userId", userID); err != nil {
		return nil, err
	}
	if err := models.ValidateID("entityId", entityID); err != nil {
		return nil, err
	}
	if _, err := models.ParseEventType(string(eventType)); err != nil {
		return nil, err
	}
	if _, err := models.ParseOperation(string(op)); err != nil {
		return nil, err
	}

	event, err := appendEvent(ctx, s.store.Feed(), userID, entityID, eventType, op)
	if err != nil {
		return nil, fail("record_event", err, "user_id", userID, "entity_id", entityID)
	}
	return event, nil
}

// ByUser returns the user's events most recent first.
func (s *FeedService) ByUser(ctx context.Context, userID uint) ([]models.FeedEvent, error) {
	if err := requireUser(ctx, s.store.Entities(), userID); err != nil {
		return nil, fail("feed", err, "user_id", userID)
	}

	events, err := s.store.Feed().ByUser(ctx, userID)
	if err != nil {
		return nil, fail("feed", err, "user_id", userID)
	}
	return events, nil
}

func (s *FeedService) All(ctx context.Context) ([]models.FeedEvent, error) {
	events, err := s.store.Feed().All(ctx)
	if err != nil {
		return nil, fail("feed_all", err)
	}
	return events, nil
}

// Delete is administrative cleanup only.
func (s *FeedService) Delete(ctx context.Context, eventID uint) error {
	if err := models.ValidateID("eventId", eventID); err != nil {
		return err
	}

	deleted, err := s.store.Feed().Delete(ctx, eventID)
	if err != nil {
		return fail("delete_event", err, "event_id", eventID)
	}
	if !deleted {
		return errors.NotFound("event", eventID)
	}

	logger.Info("Feed event deleted", "event_id", eventID)
	return nil
}
