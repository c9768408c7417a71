package services

import (
	"context"
	"time"

	"github.com/mroshb/filmorate/internal/models"
	"github.com/mroshb/filmorate/internal/repositories"
	"github.com/mroshb/filmorate/pkg/errors"
	"github.com/mroshb/filmorate/pkg/logger"
)

func requireUser(ctx context.Context, entities repositories.EntityStore, id uint) error {
	if err := models.ValidateID("userId", id); err != nil {
		return err
	}
	ok, err := entities.UserExists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return errors.NotFound("user", id)
	}
	return nil
}

func requireFilm(ctx context.Context, entities repositories.EntityStore, id uint) error {
	if err := models.ValidateID("filmId", id); err != nil {
		return err
	}
	ok, err := entities.FilmExists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return errors.NotFound("film", id)
	}
	return nil
}

func requireDirector(ctx context.Context, entities repositories.EntityStore, id uint) error {
	if err := models.ValidateID("directorId", id); err != nil {
		return err
	}
	ok, err := entities.DirectorExists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return errors.NotFound("director", id)
	}
	return nil
}

func appendEvent(ctx context.Context, feed repositories.FeedStore, userID, entityID uint, eventType models.EventType, op models.Operation) (*models.FeedEvent, error) {
	event := &models.FeedEvent{
		UserID:    userID,
		EntityID:  entityID,
		EventType: eventType,
		Operation: op,
		Timestamp: time.Now().UTC(),
	}
	if err := feed.Append(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// fail logs unexpected errors and passes every error through unchanged.
// NotFound and InvalidArgument are the caller's business and stay quiet.
func fail(op string, err error, keysAndValues ...interface{}) error {
	if err != nil && !errors.IsExpected(err) {
		logger.Error("Operation failed", append([]interface{}{"op", op, "error", err}, keysAndValues...)...)
	}
	return err
}

func intersect(a, b []uint) []uint {
	inB := make(map[uint]bool, len(b))
	for _, id := range b {
		inB[id] = true
	}
	out := []uint{}
	for _, id := range a {
		if inB[id] {
			out = append(out, id)
		}
	}
	return out
}
