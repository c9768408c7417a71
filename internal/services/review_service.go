package services

import (
	"context"

	"github.com/mroshb/filmorate/internal/models"
	"github.com/mroshb/filmorate/internal/repositories"
	"github.com/mroshb/filmorate/internal/security"
	"github.com/mroshb/filmorate/pkg/errors"
	"github.com/mroshb/filmorate/pkg/logger"
)

// ReviewService manages review records. Usefulness is owned by the vote
// ledger and is never written here.
type ReviewService struct {
	store        repositories.Store
	defaultLimit int
}

func NewReviewService(store repositories.Store, defaultLimit int) *ReviewService {
	if defaultLimit <= 0 {
		defaultLimit = 10
	}
	return &ReviewService{store: store, defaultLimit: defaultLimit}
}

func (s *ReviewService) Create(ctx context.Context, content string, isPositive bool, userID, filmID uint) (*models.Review, error) {
	content = security.SanitizeReviewContent(content)
	if content == "" {
		return nil, errors.InvalidArgument("review content must not be empty")
	}
	if err := requireUser(ctx, s.store.Entities(), userID); err != nil {
		return nil, fail("create_review", err, "user_id", userID)
	}
	if err := requireFilm(ctx, s.store.Entities(), filmID); err != nil {
		return nil, fail("create_review", err, "film_id", filmID)
	}

	review := &models.Review{
		Content:    content,
		IsPositive: isPositive,
		UserID:     userID,
		FilmID:     filmID,
	}
	err := s.store.Atomic(ctx, func(tx repositories.Store) error {
		if err := tx.Reviews().Create(ctx, review); err != nil {
			return err
		}
		_, err := appendEvent(ctx, tx.Feed(), userID, review.ID, models.EventTypeReview, models.OperationAdd)
		return err
	})
	if err != nil {
		return nil, fail("create_review", err, "user_id", userID, "film_id", filmID)
	}

	logger.Info("Review created", "review_id", review.ID, "user_id", userID, "film_id", filmID)
	return review, nil
}

// Update changes content and polarity. The feed event is attributed to the
// review's author.
func (s *ReviewService) Update(ctx context.Context, reviewID uint, content string, isPositive bool) (*models.Review, error) {
	if err := models.ValidateID("reviewId", reviewID); err != nil {
		return nil, err
	}
	content = security.SanitizeReviewContent(content)
	if content == "" {
		return nil, errors.InvalidArgument("review content must not be empty")
	}

	var updated *models.Review
	err := s.store.Atomic(ctx, func(tx repositories.Store) error {
		review := &models.Review{ID: reviewID, Content: content, IsPositive: isPositive}
		if err := tx.Reviews().Update(ctx, review); err != nil {
			return err
		}
		updated = review
		_, err := appendEvent(ctx, tx.Feed(), review.UserID, review.ID, models.EventTypeReview, models.OperationUpdate)
		return err
	})
	if err != nil {
		return nil, fail("update_review", err, "review_id", reviewID)
	}

	logger.Info("Review updated", "review_id", reviewID)
	return updated, nil
}

// Delete removes the review together with its votes.
func (s *ReviewService) Delete(ctx context.Context, reviewID uint) error {
	review, err := s.Get(ctx, reviewID)
	if err != nil {
		return err
	}

	err = s.store.Atomic(ctx, func(tx repositories.Store) error {
		deleted, err := tx.Reviews().Delete(ctx, reviewID)
		if err != nil {
			return err
		}
		if !deleted {
			return errors.NotFound("review", reviewID)
		}
		_, err = appendEvent(ctx, tx.Feed(), review.UserID, reviewID, models.EventTypeReview, models.OperationRemove)
		return err
	})
	if err != nil {
		return fail("delete_review", err, "review_id", reviewID)
	}

	logger.Info("Review deleted", "review_id", reviewID)
	return nil
}

func (s *ReviewService) Get(ctx context.Context, reviewID uint) (*models.Review, error) {
	if err := models.ValidateID("reviewId", reviewID); err != nil {
		return nil, err
	}

	review, err := s.store.Reviews().Get(ctx, reviewID)
	if err != nil {
		return nil, fail("get_review", err, "review_id", reviewID)
	}
	return review, nil
}

// List returns the most useful reviews first. filmID 0 lists reviews of all
// films; count <= 0 falls back to the configured default.
func (s *ReviewService) List(ctx context.Context, filmID uint, count int) ([]models.Review, error) {
	if count <= 0 {
		count = s.defaultLimit
	}

	reviews, err := s.store.Reviews().List(ctx, filmID, count)
	if err != nil {
		return nil, fail("list_reviews", err, "film_id", filmID)
	}
	return reviews, nil
}
