package services

import (
	"context"

	"github.com/mroshb/filmorate/internal/models"
	"github.com/mroshb/filmorate/internal/repositories"
	"github.com/mroshb/filmorate/pkg/logger"
)

// EngagementService owns film likes and review votes.
type EngagementService struct {
	store repositories.Store
}

func NewEngagementService(store repositories.Store) *EngagementService {
	return &EngagementService{store: store}
}

// AddLike is idempotent; a feed event is written only for a new like.
func (s *EngagementService) AddLike(ctx context.Context, filmID, userID uint) error {
	if err := s.checkLike(ctx, filmID, userID); err != nil {
		return err
	}

	added := false
	err := s.store.Atomic(ctx, func(tx repositories.Store) error {
		var err error
		added, err = tx.Likes().Add(ctx, filmID, userID)
		if err != nil || !added {
			return err
		}
		_, err = appendEvent(ctx, tx.Feed(), userID, filmID, models.EventTypeLike, models.OperationAdd)
		return err
	})
	if err != nil {
		return fail("add_like", err, "film_id", filmID, "user_id", userID)
	}

	if added {
		logger.Info("Like added", "film_id", filmID, "user_id", userID)
	}
	return nil
}

// RemoveLike is idempotent; removing an absent like is a no-op.
func (s *EngagementService) RemoveLike(ctx context.Context, filmID, userID uint) error {
	if err := s.checkLike(ctx, filmID, userID); err != nil {
		return err
	}

	removed := false
	err := s.store.Atomic(ctx, func(tx repositories.Store) error {
		var err error
		removed, err = tx.Likes().Remove(ctx, filmID, userID)
		if err != nil || !removed {
			return err
		}
		_, err = appendEvent(ctx, tx.Feed(), userID, filmID, models.EventTypeLike, models.OperationRemove)
		return err
	})
	if err != nil {
		return fail("remove_like", err, "film_id", filmID, "user_id", userID)
	}

	if removed {
		logger.Info("Like removed", "film_id", filmID, "user_id", userID)
	}
	return nil
}

func (s *EngagementService) LikedFilmIDs(ctx context.Context, userID uint) ([]uint, error) {
	if err := requireUser(ctx, s.store.Entities(), userID); err != nil {
		return nil, fail("liked_films", err, "user_id", userID)
	}

	ids, err := s.store.Likes().FilmIDsByUser(ctx, userID)
	if err != nil {
		return nil, fail("liked_films", err, "user_id", userID)
	}
	return ids, nil
}

// Vote records a like (+1) or dislike (-1) on a review and returns the
// resulting usefulness. Repeating the same vote changes nothing; switching
// polarity moves usefulness by two.
func (s *EngagementService) Vote(ctx context.Context, reviewID, userID uint, isLike bool) (int, error) {
	if err := s.checkVote(ctx, reviewID, userID); err != nil {
		return 0, err
	}

	useful, changed, err := s.store.Reviews().Vote(ctx, reviewID, userID, models.VoteFromBool(isLike))
	if err != nil {
		return 0, fail("vote", err, "review_id", reviewID, "user_id", userID)
	}

	if changed {
		logger.Debug("Review vote recorded", "review_id", reviewID, "user_id", userID, "like", isLike, "useful", useful)
	}
	return useful, nil
}

// RemoveVote withdraws the user's vote only if its polarity matches isLike.
func (s *EngagementService) RemoveVote(ctx context.Context, reviewID, userID uint, isLike bool) (int, error) {
	if err := s.checkVote(ctx, reviewID, userID); err != nil {
		return 0, err
	}

	useful, changed, err := s.store.Reviews().RemoveVote(ctx, reviewID, userID, models.VoteFromBool(isLike))
	if err != nil {
		return 0, fail("remove_vote", err, "review_id", reviewID, "user_id", userID)
	}

	if changed {
		logger.Debug("Review vote removed", "review_id", reviewID, "user_id", userID, "like", isLike, "useful", useful)
	}
	return useful, nil
}

func (s *EngagementService) Usefulness(ctx context.Context, reviewID uint) (int, error) {
	if err := models.ValidateID("reviewId", reviewID); err != nil {
		return 0, err
	}

	useful, err := s.store.Reviews().Usefulness(ctx, reviewID)
	if err != nil {
		return 0, fail("usefulness", err, "review_id", reviewID)
	}
	return useful, nil
}

func (s *EngagementService) checkLike(ctx context.Context, filmID, userID uint) error {
	if err := requireFilm(ctx, s.store.Entities(), filmID); err != nil {
		return fail("check_like", err, "film_id", filmID)
	}
	if err := requireUser(ctx, s.store.Entities(), userID); err != nil {
		return fail("check_like", err, "user_id", userID)
	}
	return nil
}

func (s *EngagementService) checkVote(ctx context.Context, reviewID, userID uint) error {
	if err := models.ValidateID("reviewId", reviewID); err != nil {
		return err
	}
	if err := requireUser(ctx, s.store.Entities(), userID); err != nil {
		return fail("check_vote", err, "user_id", userID)
	}
	return nil
}
