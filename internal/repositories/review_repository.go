package repositories

import (
	"context"

	"github.com/mroshb/filmorate/internal/models"
	"github.com/mroshb/filmorate/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(review).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create review")
	}
	return nil
}

// Update rewrites content and polarity; usefulness is owned by the vote ledger.
func (r *ReviewRepository) Update(ctx context.Context, review *models.Review) error {
	result := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("id = ?", review.ID).
		Updates(map[string]interface{}{
			"content":     review.Content,
			"is_positive": review.IsPositive,
		})

	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to update review")
	}
	if result.RowsAffected == 0 {
		return errors.NotFound("review", review.ID)
	}

	stored, err := r.Get(ctx, review.ID)
	if err != nil {
		return err
	}
	*review = *stored
	return nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id uint) (bool, error) {
	deleted := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("review_id = ?", id).Delete(&models.ReviewVote{}).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to delete review votes")
		}

		result := tx.Delete(&models.Review{}, id)
		if result.Error != nil {
			return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to delete review")
		}
		deleted = result.RowsAffected > 0
		return nil
	})

	return deleted, err
}

func (r *ReviewRepository) Get(ctx context.Context, id uint) (*models.Review, error) {
	var review models.Review
	result := r.db.WithContext(ctx).First(&review, id)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.NotFound("review", id)
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get review")
	}

	return &review, nil
}

func (r *ReviewRepository) List(ctx context.Context, filmID uint, limit int) ([]models.Review, error) {
	query := r.db.WithContext(ctx).Order("useful DESC").Order("id ASC").Limit(limit)
	if filmID != 0 {
		query = query.Where("film_id = ?", filmID)
	}

	reviews := []models.Review{}
	if err := query.Find(&reviews).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list reviews")
	}
	return reviews, nil
}

// Vote records a vote and moves usefulness in the same transaction. A flip
// moves usefulness by 2 in a single update.
func (r *ReviewRepository) Vote(ctx context.Context, reviewID, userID uint, value models.VoteValue) (int, bool, error) {
	var useful int
	changed := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		review, err := lockReview(tx, reviewID)
		if err != nil {
			return err
		}
		useful = review.Useful

		var vote models.ReviewVote
		result := tx.Where("review_id = ? AND user_id = ?", reviewID, userID).Limit(1).Find(&vote)
		if result.Error != nil {
			return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to check existing vote")
		}

		var delta int
		switch {
		case result.RowsAffected == 0:
			vote = models.ReviewVote{ReviewID: reviewID, UserID: userID, Value: value}
			if err := tx.Omit(clause.Associations).Create(&vote).Error; err != nil {
				return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create vote")
			}
			delta = int(value)
		case vote.Value == value:
			return nil
		default:
			if err := tx.Model(&models.ReviewVote{}).
				Where("review_id = ? AND user_id = ?", reviewID, userID).
				Update("value", value).Error; err != nil {
				return errors.Wrap(err, errors.ErrCodeInternalError, "failed to flip vote")
			}
			delta = 2 * int(value)
		}

		if err := addUseful(tx, reviewID, delta); err != nil {
			return err
		}
		useful += delta
		changed = true
		return nil
	})

	return useful, changed, err
}

// RemoveVote removes the vote only when its polarity matches value.
func (r *ReviewRepository) RemoveVote(ctx context.Context, reviewID, userID uint, value models.VoteValue) (int, bool, error) {
	var useful int
	changed := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		review, err := lockReview(tx, reviewID)
		if err != nil {
			return err
		}
		useful = review.Useful

		result := tx.Where("review_id = ? AND user_id = ? AND value = ?", reviewID, userID, value).
			Delete(&models.ReviewVote{})
		if result.Error != nil {
			return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to remove vote")
		}
		if result.RowsAffected == 0 {
			return nil
		}

		if err := addUseful(tx, reviewID, -int(value)); err != nil {
			return err
		}
		useful -= int(value)
		changed = true
		return nil
	})

	return useful, changed, err
}

func (r *ReviewRepository) Usefulness(ctx context.Context, reviewID uint) (int, error) {
	var review models.Review
	result := r.db.WithContext(ctx).Select("id", "useful").First(&review, reviewID)

	if result.Error == gorm.ErrRecordNotFound {
		return 0, errors.NotFound("review", reviewID)
	}
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get usefulness")
	}

	return review.Useful, nil
}

func (r *ReviewRepository) Votes(ctx context.Context, reviewID uint) ([]models.ReviewVote, error) {
	votes := []models.ReviewVote{}
	err := r.db.WithContext(ctx).Where("review_id = ?", reviewID).Order("user_id").Find(&votes).Error
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get votes")
	}
	return votes, nil
}

func lockReview(tx *gorm.DB, reviewID uint) (*models.Review, error) {
	var review models.Review
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id", "useful").First(&review, reviewID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, errors.NotFound("review", reviewID)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to lock review")
	}
	return &review, nil
}

func addUseful(tx *gorm.DB, reviewID uint, delta int) error {
	err := tx.Model(&models.Review{}).
		Where("id = ?", reviewID).
		Update("useful", gorm.Expr("useful + ?", delta)).Error
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to update usefulness")
	}
	return nil
}
