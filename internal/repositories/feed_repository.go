package repositories

import (
	"context"

	"github.com/mroshb/filmorate/internal/models"
	"github.com/mroshb/filmorate/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FeedRepository struct {
	db *gorm.DB
}

func NewFeedRepository(db *gorm.DB) *FeedRepository {
	return &FeedRepository{db: db}
}

func (r *FeedRepository) Append(ctx context.Context, event *models.FeedEvent) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(event).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to append feed event")
	}
	return nil
}

// ByUser retrieves the user's events, most recent first
func (r *FeedRepository) ByUser(ctx context.Context, userID uint) ([]models.FeedEvent, error) {
	events := []models.FeedEvent{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&events).Error

	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get feed")
	}
	return events, nil
}

func (r *FeedRepository) Get(ctx context.Context, id uint) (*models.FeedEvent, error) {
	var event models.FeedEvent
	result := r.db.WithContext(ctx).First(&event, id)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.NotFound("event", id)
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get feed event")
	}
	return &event, nil
}

func (r *FeedRepository) Delete(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.FeedEvent{}, id)
	if result.Error != nil {
		return false, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to delete feed event")
	}
	return result.RowsAffected > 0, nil
}

func (r *FeedRepository) All(ctx context.Context) ([]models.FeedEvent, error) {
	events := []models.FeedEvent{}
	if err := r.db.WithContext(ctx).Order("id").Find(&events).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list feed events")
	}
	return events, nil
}
