package repositories

import (
	"context"

	"github.com/mroshb/filmorate/internal/models"
	"github.com/mroshb/filmorate/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LikeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

// Add inserts the like unless it already exists.
func (r *LikeRepository) Add(ctx context.Context, filmID, userID uint) (bool, error) {
	like := &models.FilmLike{FilmID: filmID, UserID: userID}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Omit(clause.Associations).
		Create(like)

	if result.Error != nil {
		return false, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to add like")
	}

	return result.RowsAffected > 0, nil
}

func (r *LikeRepository) Remove(ctx context.Context, filmID, userID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("film_id = ? AND user_id = ?", filmID, userID).
		Delete(&models.FilmLike{})

	if result.Error != nil {
		return false, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to remove like")
	}

	return result.RowsAffected > 0, nil
}

func (r *LikeRepository) Counts(ctx context.Context, filmIDs []uint) (map[uint]int, error) {
	counts := make(map[uint]int, len(filmIDs))
	if len(filmIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		FilmID uint
		Likes  int
	}
	err := r.db.WithContext(ctx).Model(&models.FilmLike{}).
		Select("film_id, COUNT(*) AS likes").
		Where("film_id IN ?", filmIDs).
		Group("film_id").
		Scan(&rows).Error

	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to count likes")
	}

	for _, row := range rows {
		counts[row.FilmID] = row.Likes
	}
	return counts, nil
}

func (r *LikeRepository) FilmIDsByUser(ctx context.Context, userID uint) ([]uint, error) {
	ids := []uint{}
	err := r.db.WithContext(ctx).Model(&models.FilmLike{}).
		Where("user_id = ?", userID).
		Order("film_id").
		Pluck("film_id", &ids).Error

	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get user likes")
	}

	return ids, nil
}

func (r *LikeRepository) LikeSets(ctx context.Context) (map[uint][]uint, error) {
	var likes []models.FilmLike
	err := r.db.WithContext(ctx).
		Select("film_id", "user_id").
		Order("user_id").Order("film_id").
		Find(&likes).Error

	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to load like sets")
	}

	sets := make(map[uint][]uint)
	for _, like := range likes {
		sets[like.UserID] = append(sets[like.UserID], like.FilmID)
	}
	return sets, nil
}
