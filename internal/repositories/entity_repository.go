package repositories

import (
	"context"

	"github.com/mroshb/filmorate/internal/models"
	"github.com/mroshb/filmorate/pkg/errors"
	"gorm.io/gorm"
)

// EntityRepository reads and seeds the catalog tables.
type EntityRepository struct {
	db *gorm.DB
}

func NewEntityRepository(db *gorm.DB) *EntityRepository {
	return &EntityRepository{db: db}
}

func (r *EntityRepository) UserExists(ctx context.Context, id uint) (bool, error) {
	return r.exists(ctx, &models.User{}, id, "user")
}

func (r *EntityRepository) FilmExists(ctx context.Context, id uint) (bool, error) {
	return r.exists(ctx, &models.Film{}, id, "film")
}

func (r *EntityRepository) DirectorExists(ctx context.Context, id uint) (bool, error) {
	return r.exists(ctx, &models.Director{}, id, "director")
}

func (r *EntityRepository) exists(ctx context.Context, model interface{}, id uint, entity string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count)
	if result.Error != nil {
		return false, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to check "+entity+" existence")
	}
	return count > 0, nil
}

// GetUsers retrieves users by ID, ordered by ID. Unknown IDs are skipped.
func (r *EntityRepository) GetUsers(ctx context.Context, ids []uint) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}

	var users []models.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get users")
	}
	return users, nil
}

// GetFilms retrieves films with genres and directors, ordered by ID.
func (r *EntityRepository) GetFilms(ctx context.Context, ids []uint) ([]models.Film, error) {
	if len(ids) == 0 {
		return []models.Film{}, nil
	}

	var films []models.Film
	if err := r.withAssociations(ctx).Where("id IN ?", ids).Order("id").Find(&films).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get films")
	}
	return films, nil
}

// ListFilms narrows by genre and director in SQL. The year is checked on the
// loaded rows because date extraction differs between dialects.
func (r *EntityRepository) ListFilms(ctx context.Context, filter models.FilmFilter) ([]models.Film, error) {
	db := r.db.WithContext(ctx)
	query := r.withAssociations(ctx)
	if filter.GenreID != 0 {
		query = query.Where("id IN (?)",
			db.Table("film_genres").Select("film_id").Where("genre_id = ?", filter.GenreID))
	}
	if filter.DirectorID != 0 {
		query = query.Where("id IN (?)",
			db.Table("film_directors").Select("film_id").Where("director_id = ?", filter.DirectorID))
	}

	var films []models.Film
	if err := query.Order("id").Find(&films).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list films")
	}

	matched := films[:0]
	for i := range films {
		if filter.Matches(&films[i]) {
			matched = append(matched, films[i])
		}
	}
	return matched, nil
}

func (r *EntityRepository) withAssociations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Genres", func(db *gorm.DB) *gorm.DB { return db.Order("genres.id") }).
		Preload("Directors", func(db *gorm.DB) *gorm.DB { return db.Order("directors.id") })
}

func (r *EntityRepository) SaveUser(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to save user")
	}
	return nil
}

func (r *EntityRepository) SaveGenre(ctx context.Context, genre *models.Genre) error {
	if err := r.db.WithContext(ctx).Save(genre).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to save genre")
	}
	return nil
}

func (r *EntityRepository) SaveDirector(ctx context.Context, director *models.Director) error {
	if err := r.db.WithContext(ctx).Save(director).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to save director")
	}
	return nil
}

// SaveFilm upserts the film and replaces its genre and director links.
func (r *EntityRepository) SaveFilm(ctx context.Context, film *models.Film) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		genres, directors := film.Genres, film.Directors

		if err := tx.Omit("Genres", "Directors").Save(film).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to save film")
		}
		if err := tx.Model(film).Association("Genres").Replace(genres); err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to link film genres")
		}
		if err := tx.Model(film).Association("Directors").Replace(directors); err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to link film directors")
		}
		return nil
	})
}
