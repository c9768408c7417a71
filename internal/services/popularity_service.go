package services

import (
	"context"
	"sort"

	"github.com/mroshb/filmorate/internal/models"
	"github.com/mroshb/filmorate/internal/repositories"
	"github.com/mroshb/filmorate/internal/security"
	"github.com/mroshb/filmorate/pkg/errors"
	"github.com/mroshb/filmorate/pkg/utils"
	"golang.org/x/sync/errgroup"
)

// TopFilter narrows TopFilms. Zero fields do not filter.
type TopFilter struct {
	GenreID uint
	Year    int
}

// PopularityService ranks films by like count. Ties always break on
// ascending film ID so rankings are deterministic.
type PopularityService struct {
	store repositories.Store
}

func NewPopularityService(store repositories.Store) *PopularityService {
	return &PopularityService{store: store}
}

func (s *PopularityService) TopFilms(ctx context.Context, limit int, filter TopFilter) ([]models.Film, error) {
	if limit <= 0 {
		return nil, errors.InvalidArgument("count must be positive, got %d", limit)
	}
	if filter.Year < 0 {
		return nil, errors.InvalidArgument("year must not be negative, got %d", filter.Year)
	}

	films, err := s.store.Entities().ListFilms(ctx, models.FilmFilter{GenreID: filter.GenreID, Year: filter.Year})
	if err != nil {
		return nil, fail("top_films", err, "limit", limit)
	}
	if err := s.attachLikes(ctx, films); err != nil {
		return nil, fail("top_films", err, "limit", limit)
	}

	sortByLikes(films)
	if len(films) > limit {
		films = films[:limit]
	}
	return films, nil
}

// FilmsByDirector lists a director's films by release year or by likes.
func (s *PopularityService) FilmsByDirector(ctx context.Context, directorID uint, sortBy models.DirectorSort) ([]models.Film, error) {
	if sortBy != models.DirectorSortYear && sortBy != models.DirectorSortLikes {
		return nil, errors.InvalidArgument("unknown sort key %q", sortBy)
	}
	if err := requireDirector(ctx, s.store.Entities(), directorID); err != nil {
		return nil, fail("films_by_director", err, "director_id", directorID)
	}

	films, err := s.store.Entities().ListFilms(ctx, models.FilmFilter{DirectorID: directorID})
	if err != nil {
		return nil, fail("films_by_director", err, "director_id", directorID)
	}
	if err := s.attachLikes(ctx, films); err != nil {
		return nil, fail("films_by_director", err, "director_id", directorID)
	}

	if sortBy == models.DirectorSortLikes {
		sortByLikes(films)
		return films, nil
	}
	sort.SliceStable(films, func(i, j int) bool {
		if yi, yj := films[i].ReleaseYear(), films[j].ReleaseYear(); yi != yj {
			return yi < yj
		}
		return films[i].ID < films[j].ID
	})
	return films, nil
}

// Search matches query case-insensitively as a substring of the title
// and/or any director name. An empty field set matches nothing.
func (s *PopularityService) Search(ctx context.Context, query string, fields models.SearchFields) ([]models.Film, error) {
	if fields.Empty() {
		return []models.Film{}, nil
	}
	query = security.SanitizeQuery(query)

	all, err := s.store.Entities().ListFilms(ctx, models.FilmFilter{})
	if err != nil {
		return nil, fail("search", err, "query", query)
	}

	films := make([]models.Film, 0, len(all))
	for i := range all {
		if matchesSearch(&all[i], query, fields) {
			films = append(films, all[i])
		}
	}
	if err := s.attachLikes(ctx, films); err != nil {
		return nil, fail("search", err, "query", query)
	}

	sortByLikes(films)
	return films, nil
}

// CommonFilms returns films both users like, most liked first.
func (s *PopularityService) CommonFilms(ctx context.Context, userID, otherID uint) ([]models.Film, error) {
	for _, id := range []uint{userID, otherID} {
		if err := requireUser(ctx, s.store.Entities(), id); err != nil {
			return nil, fail("common_films", err, "user_id", userID, "other_id", otherID)
		}
	}

	var mine, theirs []uint
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		mine, err = s.store.Likes().FilmIDsByUser(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		theirs, err = s.store.Likes().FilmIDsByUser(gctx, otherID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fail("common_films", err, "user_id", userID, "other_id", otherID)
	}

	films, err := s.store.Entities().GetFilms(ctx, intersect(mine, theirs))
	if err != nil {
		return nil, fail("common_films", err, "user_id", userID, "other_id", otherID)
	}
	if err := s.attachLikes(ctx, films); err != nil {
		return nil, fail("common_films", err, "user_id", userID, "other_id", otherID)
	}

	sortByLikes(films)
	return films, nil
}

func (s *PopularityService) attachLikes(ctx context.Context, films []models.Film) error {
	return attachLikes(ctx, s.store.Likes(), films)
}

func attachLikes(ctx context.Context, likes repositories.LikeStore, films []models.Film) error {
	if len(films) == 0 {
		return nil
	}
	ids := make([]uint, len(films))
	for i := range films {
		ids[i] = films[i].ID
	}

	counts, err := likes.Counts(ctx, ids)
	if err != nil {
		return err
	}
	for i := range films {
		films[i].Likes = counts[films[i].ID]
	}
	return nil
}

func sortByLikes(films []models.Film) {
	sort.SliceStable(films, func(i, j int) bool {
		if films[i].Likes != films[j].Likes {
			return films[i].Likes > films[j].Likes
		}
		return films[i].ID < films[j].ID
	})
}

func matchesSearch(film *models.Film, query string, fields models.SearchFields) bool {
	if fields.Has(models.SearchByTitle) && utils.ContainsFold(film.Name, query) {
		return true
	}
	if fields.Has(models.SearchByDirector) {
		for _, d := range film.Directors {
			if utils.ContainsFold(d.Name, query) {
				return true
			}
		}
	}
	return false
}
