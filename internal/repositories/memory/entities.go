package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mroshb/filmorate/internal/models"
)

// entityStore is the in-memory catalog.
type entityStore struct {
	mu        sync.RWMutex
	users     map[uint]models.User
	films     map[uint]models.Film
	genres    map[uint]models.Genre
	directors map[uint]models.Director

	nextUserID     uint
	nextFilmID     uint
	nextGenreID    uint
	nextDirectorID uint
}

func newEntityStore() *entityStore {
	return &entityStore{
		users:     make(map[uint]models.User),
		films:     make(map[uint]models.Film),
		genres:    make(map[uint]models.Genre),
		directors: make(map[uint]models.Director),
	}
}

func (s *entityStore) UserExists(_ context.Context, id uint) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.users[id]
	return ok, nil
}

func (s *entityStore) FilmExists(_ context.Context, id uint) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.films[id]
	return ok, nil
}

func (s *entityStore) DirectorExists(_ context.Context, id uint) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.directors[id]
	return ok, nil
}

func (s *entityStore) GetUsers(_ context.Context, ids []uint) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]models.User, 0, len(ids))
	for _, id := range uniqueSorted(ids) {
		if u, ok := s.users[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

func (s *entityStore) GetFilms(_ context.Context, ids []uint) ([]models.Film, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	films := make([]models.Film, 0, len(ids))
	for _, id := range uniqueSorted(ids) {
		if f, ok := s.films[id]; ok {
			films = append(films, s.resolve(f))
		}
	}
	return films, nil
}

func (s *entityStore) ListFilms(_ context.Context, filter models.FilmFilter) ([]models.Film, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	films := make([]models.Film, 0, len(s.films))
	for _, f := range s.films {
		film := s.resolve(f)
		if filter.Matches(&film) {
			films = append(films, film)
		}
	}
	sort.Slice(films, func(i, j int) bool { return films[i].ID < films[j].ID })
	return films, nil
}

// resolve returns a copy of f with genre and director records filled from
// the catalog, ordered by ID.
func (s *entityStore) resolve(f models.Film) models.Film {
	genres := make([]models.Genre, 0, len(f.Genres))
	for _, g := range f.Genres {
		if stored, ok := s.genres[g.ID]; ok {
			g = stored
		}
		genres = append(genres, g)
	}
	sort.Slice(genres, func(i, j int) bool { return genres[i].ID < genres[j].ID })

	directors := make([]models.Director, 0, len(f.Directors))
	for _, d := range f.Directors {
		if stored, ok := s.directors[d.ID]; ok {
			d = stored
		}
		directors = append(directors, d)
	}
	sort.Slice(directors, func(i, j int) bool { return directors[i].ID < directors[j].ID })

	f.Genres = genres
	f.Directors = directors
	return f
}

func (s *entityStore) SaveUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.ID == 0 {
		s.nextUserID++
		user.ID = s.nextUserID
	} else if user.ID > s.nextUserID {
		s.nextUserID = user.ID
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	s.users[user.ID] = *user
	return nil
}

func (s *entityStore) SaveGenre(_ context.Context, genre *models.Genre) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if genre.ID == 0 {
		s.nextGenreID++
		genre.ID = s.nextGenreID
	} else if genre.ID > s.nextGenreID {
		s.nextGenreID = genre.ID
	}
	s.genres[genre.ID] = *genre
	return nil
}

func (s *entityStore) SaveDirector(_ context.Context, director *models.Director) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if director.ID == 0 {
		s.nextDirectorID++
		director.ID = s.nextDirectorID
	} else if director.ID > s.nextDirectorID {
		s.nextDirectorID = director.ID
	}
	s.directors[director.ID] = *director
	return nil
}

func (s *entityStore) SaveFilm(_ context.Context, film *models.Film) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if film.ID == 0 {
		s.nextFilmID++
		film.ID = s.nextFilmID
	} else if film.ID > s.nextFilmID {
		s.nextFilmID = film.ID
	}
	now := time.Now().UTC()
	if film.CreatedAt.IsZero() {
		film.CreatedAt = now
	}
	film.UpdatedAt = now

	stored := *film
	stored.Genres = append([]models.Genre(nil), film.Genres...)
	stored.Directors = append([]models.Director(nil), film.Directors...)
	stored.Likes = 0
	s.films[film.ID] = stored
	return nil
}

func uniqueSorted(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
