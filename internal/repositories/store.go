package repositories

import (
	"context"

	"github.com/mroshb/filmorate/internal/models"
)

// EntityStore is the read side of the catalog: existence checks and record
// lookup for users, films and directors. Slices come back ordered by ID.
type EntityStore interface {
	UserExists(ctx context.Context, id uint) (bool, error)
	FilmExists(ctx context.Context, id uint) (bool, error)
	DirectorExists(ctx context.Context, id uint) (bool, error)
	GetUsers(ctx context.Context, ids []uint) ([]models.User, error)
	GetFilms(ctx context.Context, ids []uint) ([]models.Film, error)
	ListFilms(ctx context.Context, filter models.FilmFilter) ([]models.Film, error)
}

// CatalogWriter seeds the catalog. It is used by the importer, not by the
// engine's own mutators.
type CatalogWriter interface {
	SaveUser(ctx context.Context, user *models.User) error
	SaveGenre(ctx context.Context, genre *models.Genre) error
	SaveDirector(ctx context.Context, director *models.Director) error
	SaveFilm(ctx context.Context, film *models.Film) error
}

type FriendStore interface {
	// Request creates ownerID -> otherID if absent and confirms both edges
	// when the reverse edge exists. created reports whether a new edge was written.
	Request(ctx context.Context, ownerID, otherID uint) (created bool, err error)
	Remove(ctx context.Context, ownerID, otherID uint) (bool, error)
	// Get returns nil when no edge exists.
	Get(ctx context.Context, ownerID, otherID uint) (*models.Friendship, error)
	FriendIDs(ctx context.Context, userID uint) ([]uint, error)
}

type LikeStore interface {
	Add(ctx context.Context, filmID, userID uint) (bool, error)
	Remove(ctx context.Context, filmID, userID uint) (bool, error)
	// Counts returns like counts for filmIDs; films without likes are absent.
	Counts(ctx context.Context, filmIDs []uint) (map[uint]int, error)
	FilmIDsByUser(ctx context.Context, userID uint) ([]uint, error)
	// LikeSets returns every user's liked film IDs keyed by user ID.
	LikeSets(ctx context.Context) (map[uint][]uint, error)
}

type ReviewStore interface {
	Create(ctx context.Context, review *models.Review) error
	// Update changes content and polarity only.
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id uint) (bool, error)
	Get(ctx context.Context, id uint) (*models.Review, error)
	// List orders by usefulness descending then ID. filmID 0 lists all films.
	List(ctx context.Context, filmID uint, limit int) ([]models.Review, error)

	// Vote and RemoveVote apply the vote change and the usefulness delta in one
	// atomic step and return the resulting usefulness.
	Vote(ctx context.Context, reviewID, userID uint, value models.VoteValue) (useful int, changed bool, err error)
	RemoveVote(ctx context.Context, reviewID, userID uint, value models.VoteValue) (useful int, changed bool, err error)
	Usefulness(ctx context.Context, reviewID uint) (int, error)
	Votes(ctx context.Context, reviewID uint) ([]models.ReviewVote, error)
}

type FeedStore interface {
	// Append assigns event.ID.
	Append(ctx context.Context, event *models.FeedEvent) error
	// ByUser returns the user's events most recent first.
	ByUser(ctx context.Context, userID uint) ([]models.FeedEvent, error)
	Get(ctx context.Context, id uint) (*models.FeedEvent, error)
	Delete(ctx context.Context, id uint) (bool, error)
	All(ctx context.Context) ([]models.FeedEvent, error)
}

// Store bundles one backend's capabilities.
type Store interface {
	Entities() EntityStore
	Catalog() CatalogWriter
	Friends() FriendStore
	Likes() LikeStore
	Reviews() ReviewStore
	Feed() FeedStore

	// Atomic runs fn against a view of the store whose writes commit together.
	Atomic(ctx context.Context, fn func(tx Store) error) error
}
