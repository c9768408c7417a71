package models

import (
	"time"
)

type Film struct {
	ID          uint       `gorm:"primaryKey"`
	Name        string     `gorm:"type:varchar(255);not null;index"`
	Description string     `gorm:"type:varchar(200)"`
	ReleaseDate time.Time  `gorm:"type:date;index"`
	Duration    int        `gorm:"not null;default:0"`
	Genres      []Genre    `gorm:"many2many:film_genres;constraint:OnDelete:CASCADE"`
	Directors   []Director `gorm:"many2many:film_directors;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time  `gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime"`

	// Likes is derived from the like ledger and attached on read.
	Likes int `gorm:"-"`
}

func (f *Film) ReleaseYear() int {
	return f.ReleaseDate.Year()
}

func (f *Film) HasGenre(genreID uint) bool {
	for _, g := range f.Genres {
		if g.ID == genreID {
			return true
		}
	}
	return false
}

func (f *Film) HasDirector(directorID uint) bool {
	for _, d := range f.Directors {
		if d.ID == directorID {
			return true
		}
	}
	return false
}

func (Film) TableName() string {
	return "films"
}

type Genre struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"type:varchar(100);not null;uniqueIndex"`
}

func (Genre) TableName() string {
	return "genres"
}

type Director struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"type:varchar(255);not null"`
}

func (Director) TableName() string {
	return "directors"
}

// FilmLike is one (film, user) membership in a film's like set.
type FilmLike struct {
	FilmID    uint      `gorm:"primaryKey;autoIncrement:false"`
	Film      Film      `gorm:"foreignKey:FilmID;constraint:OnDelete:CASCADE"`
	UserID    uint      `gorm:"primaryKey;autoIncrement:false;index"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (FilmLike) TableName() string {
	return "film_likes"
}

// FilmFilter narrows a catalog listing. Zero fields do not filter.
type FilmFilter struct {
	GenreID    uint
	Year       int
	DirectorID uint
}

func (f FilmFilter) Matches(film *Film) bool {
	if f.GenreID != 0 && !film.HasGenre(f.GenreID) {
		return false
	}
	if f.Year != 0 && film.ReleaseYear() != f.Year {
		return false
	}
	if f.DirectorID != 0 && !film.HasDirector(f.DirectorID) {
		return false
	}
	return true
}
