package models

import (
	"time"
)

type Review struct {
	ID         uint      `gorm:"primaryKey"`
	Content    string    `gorm:"type:text;not null"`
	IsPositive bool      `gorm:"not null"`
	UserID     uint      `gorm:"not null;index"`
	User       User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	FilmID     uint      `gorm:"not null;index"`
	Film       Film      `gorm:"foreignKey:FilmID;constraint:OnDelete:CASCADE"`
	Useful     int       `gorm:"not null;default:0"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (Review) TableName() string {
	return "reviews"
}

// VoteValue is +1 for a like vote and -1 for a dislike vote.
type VoteValue int

const (
	VoteLike    VoteValue = 1
	VoteDislike VoteValue = -1
)

func VoteFromBool(isLike bool) VoteValue {
	if isLike {
		return VoteLike
	}
	return VoteDislike
}

// ReviewVote is at most one vote per (review, user).
type ReviewVote struct {
	ReviewID  uint      `gorm:"primaryKey;autoIncrement:false"`
	Review    Review    `gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE"`
	UserID    uint      `gorm:"primaryKey;autoIncrement:false"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Value     VoteValue `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (ReviewVote) TableName() string {
	return "review_votes"
}

// SumVotes is the usefulness a vote set must produce.
func SumVotes(votes []ReviewVote) int {
	total := 0
	for _, v := range votes {
		total += int(v.Value)
	}
	return total
}
