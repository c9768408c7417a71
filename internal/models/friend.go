package models

import (
	"time"
)

// Friendship is a directed edge Requester -> Addressee. It stays pending
// until the addressee creates the reverse edge.
type Friendship struct {
	ID          uint      `gorm:"primaryKey"`
	RequesterID uint      `gorm:"not null;index:idx_friendship,unique"`
	Requester   User      `gorm:"foreignKey:RequesterID;constraint:OnDelete:CASCADE"`
	AddresseeID uint      `gorm:"not null;index:idx_friendship,unique"`
	Addressee   User      `gorm:"foreignKey:AddresseeID;constraint:OnDelete:CASCADE"`
	Status      string    `gorm:"type:varchar(20);default:'pending'"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// Friendship status constants
const (
	FriendshipStatusPending   = "pending"
	FriendshipStatusConfirmed = "confirmed"
)

func (f *Friendship) IsConfirmed() bool {
	return f.Status == FriendshipStatusConfirmed
}

func (Friendship) TableName() string {
	return "friendships"
}
