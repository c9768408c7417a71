package models

import (
	"time"
)

// User is the catalog user record. The engine only references users by ID;
// profile fields are owned by the catalog.
type User struct {
	ID        uint      `gorm:"primaryKey"`
	Email     string    `gorm:"type:varchar(255);not null"`
	Login     string    `gorm:"type:varchar(100);not null"`
	Name      string    `gorm:"type:varchar(255)"`
	Birthday  time.Time `gorm:"type:date"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// DisplayName falls back to the login when no name was given.
func (u *User) DisplayName() string {
	if u.Name == "" {
		return u.Login
	}
	return u.Name
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}
