package models

import (
	"time"
)

type EventType string

const (
	EventTypeLike   EventType = "LIKE"
	EventTypeReview EventType = "REVIEW"
	EventTypeFriend EventType = "FRIEND"
)

type Operation string

const (
	OperationAdd    Operation = "ADD"
	OperationRemove Operation = "REMOVE"
	OperationUpdate Operation = "UPDATE"
)

// FeedEvent is immutable once appended. ID order is append order.
type FeedEvent struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;index"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	EntityID  uint      `gorm:"not null"`
	EventType EventType `gorm:"type:varchar(20);not null"`
	Operation Operation `gorm:"type:varchar(20);not null"`
	Timestamp time.Time `gorm:"not null;index"`
}

func (FeedEvent) TableName() string {
	return "feed_events"
}
