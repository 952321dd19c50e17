// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Avatar is the stored reference to a user's profile image in object
// storage. A user has at most one; uploading a replacement deletes the
// previous object first.
type Avatar struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"not null" json:"key"`
	URL       string    `gorm:"not null" json:"url"`
	UserID    uint      `gorm:"not null;uniqueIndex" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
