// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Post represents a blog post. Slug is derived from the title at creation
// and acts as the post's external identifier; it never changes afterwards.
type Post struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Slug        string    `gorm:"uniqueIndex;not null" json:"slug"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	Content     string    `gorm:"type:text" json:"content"`
	AuthorID    uint      `gorm:"not null;index" json:"author_id"`
	Author      User      `gorm:"foreignKey:AuthorID" json:"author"`
	Published   bool      `gorm:"not null;default:false" json:"published"`
	ViewCount   uint      `gorm:"not null;default:0" json:"view_count"`
	Comments    []Comment `gorm:"foreignKey:PostID" json:"comments,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Favorited indicates whether the requesting user favorited this post.
	// Computed per request, never persisted; omitted for anonymous and
	// admin-listing contexts.
	Favorited *bool `gorm:"->;-:migration" json:"favorited,omitempty"`
}

// Favorite is an edge connecting a user to a post they favorited.
type Favorite struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	PostID    uint      `gorm:"primaryKey;autoIncrement:false" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (Favorite) TableName() string {
	return "favorites"
}
