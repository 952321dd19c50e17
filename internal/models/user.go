// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Role is the access level carried in a user record and its tokens.
type Role string

const (
	// RoleAdmin grants access to admin-gated routes.
	RoleAdmin Role = "admin"
	// RoleUser is the default role for registered users.
	RoleUser Role = "user"
)

// User represents a registered account in the Inkwell application.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"unique;not null" json:"email"`
	Username  string    `gorm:"unique;not null" json:"username"`
	Password  string    `gorm:"not null" json:"-"`
	Role      Role      `gorm:"type:varchar(10);not null;default:'user'" json:"role"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Bio       string    `json:"bio"`
	Avatar    *Avatar   `gorm:"foreignKey:UserID" json:"avatar,omitempty"`
	Posts     []Post    `gorm:"foreignKey:AuthorID" json:"posts,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Following indicates whether the requesting user follows this user.
	// Computed per request, never persisted.
	Following *bool `gorm:"-" json:"following,omitempty"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Follow is a directed edge in the follow graph: follower -> followed.
// It has no identity of its own; the pair is the key.
type Follow struct {
	FollowerID uint      `gorm:"primaryKey;autoIncrement:false" json:"follower_id"`
	FollowedID uint      `gorm:"primaryKey;autoIncrement:false" json:"followed_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (Follow) TableName() string {
	return "follows"
}
