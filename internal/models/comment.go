// Package models contains data structures for the application's domain models.
package models

import "time"

// DefaultGuestName is the display name used when a guest comments
// without providing one.
const DefaultGuestName = "Anonymous"

// Comment represents a comment on a post. Comments may be left by
// registered users or by guests; for guest comments UserID is nil and
// AuthorName carries the display name supplied at submit time.
//
// LikedByAuthor marks comments the post's author has highlighted. It is
// toggled only through the admin surface and is independent of the
// likes ledger.
type Comment struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	PostID        uint      `gorm:"not null;index" json:"post_id"`
	Post          Post      `gorm:"foreignKey:PostID" json:"post,omitempty"`
	UserID        *uint     `gorm:"index" json:"user_id,omitempty"`
	User          *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	AuthorName    string    `gorm:"not null" json:"author_name"`
	LikedByAuthor bool      `gorm:"not null;default:false" json:"liked_by_author"`
	LikeCount     int       `gorm:"not null;default:0" json:"like_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
