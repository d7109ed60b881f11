// Package models contains data structures for the application's domain models.
package models

import "time"

// Post represents a blog post in the Alcove application.
//
// LikeCount is a persisted counter kept in lockstep with the likes ledger:
// every ledger insert or delete adjusts it inside the same transaction, so
// the counter never drifts from the true row count.
type Post struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Title     string     `gorm:"not null" json:"title"`
	Content   string     `gorm:"type:text;not null" json:"content"`
	UserID    uint       `gorm:"not null;index" json:"user_id"`
	User      User       `gorm:"foreignKey:UserID" json:"user"`
	LikeCount int        `gorm:"not null;default:0" json:"like_count"`
	Comments  []*Comment `gorm:"foreignKey:PostID" json:"comments,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
