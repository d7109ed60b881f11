// Package models contains data structures for the application's domain models.
package models

import "time"

// Like target kinds. The ledger is shared between posts and comments.
const (
	TargetPost    = "post"
	TargetComment = "comment"
)

// Like is one row of the engagement ledger. A liker is identified by an
// opaque key: "user:<id>" for registered users, or the raw anonymous
// identifier the browser presents for guests. The composite unique index
// makes a second like by the same liker on the same target a no-op at
// the database level.
type Like struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TargetKind string    `gorm:"not null;uniqueIndex:idx_target_liker" json:"target_kind"`
	TargetID   uint      `gorm:"not null;uniqueIndex:idx_target_liker" json:"target_id"`
	LikerKey   string    `gorm:"not null;uniqueIndex:idx_target_liker" json:"liker_key"`
	Anonymous  bool      `gorm:"not null;default:false" json:"anonymous"`
	CreatedAt  time.Time `json:"created_at"`
}

// EngagementStats aggregates ledger rows for the admin analytics view.
// LastLikeAt is nil for posts that have never been liked.
type EngagementStats struct {
	PostID         uint       `json:"post_id"`
	TotalLikes     int        `json:"total_likes"`
	AnonymousLikes int        `json:"anonymous_likes"`
	UserLikes      int        `json:"user_likes"`
	CommentCount   int        `json:"comment_count"`
	LastLikeAt     *time.Time `json:"last_like_at,omitempty"`
}
