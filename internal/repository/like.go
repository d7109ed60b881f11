// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"
	"fmt"

	"alcove/internal/models"
	"alcove/internal/observability"

	"gorm.io/gorm"
)

// LikeRepository owns the engagement ledger. Every write goes through a
// transaction that inserts or deletes the ledger row and adjusts the
// target's like_count in the same step, so the counter always equals
// the number of ledger rows for that target.
type LikeRepository interface {
	// Like records a like and returns the target's new count. A
	// duplicate like returns a ConflictError; a missing target returns
	// a NotFoundError.
	Like(ctx context.Context, targetKind string, targetID uint, likerKey string, anonymous bool) (int, error)
	// Unlike removes a like and returns the target's new count. A like
	// that was never recorded returns a ConflictError.
	Unlike(ctx context.Context, targetKind string, targetID uint, likerKey string) (int, error)
	IsLiked(ctx context.Context, targetKind string, targetID uint, likerKey string) (bool, error)
	// Stats aggregates per-post ledger rows for the admin analytics view.
	Stats(ctx context.Context) ([]models.EngagementStats, error)
}

type likeRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewLikeRepository creates a new LikeRepository
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db, log: observability.NewRepoLogger("likes")}
}

// targetTable maps a ledger target kind to the table carrying its counter.
func targetTable(targetKind string) (string, error) {
	switch targetKind {
	case models.TargetPost:
		return "posts", nil
	case models.TargetComment:
		return "comments", nil
	default:
		return "", models.NewValidationError(fmt.Sprintf("unknown like target %q", targetKind))
	}
}

func (r *likeRepository) Like(ctx context.Context, targetKind string, targetID uint, likerKey string, anonymous bool) (int, error) {
	table, err := targetTable(targetKind)
	if err != nil {
		return 0, err
	}
	defer observability.TrackQuery("like", table)()

	var count int
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The composite unique index decides the race: whichever
		// concurrent request inserts first wins, the other sees zero
		// rows affected.
		res := tx.Exec(
			`INSERT INTO likes (target_kind, target_id, liker_key, anonymous, created_at)
			 VALUES (?, ?, ?, ?, NOW())
			 ON CONFLICT (target_kind, target_id, liker_key) DO NOTHING`,
			targetKind, targetID, likerKey, anonymous,
		)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewConflictError("already liked")
		}

		upd := tx.Exec(
			`UPDATE `+table+` SET like_count = like_count + 1 WHERE id = ?`,
			targetID,
		)
		if upd.Error != nil {
			return upd.Error
		}
		if upd.RowsAffected == 0 {
			// No such target; rolling back also discards the ledger row.
			return models.NewNotFoundError(targetKind, targetID)
		}

		return tx.Raw(`SELECT like_count FROM `+table+` WHERE id = ?`, targetID).Scan(&count).Error
	})
	if err != nil {
		return 0, asAppError(err)
	}

	r.log.LogCreate(ctx, map[string]interface{}{
		"target_kind": targetKind,
		"target_id":   targetID,
		"anonymous":   anonymous,
	})
	return count, nil
}

func (r *likeRepository) Unlike(ctx context.Context, targetKind string, targetID uint, likerKey string) (int, error) {
	table, err := targetTable(targetKind)
	if err != nil {
		return 0, err
	}
	defer observability.TrackQuery("unlike", table)()

	var count int
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(
			`DELETE FROM likes WHERE target_kind = ? AND target_id = ? AND liker_key = ?`,
			targetKind, targetID, likerKey,
		)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Like", targetID)
		}

		upd := tx.Exec(
			`UPDATE `+table+` SET like_count = like_count - 1 WHERE id = ? AND like_count > 0`,
			targetID,
		)
		if upd.Error != nil {
			return upd.Error
		}
		if upd.RowsAffected == 0 {
			return models.NewNotFoundError(targetKind, targetID)
		}

		return tx.Raw(`SELECT like_count FROM `+table+` WHERE id = ?`, targetID).Scan(&count).Error
	})
	if err != nil {
		return 0, asAppError(err)
	}

	r.log.LogDelete(ctx, map[string]interface{}{
		"target_kind": targetKind,
		"target_id":   targetID,
	})
	return count, nil
}

func (r *likeRepository) IsLiked(ctx context.Context, targetKind string, targetID uint, likerKey string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("target_kind = ? AND target_id = ? AND liker_key = ?", targetKind, targetID, likerKey).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *likeRepository) Stats(ctx context.Context) ([]models.EngagementStats, error) {
	defer observability.TrackQuery("stats", "likes")()

	var stats []models.EngagementStats
	err := r.db.WithContext(ctx).Raw(
		`SELECT p.id AS post_id,
		        COUNT(l.id) AS total_likes,
		        COUNT(l.id) FILTER (WHERE l.anonymous) AS anonymous_likes,
		        COUNT(l.id) FILTER (WHERE NOT l.anonymous) AS user_likes,
		        (SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comment_count,
		        MAX(l.created_at) AS last_like_at
		 FROM posts p
		 LEFT JOIN likes l ON l.target_kind = ? AND l.target_id = p.id
		 GROUP BY p.id
		 ORDER BY p.id`,
		models.TargetPost,
	).Scan(&stats).Error
	if err != nil {
		r.log.LogError(ctx, err, "stats")
		return nil, models.NewInternalError(err)
	}
	return stats, nil
}

func asAppError(err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return models.NewInternalError(err)
}
