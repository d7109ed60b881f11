// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"alcove/internal/cache"
	"alcove/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error)
	// SetAuthorLiked flips the author-highlight flag on a comment.
	SetAuthorLiked(ctx context.Context, id uint, liked bool) error
	// DeleteCascade removes a comment and its ledger rows in one
	// transaction.
	DeleteCascade(ctx context.Context, id uint) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, comment.PostID)
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("User").First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &comment, nil
}

func (r *commentRepository) ListByPost(
	ctx context.Context,
	postID uint,
) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("post_id = ?", postID).
		Order("created_at DESC, id DESC").
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

func (r *commentRepository) SetAuthorLiked(ctx context.Context, id uint, liked bool) error {
	res := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("id = ?", id).
		Update("liked_by_author", liked)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Comment", id)
	}
	return nil
}

func (r *commentRepository) DeleteCascade(ctx context.Context, id uint) error {
	var postID uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Raw(`SELECT post_id FROM comments WHERE id = ?`, id).Scan(&postID).Error; err != nil {
			return err
		}
		if postID == 0 {
			return models.NewNotFoundError("Comment", id)
		}

		if err := tx.Exec(
			`DELETE FROM likes WHERE target_kind = ? AND target_id = ?`,
			models.TargetComment, id,
		).Error; err != nil {
			return err
		}
		return tx.Exec(`DELETE FROM comments WHERE id = ?`, id).Error
	})

	if err != nil {
		return asAppError(err)
	}

	cache.InvalidatePost(ctx, postID)
	return nil
}
