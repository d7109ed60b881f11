// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"
	"time"

	"alcove/internal/cache"
	"alcove/internal/models"
	"alcove/internal/observability"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	// ListAll returns every post with author and comments preloaded.
	// Rows come back in whatever order the database yields them; the
	// feed assembler owns ordering.
	ListAll(ctx context.Context) ([]*models.Post, error)
	// ListByMonth returns the posts created inside one calendar month,
	// again unordered.
	ListByMonth(ctx context.Context, year int, month time.Month) ([]*models.Post, error)
	// DeleteCascade removes a post together with its comments and every
	// ledger row pointing at the post or those comments, in one
	// transaction.
	DeleteCascade(ctx context.Context, id uint) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateFeed(ctx)
	return nil
}

// preloadComments loads each post's comments newest first, with the
// comment author attached when there is one.
func preloadComments(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC, id DESC")
		}).
		Preload("Comments.User")
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	key := cache.PostKey(id)

	err := cache.Aside(ctx, key, &post, cache.PostTTL, func() error {
		if err := preloadComments(r.db.WithContext(ctx)).
			Preload("User").
			First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) ListAll(ctx context.Context) ([]*models.Post, error) {
	defer observability.TrackQuery("list_all", "posts")()

	var posts []*models.Post
	err := preloadComments(r.db.WithContext(ctx)).
		Preload("User").
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) ListByMonth(ctx context.Context, year int, month time.Month) ([]*models.Post, error) {
	defer observability.TrackQuery("list_by_month", "posts")()

	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	var posts []*models.Post
	err := preloadComments(r.db.WithContext(ctx)).
		Preload("User").
		Where("created_at >= ? AND created_at < ?", start, end).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) DeleteCascade(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Ledger rows for the post's comments go first; the comments
		// themselves carry the FK cascade but the polymorphic ledger
		// does not.
		if err := tx.Exec(
			`DELETE FROM likes WHERE target_kind = ? AND target_id IN (SELECT id FROM comments WHERE post_id = ?)`,
			models.TargetComment, id,
		).Error; err != nil {
			return err
		}
		if err := tx.Exec(`DELETE FROM comments WHERE post_id = ?`, id).Error; err != nil {
			return err
		}
		if err := tx.Exec(
			`DELETE FROM likes WHERE target_kind = ? AND target_id = ?`,
			models.TargetPost, id,
		).Error; err != nil {
			return err
		}

		res := tx.Exec(`DELETE FROM posts WHERE id = ?`, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Post", id)
		}
		return nil
	})

	if err != nil {
		return asAppError(err)
	}

	cache.InvalidatePost(ctx, id)
	return nil
}
