package service

import (
	"context"
	"log/slog"

	"alcove/internal/models"
	"alcove/internal/notifications"
	"alcove/internal/repository"
)

type PostService struct {
	postRepo repository.PostRepository
	isAdmin  func(ctx context.Context, userID uint) (bool, error)
	notifier *notifications.Notifier
}

type CreatePostInput struct {
	UserID  uint
	Title   string
	Content string
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

func NewPostService(
	postRepo repository.PostRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
	notifier *notifications.Notifier,
) *PostService {
	return &PostService{
		postRepo: postRepo,
		isAdmin:  isAdmin,
		notifier: notifier,
	}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	const maxTitleLen = 300
	const maxContentLen = 50000

	if in.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(in.Title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 300 characters)")
	}
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 50000 characters)")
	}

	post := &models.Post{
		Title:   in.Title,
		Content: in.Content,
		UserID:  in.UserID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.BroadcastEvent(ctx, notifications.EventPostPublished, map[string]interface{}{
			"post_id": post.ID,
			"title":   post.Title,
		}); err != nil {
			slog.WarnContext(ctx, "post published event not delivered", "post_id", post.ID, "err", err)
		}
	}

	return s.postRepo.GetByID(ctx, post.ID)
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

// DeletePost removes a post and everything hanging off it. Only the
// post's owner or an admin may delete; a failed authorization check
// leaves the post untouched.
func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return err
	}

	if post.UserID != in.UserID {
		if s.isAdmin == nil {
			return models.NewUnauthorizedError("You can only delete your own posts")
		}
		admin, err := s.isAdmin(ctx, in.UserID)
		if err != nil {
			return err
		}
		if !admin {
			return models.NewUnauthorizedError("You can only delete your own posts")
		}
	}

	if err := s.postRepo.DeleteCascade(ctx, in.PostID); err != nil {
		return err
	}
	return nil
}
