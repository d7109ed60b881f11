package service

import (
	"context"
	"log/slog"

	"alcove/internal/identity"
	"alcove/internal/models"
	"alcove/internal/notifications"
	"alcove/internal/repository"
	"alcove/internal/validation"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	isAdmin     func(ctx context.Context, userID uint) (bool, error)
	notifier    *notifications.Notifier
}

type AddCommentInput struct {
	Actor     identity.Actor
	PostID    uint
	Content   string
	GuestName string
}

type DeleteCommentInput struct {
	UserID    uint
	CommentID uint
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
	notifier *notifications.Notifier,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		isAdmin:     isAdmin,
		notifier:    notifier,
	}
}

// AddComment records a comment on a post. Registered users comment under
// their account; everyone else comments as a guest under a display name,
// falling back to the default when none is given.
func (s *CommentService) AddComment(ctx context.Context, in AddCommentInput) (*models.Comment, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}

	const maxCommentLen = 10000

	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	comment := &models.Comment{
		Content: in.Content,
		PostID:  in.PostID,
	}

	if in.Actor.IsUser() {
		userID := in.Actor.UserID
		comment.UserID = &userID
	} else {
		if err := validation.ValidateGuestName(in.GuestName); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		comment.AuthorName = in.GuestName
		if comment.AuthorName == "" {
			comment.AuthorName = models.DefaultGuestName
		}
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.PublishEvent(ctx, post.UserID, notifications.EventCommentAdded, map[string]interface{}{
			"post_id":    post.ID,
			"comment_id": comment.ID,
		}); err != nil {
			slog.WarnContext(ctx, "comment event not delivered", "comment_id", comment.ID, "err", err)
		}
	}

	return s.commentRepo.GetByID(ctx, comment.ID)
}

func (s *CommentService) ListComments(ctx context.Context, postID uint) ([]*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByPost(ctx, postID)
}

// DeleteComment removes a comment when the caller wrote it, owns the
// post it sits on, or is an admin. Guest comments have no author account
// so only the latter two apply.
func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}

	if !s.mayDelete(ctx, comment, in.UserID) {
		return nil, models.NewUnauthorizedError("You can only delete your own comments")
	}

	if err := s.commentRepo.DeleteCascade(ctx, in.CommentID); err != nil {
		return nil, err
	}

	return comment, nil
}

func (s *CommentService) mayDelete(ctx context.Context, comment *models.Comment, userID uint) bool {
	if comment.UserID != nil && *comment.UserID == userID {
		return true
	}
	if post, err := s.postRepo.GetByID(ctx, comment.PostID); err == nil && post.UserID == userID {
		return true
	}
	if s.isAdmin != nil {
		if admin, err := s.isAdmin(ctx, userID); err == nil && admin {
			return true
		}
	}
	return false
}
