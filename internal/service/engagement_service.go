package service

import (
	"context"
	"log/slog"

	"alcove/internal/cache"
	"alcove/internal/featureflags"
	"alcove/internal/identity"
	"alcove/internal/models"
	"alcove/internal/notifications"
	"alcove/internal/observability"
	"alcove/internal/repository"
)

// AnonymousLikesFlag gates guest likes; it defaults to on.
const AnonymousLikesFlag = "anonymous_likes"

// EngagementService owns every like and unlike. All writes funnel into
// the ledger repository so the count on the target row never drifts.
type EngagementService struct {
	likeRepo    repository.LikeRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	flags       *featureflags.Manager
	notifier    *notifications.Notifier
}

func NewEngagementService(
	likeRepo repository.LikeRepository,
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	flags *featureflags.Manager,
	notifier *notifications.Notifier,
) *EngagementService {
	return &EngagementService{
		likeRepo:    likeRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
		flags:       flags,
		notifier:    notifier,
	}
}

// LikePost records a like on behalf of the actor and returns the new
// count. Guests go through the anonymous id checks and the rollout
// flag; a second like by the same actor is a conflict, not a recount.
func (s *EngagementService) LikePost(ctx context.Context, actor identity.Actor, postID uint) (int, error) {
	if err := s.checkLiker(actor); err != nil {
		return 0, err
	}

	count, err := s.likeRepo.Like(ctx, models.TargetPost, postID, actor.LikerKey(), actor.IsAnonymous())
	if err != nil {
		return 0, err
	}

	observability.RecordEngagementEvent(models.TargetPost, "like", actor.IsAnonymous())
	cache.InvalidatePost(ctx, postID)
	cache.InvalidateEngagement(ctx)
	s.notifyTargetOwner(ctx, models.TargetPost, postID, notifications.EventPostLiked)
	return count, nil
}

// UnlikePost removes the actor's like. Anonymous likes are permanent:
// the ledger cannot tell one browser from another well enough to let a
// guest take a like back, so the attempt is always a conflict.
func (s *EngagementService) UnlikePost(ctx context.Context, actor identity.Actor, postID uint) (int, error) {
	if actor.IsAnonymous() {
		return 0, models.NewConflictError("anonymous likes cannot be removed")
	}
	if !actor.IsUser() {
		return 0, models.NewUnauthorizedError("Authentication required")
	}

	count, err := s.likeRepo.Unlike(ctx, models.TargetPost, postID, actor.LikerKey())
	if err != nil {
		return 0, err
	}

	observability.RecordEngagementEvent(models.TargetPost, "unlike", false)
	cache.InvalidatePost(ctx, postID)
	cache.InvalidateEngagement(ctx)
	return count, nil
}

// LikeComment records a like on a comment. Comment likes are for
// registered users only.
func (s *EngagementService) LikeComment(ctx context.Context, actor identity.Actor, commentID uint) (int, error) {
	if !actor.IsUser() {
		return 0, models.NewUnauthorizedError("Authentication required")
	}

	count, err := s.likeRepo.Like(ctx, models.TargetComment, commentID, actor.LikerKey(), false)
	if err != nil {
		return 0, err
	}

	observability.RecordEngagementEvent(models.TargetComment, "like", false)
	cache.InvalidateEngagement(ctx)
	s.notifyTargetOwner(ctx, models.TargetComment, commentID, notifications.EventCommentLiked)
	return count, nil
}

func (s *EngagementService) UnlikeComment(ctx context.Context, actor identity.Actor, commentID uint) (int, error) {
	if !actor.IsUser() {
		return 0, models.NewUnauthorizedError("Authentication required")
	}

	count, err := s.likeRepo.Unlike(ctx, models.TargetComment, commentID, actor.LikerKey())
	if err != nil {
		return 0, err
	}

	observability.RecordEngagementEvent(models.TargetComment, "unlike", false)
	cache.InvalidateEngagement(ctx)
	return count, nil
}

// AuthorLike toggles the author-highlight badge on a comment. The badge
// lives outside the ledger and never moves a counter; the server owns
// the flip so repeated calls alternate the state.
func (s *EngagementService) AuthorLike(ctx context.Context, commentID uint) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}

	liked := !comment.LikedByAuthor
	if err := s.commentRepo.SetAuthorLiked(ctx, commentID, liked); err != nil {
		return nil, err
	}
	comment.LikedByAuthor = liked

	// the highlight shows up inside cached post and feed payloads
	cache.InvalidatePost(ctx, comment.PostID)

	if liked && comment.UserID != nil && s.notifier != nil {
		if err := s.notifier.PublishEvent(ctx, *comment.UserID, notifications.EventAuthorLiked, map[string]interface{}{
			"comment_id": comment.ID,
		}); err != nil {
			slog.WarnContext(ctx, "author like event not delivered", "comment_id", comment.ID, "err", err)
		}
	}

	return comment, nil
}

// IsLiked reports whether the actor already liked the target.
func (s *EngagementService) IsLiked(ctx context.Context, actor identity.Actor, targetKind string, targetID uint) (bool, error) {
	key := actor.LikerKey()
	if key == "" {
		return false, nil
	}
	return s.likeRepo.IsLiked(ctx, targetKind, targetID, key)
}

// Stats returns the per-post engagement aggregation for the admin view.
// The aggregation is cached briefly and dropped on any ledger write.
func (s *EngagementService) Stats(ctx context.Context) ([]models.EngagementStats, error) {
	var stats []models.EngagementStats
	err := cache.Aside(ctx, cache.EngagementStatsKey, &stats, cache.EngagementTTL, func() error {
		var err error
		stats, err = s.likeRepo.Stats(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *EngagementService) checkLiker(actor identity.Actor) error {
	switch {
	case actor.IsUser():
		return nil
	case actor.IsAnonymous():
		if err := identity.ValidateAnonID(actor.AnonID); err != nil {
			return models.NewValidationError(err.Error())
		}
		if s.flags != nil && !s.flags.EnabledForKey(AnonymousLikesFlag, actor.AnonID) {
			return models.NewValidationError("Anonymous likes are disabled")
		}
		return nil
	default:
		return models.NewUnauthorizedError("Authentication required")
	}
}

// notifyTargetOwner best-effort publishes a like event to whoever owns
// the target. Lookup failures only cost the notification.
func (s *EngagementService) notifyTargetOwner(ctx context.Context, targetKind string, targetID uint, event string) {
	if s.notifier == nil {
		return
	}

	var ownerID uint
	switch targetKind {
	case models.TargetPost:
		post, err := s.postRepo.GetByID(ctx, targetID)
		if err != nil {
			return
		}
		ownerID = post.UserID
	case models.TargetComment:
		comment, err := s.commentRepo.GetByID(ctx, targetID)
		if err != nil || comment.UserID == nil {
			return
		}
		ownerID = *comment.UserID
	default:
		return
	}

	if err := s.notifier.PublishEvent(ctx, ownerID, event, map[string]interface{}{
		"target_kind": targetKind,
		"target_id":   targetID,
	}); err != nil {
		slog.WarnContext(ctx, "like event not delivered", "target_kind", targetKind, "target_id", targetID, "err", err)
	}
}
