package service

import (
	"context"
	"time"

	"alcove/internal/cache"
	"alcove/internal/feed"
	"alcove/internal/identity"
	"alcove/internal/models"
	"alcove/internal/observability"
	"alcove/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// FeedService assembles the public feed. Assembled feeds are cached
// without viewer state; the liked annotation is stamped on per request
// so two viewers can share one cache entry.
type FeedService struct {
	postRepo repository.PostRepository
	likeRepo repository.LikeRepository
}

func NewFeedService(postRepo repository.PostRepository, likeRepo repository.LikeRepository) *FeedService {
	return &FeedService{postRepo: postRepo, likeRepo: likeRepo}
}

// GetFeed returns the ordered feed for the actor. month filters to one
// calendar month when given as YYYY-MM; an empty month means everything.
func (s *FeedService) GetFeed(ctx context.Context, actor identity.Actor, month string) ([]feed.Item, error) {
	var items []feed.Item
	key := cache.FeedKey

	load := func() error {
		posts, err := s.postRepo.ListAll(ctx)
		if err != nil {
			return err
		}
		items = feed.Assemble(posts)
		return nil
	}

	if month != "" {
		parsed, err := time.Parse("2006-01", month)
		if err != nil {
			return nil, models.NewValidationError("month must look like YYYY-MM")
		}
		key = cache.FeedMonthKey(month)
		load = func() error {
			posts, err := s.postRepo.ListByMonth(ctx, parsed.Year(), parsed.Month())
			if err != nil {
				return err
			}
			items = feed.Assemble(posts)
			return nil
		}
	}

	span, ctx := observability.NewSpan(ctx, "feed.get")
	defer span.End()
	span.AddAttributes(attribute.String("feed.month", month))

	if err := cache.Aside(ctx, key, &items, cache.FeedTTL, load); err != nil {
		span.SetError(err)
		return nil, err
	}
	span.AddAttributes(attribute.Int("feed.items", len(items)))

	return s.annotateLiked(ctx, actor, items), nil
}

func (s *FeedService) annotateLiked(ctx context.Context, actor identity.Actor, items []feed.Item) []feed.Item {
	key := actor.LikerKey()
	if key == "" || len(items) == 0 {
		return items
	}

	for i := range items {
		liked, err := s.likeRepo.IsLiked(ctx, models.TargetPost, items[i].Post.ID, key)
		if err != nil {
			// annotation only; the feed itself is fine
			continue
		}
		items[i].Liked = liked
	}
	return items
}
