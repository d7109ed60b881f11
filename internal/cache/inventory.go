package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix      = "user:%d"
	PostKeyPrefix      = "post:%d"
	FeedKey            = "feed"
	FeedMonthKeyPrefix = "feed:month:%s"
	EngagementStatsKey = "engagement:stats"
)

const (
	UserTTL       = 5 * time.Minute
	PostTTL       = 30 * time.Minute
	FeedTTL       = 1 * time.Minute
	EngagementTTL = 1 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

// FeedMonthKey returns the cache key for a month-filtered feed, where
// month is formatted as YYYY-MM.
func FeedMonthKey(month string) string {
	return fmt.Sprintf(FeedMonthKeyPrefix, month)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

// InvalidatePost drops the post entry and every feed entry, since the
// feed embeds post payloads.
func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
	InvalidateFeed(ctx)
}

func InvalidateFeed(ctx context.Context) {
	if client == nil {
		return
	}
	client.Del(ctx, FeedKey)
	iter := client.Scan(ctx, 0, fmt.Sprintf(FeedMonthKeyPrefix, "*"), 0).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
}

// InvalidateEngagement drops the cached admin stats aggregation. Any
// ledger write makes it stale.
func InvalidateEngagement(ctx context.Context) {
	Invalidate(ctx, EngagementStatsKey)
}
