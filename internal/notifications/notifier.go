// Package notifications provides notification delivery over Redis pub/sub.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"runtime/debug"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// Event names published on user channels.
const (
	EventCommentAdded  = "comment_added"
	EventPostLiked     = "post_liked"
	EventCommentLiked  = "comment_liked"
	EventAuthorLiked   = "author_liked"
	EventPostPublished = "post_published"
)

// Notifier provides helpers to publish notifications into Redis channels
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishUser sends a notification payload to a user's channel.
func (n *Notifier) PublishUser(
	ctx context.Context, userID uint, payload string,
) error {
	if n.rdb == nil {
		return nil
	}
	return n.rdb.Publish(ctx, UserChannel(userID), payload).Err()
}

// PublishBroadcast sends a notification payload to all connected users.
func (n *Notifier) PublishBroadcast(ctx context.Context, payload string) error {
	if n.rdb == nil {
		return nil
	}
	return n.rdb.Publish(ctx, "notifications:broadcast", payload).Err()
}

// PublishEvent marshals a typed event and sends it to a user's channel.
// Post owners are notified this way when someone comments on or likes
// their posts.
func (n *Notifier) PublishEvent(
	ctx context.Context, userID uint, event string, fields map[string]interface{},
) error {
	if n.rdb == nil {
		return nil
	}
	payloadJSON, err := marshalEvent(event, fields)
	if err != nil {
		return err
	}
	return n.PublishUser(ctx, userID, payloadJSON)
}

// BroadcastEvent marshals a typed event and sends it to the broadcast
// channel. New posts go out this way: they concern every subscriber,
// not a single user's dashboard.
func (n *Notifier) BroadcastEvent(
	ctx context.Context, event string, fields map[string]interface{},
) error {
	if n.rdb == nil {
		return nil
	}
	payloadJSON, err := marshalEvent(event, fields)
	if err != nil {
		return err
	}
	return n.PublishBroadcast(ctx, payloadJSON)
}

func marshalEvent(event string, fields map[string]interface{}) (string, error) {
	payload := map[string]interface{}{"event": event}
	for k, v := range fields {
		payload[k] = v
	}
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}
	return string(payloadJSON), nil
}

// StartPatternSubscriber subscribes to pattern `notifications:user:*` and calls onMessage
// for each incoming message. onMessage receives channel and payload.
func (n *Notifier) StartPatternSubscriber(
	ctx context.Context, onMessage func(channel string, payload string),
) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, "notifications:user:*", "notifications:broadcast")
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("PANIC in PatternSubscriber: %v\n%s", r, debug.Stack())
						}
					}()
					onMessage(msg.Channel, msg.Payload)
				}()
			}
		}
	}()

	return nil
}

// UserChannel derives the Redis channel name for a user.
func UserChannel(userID uint) string {
	return "notifications:user:" + strconv.FormatUint(uint64(userID), 10)
}
