package notifications

import (
	"context"
	"log"
	"runtime/debug"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const broadcastChannel = "notifications:broadcast"

// Notifier publishes encoded events into Redis channels. A nil client
// degrades every call to a no-op so single-process deployments and
// tests run without Redis.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishUser sends an encoded event to a user's channel.
func (n *Notifier) PublishUser(ctx context.Context, userID uint, payload []byte) error {
	if n.rdb == nil {
		return nil
	}
	return n.rdb.Publish(ctx, UserChannel(userID), payload).Err()
}

// PublishBroadcast sends an encoded event to all connected users.
func (n *Notifier) PublishBroadcast(ctx context.Context, payload []byte) error {
	if n.rdb == nil {
		return nil
	}
	return n.rdb.Publish(ctx, broadcastChannel, payload).Err()
}

// PublishMatch sends an encoded event to a match's conversation channel.
func (n *Notifier) PublishMatch(ctx context.Context, matchID uint, payload []byte) error {
	if n.rdb == nil {
		return nil
	}
	return n.rdb.Publish(ctx, MatchChannel(matchID), payload).Err()
}

// PublishTyping sends an encoded typing event to a match's typing channel.
func (n *Notifier) PublishTyping(ctx context.Context, matchID uint, payload []byte) error {
	if n.rdb == nil {
		return nil
	}
	return n.rdb.Publish(ctx, TypingChannel(matchID), payload).Err()
}

// StartUserSubscriber subscribes to the per-user pattern plus the
// broadcast channel and calls onMessage for each incoming message.
func (n *Notifier) StartUserSubscriber(
	ctx context.Context, onMessage func(channel string, payload string),
) error {
	return n.startSubscriber(ctx, onMessage, "notifications:user:*", broadcastChannel)
}

// StartMatchSubscriber subscribes to match conversation and typing
// patterns and calls onMessage for each incoming message.
func (n *Notifier) StartMatchSubscriber(
	ctx context.Context, onMessage func(channel string, payload string),
) error {
	return n.startSubscriber(ctx, onMessage, "chat:match:*", "typing:match:*")
}

func (n *Notifier) startSubscriber(
	ctx context.Context, onMessage func(channel string, payload string), patterns ...string,
) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, patterns...)
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
							log.Printf("PANIC in subscriber: %v\n%s", r, debug.Stack())
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

// MatchChannel derives the Redis channel name for a match conversation.
func MatchChannel(matchID uint) string {
	return "chat:match:" + strconv.FormatUint(uint64(matchID), 10)
}

// TypingChannel derives the Redis channel name for typing indicators.
func TypingChannel(matchID uint) string {
	return "typing:match:" + strconv.FormatUint(uint64(matchID), 10)
}
