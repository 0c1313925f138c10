package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	ConversationsKeyPrefix = "user:%d:conversations"
	MessageHistoryPrefix   = "match:%d:messages"
	UnreadSummaryKeyPrefix = "user:%d:unread"
)

const (
	ConversationsTTL  = 2 * time.Minute
	MessageHistoryTTL = 2 * time.Minute
	UnreadSummaryTTL  = 30 * time.Second
)

func ConversationsKey(userID uint) string {
	return fmt.Sprintf(ConversationsKeyPrefix, userID)
}

func MessageHistoryKey(matchID uint) string {
	return fmt.Sprintf(MessageHistoryPrefix, matchID)
}

func UnreadSummaryKey(userID uint) string {
	return fmt.Sprintf(UnreadSummaryKeyPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidateConversation drops the cached history for a match along with
// both participants' conversation lists and unread summaries.
func InvalidateConversation(ctx context.Context, matchID uint, participantIDs ...uint) {
	Invalidate(ctx, MessageHistoryKey(matchID))
	for _, id := range participantIDs {
		Invalidate(ctx, ConversationsKey(id))
		Invalidate(ctx, UnreadSummaryKey(id))
	}
}
