package notifications

import (
	"testing"

	"kindling/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		ev   Event
	}{
		{"like", &LikeEvent{FromUserID: 7}},
		{"match", &MatchEvent{MatchID: 3, PartnerID: 9}},
		{"message", &MessageEvent{Message: models.Message{MatchID: 3, SenderID: 7, Kind: models.MessageKindText, Content: "hi"}}},
		{"notification", &NotificationEvent{Notification: models.Notification{RecipientID: 9, Kind: models.NotificationMatch}}},
		{"read", &ReadEvent{MatchID: 3, ReaderID: 9, Count: 4}},
		{"typing", &TypingEvent{MatchID: 3, UserID: 7, IsTyping: true, ExpiresInMS: 4000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := EncodeEvent(tt.ev)
			require.NoError(t, err)

			decoded, err := DecodeEvent(payload)
			require.NoError(t, err)
			assert.Equal(t, tt.ev.Type(), decoded.Type())
			assert.Equal(t, tt.ev, decoded)
		})
	}
}

func TestDecodeEvent_UnknownTag(t *testing.T) {
	_, err := DecodeEvent([]byte(`{"type":"presence","payload":{}}`))
	assert.Error(t, err, "the variant set is closed; unknown tags are rejected")
}

func TestDecodeEvent_Malformed(t *testing.T) {
	_, err := DecodeEvent([]byte(`not json`))
	assert.Error(t, err)

	_, err = DecodeEvent([]byte(`{"type":"like","payload":"not an object"}`))
	assert.Error(t, err)
}
