package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forum-bot/models"
)

func TestMerits(t *testing.T) {
	subs := []models.Subscriber{
		{ChatID: "chat-1", Username: "alice", UID: 12345, EnableMerits: true},
		{ChatID: "chat-2", Username: "bob", UID: 54321, EnableMerits: true},
	}
	merits := []models.Merit{
		{ID: 1, Amount: 2, ReceiverUID: 12345},
		{ID: 2, Amount: 5, ReceiverUID: 99999},
	}

	intents := Merits(subs, merits)
	require.Len(t, intents, 1)
	assert.Equal(t, "chat-1", intents[0].Subscriber.ChatID)
	assert.Equal(t, int64(1), intents[0].Merit.ID)
}

func TestMerits_SkipsNotified(t *testing.T) {
	subs := []models.Subscriber{{ChatID: "chat-1", UID: 12345}}
	merits := []models.Merit{{ID: 1, ReceiverUID: 12345, Notified: true}}

	assert.Empty(t, Merits(subs, merits))
}

func TestMerits_UnknownUIDNeverMatches(t *testing.T) {
	subs := []models.Subscriber{{ChatID: "chat-1", UID: 0}}
	merits := []models.Merit{{ID: 1, ReceiverUID: 0}}

	assert.Empty(t, Merits(subs, merits))
}
