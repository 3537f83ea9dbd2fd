package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forum-bot/models"
)

func testSubscriber(chatID, username string) models.Subscriber {
	return models.Subscriber{
		ChatID:         chatID,
		Username:       username,
		EnableMentions: true,
		EnableMerits:   true,
		NotifyDeleted:  true,
		Language:       "en",
	}
}

func TestUpsertSubscriber(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.UpsertSubscriber(testSubscriber("chat-1", "alice")))

	got, err := store.FindSubscriberByChat("chat-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "alice", got.Username)
	assert.True(t, got.EnableMentions)

	// Upserting the same chat updates in place.
	updated := *got
	updated.Username = "alice2"
	updated.UID = 12345
	updated.EnableMerits = false
	require.NoError(t, store.UpsertSubscriber(updated))

	got, err = store.FindSubscriberByChat("chat-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "alice2", got.Username)
	assert.Equal(t, int64(12345), got.UID)
	assert.False(t, got.EnableMerits)
}

func TestFindSubscriberByChat_Absent(t *testing.T) {
	store := newTestStore(t)

	got, err := store.FindSubscriberByChat("chat-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFindSubscriberByUID(t *testing.T) {
	store := newTestStore(t)

	sub := testSubscriber("chat-1", "alice")
	sub.UID = 12345
	require.NoError(t, store.UpsertSubscriber(sub))

	muted := testSubscriber("chat-2", "bob")
	muted.UID = 54321
	muted.NotifyDeleted = false
	require.NoError(t, store.UpsertSubscriber(muted))

	got, err := store.FindSubscriberByUID(12345)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "alice", got.Username)

	// Deletion notifications off means the uid does not resolve.
	got, err = store.FindSubscriberByUID(54321)
	require.NoError(t, err)
	assert.Nil(t, got)

	// The unknown-id sentinel never resolves to anyone.
	got, err = store.FindSubscriberByUID(0)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListNotifiableSubscribers(t *testing.T) {
	store := newTestStore(t)

	active := testSubscriber("chat-1", "alice")
	require.NoError(t, store.UpsertSubscriber(active))

	meritsOnly := testSubscriber("chat-2", "bob")
	meritsOnly.EnableMentions = false
	require.NoError(t, store.UpsertSubscriber(meritsOnly))

	silent := testSubscriber("chat-3", "carol")
	silent.EnableMentions = false
	silent.EnableMerits = false
	require.NoError(t, store.UpsertSubscriber(silent))

	subs, err := store.ListNotifiableSubscribers()
	require.NoError(t, err)
	require.Len(t, subs, 2)

	all, err := store.ListAllSubscribers()
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestListSubscribersWithUID(t *testing.T) {
	store := newTestStore(t)

	withUID := testSubscriber("chat-1", "alice")
	withUID.UID = 12345
	require.NoError(t, store.UpsertSubscriber(withUID))
	require.NoError(t, store.UpsertSubscriber(testSubscriber("chat-2", "bob")))

	subs, err := store.ListSubscribersWithUID()
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "alice", subs[0].Username)
}

func TestDeleteSubscriber(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.UpsertSubscriber(testSubscriber("chat-1", "alice")))
	require.NoError(t, store.DeleteSubscriber("chat-1"))

	got, err := store.FindSubscriberByChat("chat-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}
