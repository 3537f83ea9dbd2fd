package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forum-bot/models"
)

func TestTrackTopic(t *testing.T) {
	store := newTestStore(t)

	created, err := store.InsertTopicIfAbsent(models.Topic{ID: 555, Link: "https://bitcointalk.org/index.php?topic=555"})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = store.InsertTopicIfAbsent(models.Topic{ID: 555})
	require.NoError(t, err)
	assert.False(t, created)

	added, err := store.TrackTopic(555, "chat-1")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = store.TrackTopic(555, "chat-1")
	require.NoError(t, err)
	assert.False(t, added, "tracking is idempotent per chat")
}

func TestListTrackedTopics_GroupsChats(t *testing.T) {
	store := newTestStore(t)

	_, err := store.InsertTopicIfAbsent(models.Topic{ID: 555, Title: "Hello"})
	require.NoError(t, err)
	_, err = store.InsertTopicIfAbsent(models.Topic{ID: 600, Title: "Untracked"})
	require.NoError(t, err)

	_, err = store.TrackTopic(555, "chat-1")
	require.NoError(t, err)
	_, err = store.TrackTopic(555, "chat-2")
	require.NoError(t, err)

	topics, err := store.ListTrackedTopics()
	require.NoError(t, err)
	require.Len(t, topics, 1, "topics nobody tracks are not listed")
	assert.Equal(t, int64(555), topics[0].ID)
	assert.ElementsMatch(t, []string{"chat-1", "chat-2"}, topics[0].Tracking)
}

func TestUntrackTopic(t *testing.T) {
	store := newTestStore(t)

	_, err := store.InsertTopicIfAbsent(models.Topic{ID: 555})
	require.NoError(t, err)
	_, err = store.TrackTopic(555, "chat-1")
	require.NoError(t, err)
	_, err = store.TrackTopic(555, "chat-2")
	require.NoError(t, err)

	require.NoError(t, store.UntrackTopic(555, "chat-1"))

	topics, err := store.ListTrackedTopics()
	require.NoError(t, err)
	require.Len(t, topics, 1)
	assert.Equal(t, []string{"chat-2"}, topics[0].Tracking)
}

func TestTopicsTrackedBy(t *testing.T) {
	store := newTestStore(t)

	_, err := store.InsertTopicIfAbsent(models.Topic{ID: 555, Title: "First"})
	require.NoError(t, err)
	_, err = store.InsertTopicIfAbsent(models.Topic{ID: 600, Title: "Second"})
	require.NoError(t, err)

	_, err = store.TrackTopic(555, "chat-1")
	require.NoError(t, err)
	_, err = store.TrackTopic(600, "chat-2")
	require.NoError(t, err)

	topics, err := store.TopicsTrackedBy("chat-1")
	require.NoError(t, err)
	require.Len(t, topics, 1)
	assert.Equal(t, "First", topics[0].Title)
}
