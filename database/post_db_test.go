package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forum-bot/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testPost(id int64) models.Post {
	return models.Post{
		ID:        id,
		Title:     "Re: Hello",
		Date:      time.Date(2023, time.December, 25, 9, 59, 1, 0, time.UTC),
		Author:    "alice",
		AuthorUID: 12345,
		Content:   "hey bob!",
		Link:      "https://bitcointalk.org/index.php?topic=555.msg777#msg777",
	}
}

func TestInsertPostIfAbsent(t *testing.T) {
	store := newTestStore(t)

	created, err := store.InsertPostIfAbsent(testPost(777))
	require.NoError(t, err)
	assert.True(t, created)

	// Re-observing the same post is a no-op.
	created, err = store.InsertPostIfAbsent(testPost(777))
	require.NoError(t, err)
	assert.False(t, created)
}

func TestFindPostByID(t *testing.T) {
	store := newTestStore(t)

	got, err := store.FindPostByID(777)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = store.InsertPostIfAbsent(testPost(777))
	require.NoError(t, err)

	got, err = store.FindPostByID(777)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Re: Hello", got.Title)
	assert.Equal(t, "alice", got.Author)
	assert.Equal(t, int64(12345), got.AuthorUID)
	assert.Equal(t, time.Date(2023, time.December, 25, 9, 59, 1, 0, time.UTC), got.Date)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestFindRecentPosts_Limit(t *testing.T) {
	store := newTestStore(t)
	for id := int64(1); id <= 5; id++ {
		_, err := store.InsertPostIfAbsent(testPost(id))
		require.NoError(t, err)
	}

	posts, err := store.FindRecentPosts(time.Hour, 3)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, int64(5), posts[0].ID)
	assert.Equal(t, int64(3), posts[2].ID)
}

func TestFindPostsByTopic(t *testing.T) {
	store := newTestStore(t)

	in := testPost(777)
	in.Link = "https://bitcointalk.org/index.php?topic=555.msg777#msg777"
	_, err := store.InsertPostIfAbsent(in)
	require.NoError(t, err)

	other := testPost(800)
	other.Link = "https://bitcointalk.org/index.php?topic=600.msg800#msg800"
	_, err = store.InsertPostIfAbsent(other)
	require.NoError(t, err)

	posts, err := store.FindPostsByTopic(555)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, int64(777), posts[0].ID)
}

func TestUpdatePostBackfill(t *testing.T) {
	store := newTestStore(t)

	stub := testPost(777)
	stub.Title = models.PlaceholderTitle
	stub.AuthorUID = 0
	_, err := store.InsertPostIfAbsent(stub)
	require.NoError(t, err)

	require.NoError(t, store.UpdatePostBackfill(777, "Economy / Services / Re: Hello", 12345))

	got, err := store.FindPostByID(777)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Economy / Services / Re: Hello", got.Title)
	assert.Equal(t, int64(12345), got.AuthorUID)
}

func TestAppendPostMentioned_TestAndSet(t *testing.T) {
	store := newTestStore(t)

	won, err := store.AppendPostMentioned(777, "chat-1")
	require.NoError(t, err)
	assert.True(t, won)

	won, err = store.AppendPostMentioned(777, "chat-1")
	require.NoError(t, err)
	assert.False(t, won, "second append for the same pair must lose the gate")

	won, err = store.AppendPostMentioned(777, "chat-2")
	require.NoError(t, err)
	assert.True(t, won, "a different chat is a different pair")

	has, err := store.PostMentionedContains(777, "chat-1")
	require.NoError(t, err)
	assert.True(t, has)

	has, err = store.PostMentionedContains(778, "chat-1")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestMentionedSets(t *testing.T) {
	store := newTestStore(t)

	_, err := store.AppendPostMentioned(777, "chat-1")
	require.NoError(t, err)
	_, err = store.AppendPostMentioned(777, "chat-2")
	require.NoError(t, err)
	_, err = store.AppendPostTracked(778, "chat-1")
	require.NoError(t, err)

	mentioned, err := store.MentionedSets([]int64{777, 778})
	require.NoError(t, err)
	assert.True(t, mentioned[777]["chat-1"])
	assert.True(t, mentioned[777]["chat-2"])
	assert.Empty(t, mentioned[778])

	tracked, err := store.TrackedSets([]int64{777, 778})
	require.NoError(t, err)
	assert.True(t, tracked[778]["chat-1"])
	assert.Empty(t, tracked[777])

	empty, err := store.MentionedSets(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
