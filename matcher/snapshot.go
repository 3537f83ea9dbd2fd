// Package matcher evaluates newly observed forum records against the
// subscriber registry and produces notification intents. Matchers are
// pure functions over a per-cycle snapshot; they are re-entrant and may be
// re-run over the same data, because the dedup gate (not the matcher)
// decides what actually fires.
package matcher

import "forum-bot/models"

// Snapshot is the read-once view of the world a post cycle works from:
// recent posts, the subscriber registry, ignore rules, tracked topics, and
// the dedup sets of the posts in the batch.
type Snapshot struct {
	Posts       []models.Post
	Subscribers []models.Subscriber
	Topics      []models.Topic
	Ignores     []models.Ignore

	// SubscriberByChat covers the whole registry, not just the
	// notifiable filter in Subscribers.
	SubscriberByChat map[string]*models.Subscriber

	Mentioned map[int64]map[string]bool // post id -> chat ids already handled for mentions
	Tracked   map[int64]map[string]bool // post id -> chat ids already handled for tracked replies
}
