package matcher

import (
	"strings"

	"forum-bot/models"
	"forum-bot/parser"
)

// TrackedReplies finds replies inside tracked topics. A tracker that
// already got a mention notification for the same post is skipped
// entirely; a tracker that authored the reply gets Deliver=false so the
// pair is still recorded without notifying an author of their own post.
func TrackedReplies(snap Snapshot) []models.TrackIntent {
	var intents []models.TrackIntent
	for _, post := range snap.Posts {
		topicID := parser.TopicIDFromLink(post.Link)
		if topicID == 0 {
			continue
		}
		for _, topic := range snap.Topics {
			if topic.ID != topicID {
				continue
			}
			for _, chatID := range topic.Tracking {
				if snap.Tracked[post.ID][chatID] {
					continue
				}
				if snap.Mentioned[post.ID][chatID] {
					continue
				}
				sub := snap.SubscriberByChat[chatID]
				deliver := sub != nil && !strings.EqualFold(sub.Username, post.Author)
				intents = append(intents, models.TrackIntent{
					ChatID:     chatID,
					Subscriber: sub,
					Post:       post,
					Topic:      topic,
					Deliver:    deliver,
				})
			}
		}
	}
	return intents
}
