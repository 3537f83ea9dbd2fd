package matcher

import "forum-bot/models"

// SubscriberLookup resolves a forum uid to a deletion-notifiable
// subscriber, or nil.
type SubscriberLookup func(uid int64) (*models.Subscriber, error)

// Deletions groups a removed topic's stored posts per affected author, so
// each subscriber gets one notification no matter how many of their posts
// vanished with the topic.
func Deletions(event models.ModerationEvent, posts []models.Post, lookup SubscriberLookup) ([]models.DeletionIntent, error) {
	grouped := make(map[int64]*models.DeletionIntent)
	var order []int64

	for _, post := range posts {
		if post.AuthorUID == 0 {
			continue
		}
		sub, err := lookup(post.AuthorUID)
		if err != nil {
			return nil, err
		}
		if sub == nil {
			continue
		}
		if intent, ok := grouped[sub.ID]; ok {
			intent.Posts = append(intent.Posts, post)
			continue
		}
		grouped[sub.ID] = &models.DeletionIntent{
			Subscriber: *sub,
			Event:      event,
			Posts:      []models.Post{post},
		}
		order = append(order, sub.ID)
	}

	intents := make([]models.DeletionIntent, 0, len(order))
	for _, id := range order {
		intents = append(intents, *grouped[id])
	}
	return intents, nil
}
