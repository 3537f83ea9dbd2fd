package matcher

import "forum-bot/models"

// Merits pairs unclaimed merits with the subscribers that received them.
// subscribers must already be filtered to those with a known forum id.
func Merits(subscribers []models.Subscriber, merits []models.Merit) []models.MeritIntent {
	var intents []models.MeritIntent
	for _, merit := range merits {
		if merit.Notified {
			continue
		}
		for _, sub := range subscribers {
			if sub.UID != 0 && sub.UID == merit.ReceiverUID {
				intents = append(intents, models.MeritIntent{Subscriber: sub, Merit: merit})
			}
		}
	}
	return intents
}
