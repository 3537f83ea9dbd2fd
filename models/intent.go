package models

// Notification intents produced by the matching engine. An intent is a
// candidate notification: the pipeline still has to win the dedup gate
// before anything is sent.

// MentionIntent is emitted when a post body matches a subscriber's
// username. Deliver is false when the match must only be recorded (ignore
// rule hit or mentions disabled) so the pair is not re-evaluated forever.
type MentionIntent struct {
	Subscriber Subscriber
	Post       Post
	Deliver    bool
}

// TrackIntent is emitted for a reply inside a tracked topic. Subscriber is
// nil when the tracking chat no longer maps to a registered subscriber;
// the pair is still recorded in that case. Deliver is false when the
// tracker authored the reply.
type TrackIntent struct {
	ChatID     string
	Subscriber *Subscriber
	Post       Post
	Topic      Topic
	Deliver    bool
}

// MeritIntent pairs an unnotified merit with its receiver.
type MeritIntent struct {
	Subscriber Subscriber
	Merit      Merit
}

// DeletionIntent groups all of one author's posts that vanished with a
// removed topic into a single notification.
type DeletionIntent struct {
	Subscriber Subscriber
	Event      ModerationEvent
	Posts      []Post
}
