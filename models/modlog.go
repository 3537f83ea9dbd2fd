package models

import "time"

// ModerationEvent records a topic removal seen on the moderation log. The
// Notified flag gates processing of the whole event: it is claimed before
// the per-author fan-out is computed, so a removal is never fanned out
// twice.
type ModerationEvent struct {
	TopicID   int64     `json:"topic_id"`
	Title     string    `json:"title"`
	Notified  bool      `json:"notified"`
	CreatedAt time.Time `json:"created_at"`
}

// AddressRecord accumulates the posts in which a crypto address was seen.
type AddressRecord struct {
	Coin     string            `json:"coin"`
	Address  string            `json:"address"`
	Mentions []AddressSighting `json:"mentions"`
}

// AddressSighting is one occurrence of an address inside a post body.
type AddressSighting struct {
	Author    string `json:"author"`
	AuthorUID int64  `json:"author_uid"`
	PostURL   string `json:"post_url"`
}
