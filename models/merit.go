package models

import "time"

// Merit represents one reputation award observed on the merit-stats page.
// The upstream page exposes no award id, so (Datetime, Amount, PostLink)
// serves as the identity tuple.
type Merit struct {
	ID             int64     `db:"id"`
	Datetime       time.Time `db:"datetime"`
	Amount         int       `db:"amount"`
	SenderUsername string    `db:"sender_username"`
	SenderLink     string    `db:"sender_link"`
	PostTitle      string    `db:"post_title"`
	PostLink       string    `db:"post_link"`
	ReceiverUID    int64     `db:"receiver_uid"`
	Notified       bool      `db:"notified"`
}

// MeritCandidate is a merit line extracted from the stats page before it is
// correlated against stored posts. Position is the line's index in the
// listing and spaces out backfill fetches when the referenced post is
// incomplete.
type MeritCandidate struct {
	Datetime      time.Time
	Amount        int
	Sender        string
	SenderLink    string
	PostID        int64
	PostLink      string
	Position      int
	NeedsBackfill bool
}
