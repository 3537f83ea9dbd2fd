package models

import "time"

// Post represents a single forum message scraped from the recent-posts page
// or from a single-post backfill fetch. The forum's message id is the
// primary key and never changes.
type Post struct {
	ID        int64     `db:"id"`
	Title     string    `db:"title"`
	Date      time.Time `db:"date"`
	Author    string    `db:"author"`
	AuthorUID int64     `db:"author_uid"` // 0 until discovered by a backfill fetch
	Content   string    `db:"content"`    // raw HTML body
	Link      string    `db:"link"`
	CreatedAt time.Time `db:"created_at"` // first observation time, drives the recency window
}

// PlaceholderTitle is stored when a post is created from a merit listing
// before its real title is known. Posts carrying it are backfill targets.
const PlaceholderTitle = "~Unknown Title~"

// Topic represents a forum thread that at least one subscriber tracks.
type Topic struct {
	ID       int64  `db:"id"`
	Title    string `db:"title"`
	Author   string `db:"author"`
	Link     string `db:"link"`
	Tracking []string
}
