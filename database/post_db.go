package database

import (
	"database/sql"
	"fmt"
	"time"

	"forum-bot/models"
)

// InsertPostIfAbsent stores a post keyed by its forum message id. A
// duplicate insert is a no-op; the returned flag reports whether this call
// created the row.
func (s *Store) InsertPostIfAbsent(post models.Post) (bool, error) {
	res, err := s.db.Exec(
		`INSERT OR IGNORE INTO posts (id, title, date, author, author_uid, content, link, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		post.ID, post.Title, post.Date.Unix(), post.Author, post.AuthorUID,
		post.Content, post.Link, time.Now().Unix(),
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert post %d: %w", post.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read insert result for post %d: %w", post.ID, err)
	}
	return n > 0, nil
}

// FindPostByID returns the stored post or nil when absent.
func (s *Store) FindPostByID(id int64) (*models.Post, error) {
	row := s.db.QueryRow(
		`SELECT id, title, date, author, author_uid, content, link, created_at FROM posts WHERE id = ?`, id)
	post, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query post %d: %w", id, err)
	}
	return &post, nil
}

// FindRecentPosts returns the newest posts first observed within the
// trailing window, capped at limit.
func (s *Store) FindRecentPosts(window time.Duration, limit int) ([]models.Post, error) {
	cutoff := time.Now().Add(-window).Unix()
	rows, err := s.db.Query(
		`SELECT id, title, date, author, author_uid, content, link, created_at
		 FROM posts WHERE created_at >= ? ORDER BY id DESC LIMIT ?`, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent posts: %w", err)
	}
	defer rows.Close()
	return collectPosts(rows)
}

// FindPostsByTopic returns every stored post that belongs to the given
// topic id.
func (s *Store) FindPostsByTopic(topicID int64) ([]models.Post, error) {
	pattern := fmt.Sprintf("%%topic=%d.msg%%", topicID)
	rows, err := s.db.Query(
		`SELECT id, title, date, author, author_uid, content, link, created_at
		 FROM posts WHERE link LIKE ?`, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts for topic %d: %w", topicID, err)
	}
	defer rows.Close()
	return collectPosts(rows)
}

// UpdatePostBackfill completes a post created from incomplete listing data
// with the title and author id discovered by a single-post fetch.
func (s *Store) UpdatePostBackfill(id int64, title string, authorUID int64) error {
	_, err := s.db.Exec(`UPDATE posts SET title = ?, author_uid = ? WHERE id = ?`, title, authorUID, id)
	if err != nil {
		return fmt.Errorf("failed to backfill post %d: %w", id, err)
	}
	return nil
}

// AppendPostMentioned adds a chat id to the post's mention dedup set. The
// append is an atomic test-and-set: true means this caller won the gate
// and owns the (post, chat) pair; false means it was already present.
func (s *Store) AppendPostMentioned(postID int64, chatID string) (bool, error) {
	return s.appendSet("post_mentioned", "post_id", postID, chatID)
}

// AppendPostTracked adds a chat id to the post's tracked-reply dedup set
// with the same test-and-set semantics as AppendPostMentioned.
func (s *Store) AppendPostTracked(postID int64, chatID string) (bool, error) {
	return s.appendSet("post_tracked", "post_id", postID, chatID)
}

// PostMentionedContains reports whether the chat id is already in the
// post's mention dedup set.
func (s *Store) PostMentionedContains(postID int64, chatID string) (bool, error) {
	var one int
	err := s.db.QueryRow(
		`SELECT 1 FROM post_mentioned WHERE post_id = ? AND chat_id = ?`, postID, chatID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check mention set for post %d: %w", postID, err)
	}
	return true, nil
}

// MentionedSets loads the mention dedup sets of the given posts in one
// query, keyed by post id.
func (s *Store) MentionedSets(postIDs []int64) (map[int64]map[string]bool, error) {
	return s.loadSets("post_mentioned", "post_id", postIDs)
}

// TrackedSets loads the tracked-reply dedup sets of the given posts.
func (s *Store) TrackedSets(postIDs []int64) (map[int64]map[string]bool, error) {
	return s.loadSets("post_tracked", "post_id", postIDs)
}

func (s *Store) appendSet(table, keyColumn string, key int64, chatID string) (bool, error) {
	res, err := s.db.Exec(
		fmt.Sprintf(`INSERT OR IGNORE INTO %s (%s, chat_id) VALUES (?, ?)`, table, keyColumn),
		key, chatID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to append to %s for %d: %w", table, key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read append result for %s: %w", table, err)
	}
	return n > 0, nil
}

func (s *Store) loadSets(table, keyColumn string, keys []int64) (map[int64]map[string]bool, error) {
	sets := make(map[int64]map[string]bool, len(keys))
	if len(keys) == 0 {
		return sets, nil
	}

	query := fmt.Sprintf(`SELECT %s, chat_id FROM %s WHERE %s IN (%s)`,
		keyColumn, table, keyColumn, placeholders(len(keys)))
	args := make([]interface{}, len(keys))
	for i, k := range keys {
		args[i] = k
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s sets: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var key int64
		var chatID string
		if err := rows.Scan(&key, &chatID); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		if sets[key] == nil {
			sets[key] = make(map[string]bool)
		}
		sets[key][chatID] = true
	}
	return sets, rows.Err()
}

func placeholders(n int) string {
	out := make([]byte, 0, n*2)
	for i := 0; i < n; i++ {
		if i > 0 {
			out = append(out, ',')
		}
		out = append(out, '?')
	}
	return string(out)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPost(r rowScanner) (models.Post, error) {
	var post models.Post
	var date, createdAt int64
	var content sql.NullString
	err := r.Scan(&post.ID, &post.Title, &date, &post.Author, &post.AuthorUID,
		&content, &post.Link, &createdAt)
	if err != nil {
		return models.Post{}, err
	}
	post.Date = time.Unix(date, 0).UTC()
	post.CreatedAt = time.Unix(createdAt, 0).UTC()
	post.Content = content.String
	return post, nil
}

func collectPosts(rows *sql.Rows) ([]models.Post, error) {
	var posts []models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}
