package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver
)

// Store wraps the relational database holding posts, topics, merits,
// subscribers, ignore rules and the per-subscriber dedup-set tables.
type Store struct {
	db *sql.DB
}

// NewStore opens (creating if necessary) the database at dbPath and
// ensures the schema exists.
func NewStore(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != ":memory:" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	log.Println("Successfully connected to the database at", dbPath)
	return s, nil
}

// NewMemoryStore opens an in-memory database. Used by tests.
func NewMemoryStore() (*Store, error) {
	return NewStore(":memory:")
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS posts (
			id INTEGER PRIMARY KEY,
			title TEXT NOT NULL,
			date INTEGER NOT NULL,
			author TEXT NOT NULL,
			author_uid INTEGER NOT NULL DEFAULT 0,
			content TEXT,
			link TEXT NOT NULL,
			created_at INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS post_mentioned (
			post_id INTEGER NOT NULL,
			chat_id TEXT NOT NULL,
			PRIMARY KEY (post_id, chat_id)
		);`,
		`CREATE TABLE IF NOT EXISTS post_tracked (
			post_id INTEGER NOT NULL,
			chat_id TEXT NOT NULL,
			PRIMARY KEY (post_id, chat_id)
		);`,
		`CREATE TABLE IF NOT EXISTS topics (
			id INTEGER PRIMARY KEY,
			title TEXT NOT NULL DEFAULT '',
			author TEXT NOT NULL DEFAULT '',
			link TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS topic_tracking (
			topic_id INTEGER NOT NULL,
			chat_id TEXT NOT NULL,
			PRIMARY KEY (topic_id, chat_id)
		);`,
		`CREATE TABLE IF NOT EXISTS merits (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			datetime INTEGER NOT NULL,
			amount INTEGER NOT NULL,
			sender_username TEXT NOT NULL,
			sender_link TEXT NOT NULL,
			post_title TEXT NOT NULL,
			post_link TEXT NOT NULL,
			receiver_uid INTEGER NOT NULL,
			notified INTEGER NOT NULL DEFAULT 0,
			UNIQUE (datetime, amount, post_link)
		);`,
		`CREATE TABLE IF NOT EXISTS subscribers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			chat_id TEXT NOT NULL UNIQUE,
			username TEXT NOT NULL,
			alt_username TEXT NOT NULL DEFAULT '',
			uid INTEGER NOT NULL DEFAULT 0,
			enable_mentions INTEGER NOT NULL DEFAULT 1,
			enable_merits INTEGER NOT NULL DEFAULT 0,
			notify_deleted INTEGER NOT NULL DEFAULT 0,
			language TEXT NOT NULL DEFAULT 'en'
		);`,
		`CREATE TABLE IF NOT EXISTS ignores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			kind TEXT NOT NULL,
			username TEXT NOT NULL DEFAULT '',
			link TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS ignore_chats (
			ignore_id INTEGER NOT NULL,
			chat_id TEXT NOT NULL,
			PRIMARY KEY (ignore_id, chat_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_posts_created ON posts(created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_posts_link ON posts(link);`,
		`CREATE INDEX IF NOT EXISTS idx_merits_notified ON merits(notified, datetime);`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}
