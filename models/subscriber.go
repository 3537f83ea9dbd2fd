package models

// Subscriber ties a notification channel to a forum identity, with
// per-feature opt-ins. ChatID is the Discord channel the bot delivers to.
type Subscriber struct {
	ID             int64  `db:"id"`
	ChatID         string `db:"chat_id"`
	Username       string `db:"username"`
	AltUsername    string `db:"alt_username"`
	UID            int64  `db:"uid"` // forum profile id, 0 while unknown
	EnableMentions bool   `db:"enable_mentions"`
	EnableMerits   bool   `db:"enable_merits"`
	NotifyDeleted  bool   `db:"notify_deleted"`
	Language       string `db:"language"`
}

// Ignore rule kinds.
const (
	IgnoreUser  = "user"
	IgnoreTopic = "topic"
)

// Ignore suppresses mention notifications for the listed chat ids when a
// matching post comes from the targeted author (kind "user") or lives under
// the targeted topic link (kind "topic").
type Ignore struct {
	ID       int64  `db:"id"`
	Kind     string `db:"kind"`
	Username string `db:"username"`
	Link     string `db:"link"`
	Ignoring []string
}
