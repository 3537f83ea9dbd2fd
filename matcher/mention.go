package matcher

import (
	"regexp"
	"strings"

	"forum-bot/models"
	"forum-bot/parser"
)

// Mentions finds posts whose body names a subscriber. Self-mentions never
// match. A hit that an ignore rule or a disabled opt-in suppresses is
// still emitted with Deliver=false so the pair gets recorded and is never
// re-evaluated.
func Mentions(snap Snapshot) []models.MentionIntent {
	var intents []models.MentionIntent
	for _, post := range snap.Posts {
		for _, sub := range snap.Subscribers {
			if strings.EqualFold(post.Author, sub.Username) {
				continue
			}
			if snap.Mentioned[post.ID][sub.ChatID] {
				continue
			}
			if !bodyMentions(post.Content, sub) {
				continue
			}
			deliver := sub.EnableMentions && !suppressed(snap.Ignores, post, sub.ChatID)
			intents = append(intents, models.MentionIntent{
				Subscriber: sub,
				Post:       post,
				Deliver:    deliver,
			})
		}
	}
	return intents
}

func bodyMentions(content string, sub models.Subscriber) bool {
	if matchesWord(content, sub.Username) {
		return true
	}
	return sub.AltUsername != "" && matchesWord(content, sub.AltUsername)
}

// matchesWord tests a case-insensitive word-boundary match, so "alice"
// matches "hey alice!" but not "alicesmith".
func matchesWord(content, username string) bool {
	if username == "" {
		return false
	}
	re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(username) + `\b`)
	if err != nil {
		return false
	}
	return re.MatchString(content)
}

// suppressed reports whether any ignore rule applying to the chat targets
// the post's author or its canonical topic link.
func suppressed(ignores []models.Ignore, post models.Post, chatID string) bool {
	canonical := parser.CanonicalTopicLink(post.Link)
	for _, ignore := range ignores {
		if !contains(ignore.Ignoring, chatID) {
			continue
		}
		switch ignore.Kind {
		case models.IgnoreTopic:
			if ignore.Link == canonical {
				return true
			}
		case models.IgnoreUser:
			if ignore.Username == post.Author {
				return true
			}
		}
	}
	return false
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
