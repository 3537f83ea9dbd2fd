package parser

import (
	"fmt"
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"forum-bot/models"
)

// modlogScanCap bounds how many log lines one cycle inspects.
const modlogScanCap = 100

// removalPrefix identifies topic-removal entries. All other moderation
// actions (moves, locks, splits) are ignored.
const removalPrefix = "Remove topic:"

// ModerationLog parses the moderation log into topic-removal events.
func ModerationLog(doc *goquery.Document) ([]models.ModerationEvent, error) {
	list := doc.Find("#helpmain > ul > li")
	if list.Length() == 0 {
		return nil, fmt.Errorf("moderation log list: %w", ErrMissingAnchor)
	}

	var events []models.ModerationEvent
	list.EachWithBreak(func(i int, e *goquery.Selection) bool {
		if i >= modlogScanCap {
			return false
		}
		if !strings.HasPrefix(strings.TrimSpace(e.Text()), removalPrefix) {
			return true
		}

		link, ok := e.Find("a:nth-child(2)").Attr("href")
		if !ok {
			log.Printf("Skipping modlog line %d: removal entry without topic link", i)
			return true
		}
		topicID := TopicIDFromLink(link)
		if topicID == 0 {
			log.Printf("Skipping modlog line %d: no topic id in %q", i, link)
			return true
		}

		events = append(events, models.ModerationEvent{
			TopicID: topicID,
			Title:   e.Find("i").First().Text(),
		})
		return true
	})
	return events, nil
}
