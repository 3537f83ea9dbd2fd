package parser

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"forum-bot/models"
)

// TopicInfo extracts a topic's title and starter from its first page. The
// title is the last breadcrumb entry; the starter is the first post's
// author. Both are cosmetic, so a page that lacks them still yields a
// usable topic as long as the link carries an id.
func TopicInfo(doc *goquery.Document, link string) (models.Topic, error) {
	id := TopicIDFromLink(link)
	if id == 0 {
		return models.Topic{}, fmt.Errorf("topic id in %q: %w", link, ErrMissingAnchor)
	}

	return models.Topic{
		ID:     id,
		Title:  strings.TrimSpace(doc.Find("#bodyarea > div > div > b").Last().Text()),
		Author: strings.TrimSpace(doc.Find("td.poster_info > b > a").First().Text()),
		Link:   CanonicalTopicLink(link),
	}, nil
}
