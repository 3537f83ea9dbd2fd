package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ErrMissingAnchor is returned when a structural anchor the parser depends
// on (date header, post link) is absent from the page. Optional nodes never
// produce this error; they fall back to zero values.
var ErrMissingAnchor = errors.New("required structural anchor missing")

var (
	timeTailRe  = regexp.MustCompile(`\d\d:.*`)
	profileRe   = regexp.MustCompile(`profile;u=(\d+)`)
	msgIDRe     = regexp.MustCompile(`#msg(\d+)`)
	topicIDRe   = regexp.MustCompile(`topic=(\d+)`)
	fragmentRe  = regexp.MustCompile(`#.*`)
	msgSuffixRe = regexp.MustCompile(`\.msg.*`)
	spaceRe     = regexp.MustCompile(`\s+`)
)

// forumTimeLayout matches the forum's post timestamps once the "Today at"
// token has been resolved, e.g. "December 25, 2023, 03:04:05 PM".
const forumTimeLayout = "January 2, 2006, 3:04:05 PM"

// pageDate extracts the forum's current date from the page header, keeping
// only the date portion ("December 25, 2023,"). Every page kind carries the
// header; its absence means the markup changed underneath us.
func pageDate(doc *goquery.Document) (string, error) {
	raw := doc.Find("span.smalltext").First().Text()
	if raw == "" {
		return "", fmt.Errorf("page date header: %w", ErrMissingAnchor)
	}
	return strings.TrimSpace(timeTailRe.ReplaceAllString(raw, "")), nil
}

// parseForumTime parses a forum timestamp whose relative tokens have
// already been resolved against the page date.
func parseForumTime(s string) (time.Time, error) {
	normalized := strings.Join(strings.Fields(s), " ")
	t, err := time.Parse(forumTimeLayout, normalized)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", s, err)
	}
	return t, nil
}

// MessageIDFromLink extracts the forum message id from a #msg anchor.
func MessageIDFromLink(link string) (int64, error) {
	m := msgIDRe.FindStringSubmatch(link)
	if m == nil {
		return 0, fmt.Errorf("message id in %q: %w", link, ErrMissingAnchor)
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid message id in %q: %w", link, err)
	}
	return id, nil
}

// TopicIDFromLink extracts the topic id from a post or topic link, or 0
// when the link carries none.
func TopicIDFromLink(link string) int64 {
	m := topicIDRe.FindStringSubmatch(link)
	if m == nil {
		return 0
	}
	id, _ := strconv.ParseInt(m[1], 10, 64)
	return id
}

// CanonicalTopicLink strips message anchors, fragments and the sub-board
// suffix from a post link so it can be compared against topic-level ignore
// rules.
func CanonicalTopicLink(link string) string {
	s := strings.ReplaceAll(link, "/topic ", "")
	s = fragmentRe.ReplaceAllString(s, "")
	s = msgSuffixRe.ReplaceAllString(s, "")
	s = strings.Replace(s, ".0", "", 1)
	return strings.TrimSpace(s)
}

// profileUID pulls the numeric forum id out of a profile link, or 0 when
// the link is absent or malformed. Author ids are discovered lazily, so
// this never fails hard.
func profileUID(href string) int64 {
	m := profileRe.FindStringSubmatch(href)
	if m == nil {
		return 0
	}
	uid, _ := strconv.ParseInt(m[1], 10, 64)
	return uid
}

// PlainText converts a post's HTML body to cleaned plain text: quote
// blocks and their headers are dropped, line breaks become spaces, and
// whitespace runs collapse to a single space. The output is shared by
// address fingerprinting and notification previews, so both always agree
// on what a post "says".
func PlainText(rawHTML string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return strings.TrimSpace(spaceRe.ReplaceAllString(rawHTML, " "))
	}
	body := doc.Find("body")
	body.ChildrenFiltered("div.quoteheader").Remove()
	body.ChildrenFiltered("div.quote").Remove()
	body.Find("br").ReplaceWithHtml(" ")
	return strings.TrimSpace(spaceRe.ReplaceAllString(body.Text(), " "))
}
