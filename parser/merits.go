package parser

import (
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"forum-bot/models"
)

// meritListCap bounds how many listing lines one cycle inspects. The page
// shows far more history than the recency window ever cares about.
const meritListCap = 30

var (
	meritTailRe   = regexp.MustCompile(`: \d+ from`)
	meritSenderRe = regexp.MustCompile(`">([^<]*)</a> for`)
	meritAmountRe = regexp.MustCompile(`: (\d+) from`)
	meritLinkRe   = regexp.MustCompile(`for <a href="(/index\.php\?[^"]+)">`)
)

// MeritList parses the merit-stats listing into candidate awards. The page
// is loosely delimited text, so extraction leans on the same tokens the
// forum has rendered for years; a line missing its date or post link is
// skipped and logged. Candidates keep their listing position so backfill
// fetches can be staggered.
func MeritList(doc *goquery.Document) ([]models.MeritCandidate, error) {
	today, err := pageDate(doc)
	if err != nil {
		return nil, err
	}

	var candidates []models.MeritCandidate
	doc.Find("ul > li").EachWithBreak(func(i int, e *goquery.Selection) bool {
		if i >= meritListCap {
			return false
		}
		candidate, err := meritLine(e, today, i)
		if err != nil {
			log.Printf("Skipping merit line %d: %v", i, err)
			return true
		}
		candidates = append(candidates, candidate)
		return true
	})
	return candidates, nil
}

func meritLine(e *goquery.Selection, today string, position int) (models.MeritCandidate, error) {
	raw, err := e.Html()
	if err != nil {
		return models.MeritCandidate{}, fmt.Errorf("failed to read merit line html: %w", err)
	}
	fixed := strings.Replace(raw, "<b>Today</b> at", today, 1)

	tail := meritTailRe.FindStringIndex(fixed)
	if tail == nil {
		return models.MeritCandidate{}, fmt.Errorf("award date: %w", ErrMissingAnchor)
	}
	date, err := parseForumTime(fixed[:tail[0]])
	if err != nil {
		return models.MeritCandidate{}, err
	}

	linkMatch := meritLinkRe.FindStringSubmatch(fixed)
	if linkMatch == nil {
		return models.MeritCandidate{}, fmt.Errorf("post link: %w", ErrMissingAnchor)
	}
	postLink := linkMatch[1]

	postID, err := MessageIDFromLink(fixed)
	if err != nil {
		return models.MeritCandidate{}, err
	}

	amount := 0
	if m := meritAmountRe.FindStringSubmatch(fixed); m != nil {
		amount, _ = strconv.Atoi(m[1])
	}

	sender := ""
	if m := meritSenderRe.FindStringSubmatch(fixed); m != nil {
		sender = m[1]
	}

	senderLink := e.Find("a:nth-child(2)").First().AttrOr("href", "")
	if idx := strings.Index(senderLink, "/index.php"); idx > 0 {
		senderLink = senderLink[idx:]
	}

	return models.MeritCandidate{
		Datetime:   date,
		Amount:     amount,
		Sender:     sender,
		SenderLink: senderLink,
		PostID:     postID,
		PostLink:   postLink,
		Position:   position,
	}, nil
}
