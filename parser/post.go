package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"forum-bot/models"
)

var lastEditRe = regexp.MustCompile(`Last edit:[\s\S]*`)

// SinglePost parses a topic page fetched for one specific message and
// returns that message as a complete post, including the author's numeric
// id and the full board-path title the listing page cannot provide. url
// must be the #msg-anchored link the page was fetched for.
func SinglePost(doc *goquery.Document, url string) (models.Post, error) {
	id, err := MessageIDFromLink(url)
	if err != nil {
		return models.Post{}, err
	}
	today, err := pageDate(doc)
	if err != nil {
		return models.Post{}, err
	}

	table := doc.Find("#quickModForm > table.bordercolor")
	if table.Length() == 0 {
		return models.Post{}, fmt.Errorf("posts table: %w", ErrMissingAnchor)
	}

	var post models.Post
	found := false
	table.Find("tbody > tr > td > table > tbody > tr > td > table > tbody > tr").
		EachWithBreak(func(_ int, row *goquery.Selection) bool {
			header := row.Find("td.td_headerandpost td > div[id*='subject'] > a")
			href, ok := header.Attr("href")
			if !ok || href != url {
				return true
			}

			p, err := postRow(row, header, doc, today, url)
			if err != nil {
				return true
			}
			p.ID = id
			post = p
			found = true
			return false
		})

	if !found {
		return models.Post{}, fmt.Errorf("message %d not found on topic page: %w", id, ErrMissingAnchor)
	}
	return post, nil
}

func postRow(row, header *goquery.Selection, doc *goquery.Document, today, url string) (models.Post, error) {
	receiver := row.Find("td.poster_info > b > a")
	author := strings.TrimSpace(receiver.Text())
	uid := profileUID(receiver.AttrOr("href", ""))

	dateText := row.Find("td.td_headerandpost table div:nth-child(2)").Text()
	dateText = strings.Replace(dateText, "Today at", today, 1)
	dateText = lastEditRe.ReplaceAllString(dateText, "")
	date, err := parseForumTime(dateText)
	if err != nil {
		return models.Post{}, err
	}

	content, _ := row.Find("td.td_headerandpost div.post").Html()

	return models.Post{
		Title:     boardPathTitle(doc, strings.TrimSpace(header.Text())),
		Date:      date,
		Author:    author,
		AuthorUID: uid,
		Content:   content,
		Link:      url,
	}, nil
}

// boardPathTitle prefixes the post subject with the board breadcrumb
// ("Economy / Services / <subject>"), skipping the forum root and the
// topic entry itself.
func boardPathTitle(doc *goquery.Document, subject string) string {
	boards := doc.Find("#bodyarea > div > div > b")
	n := boards.Length()

	var parts []string
	boards.Each(func(i int, b *goquery.Selection) {
		if i == 0 || i >= n-1 {
			return
		}
		parts = append(parts, b.Text())
	})

	if len(parts) == 0 {
		return subject
	}
	return strings.Join(parts, " / ") + " / " + subject
}
