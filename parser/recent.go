package parser

import (
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"forum-bot/models"
)

var lastPostByRe = regexp.MustCompile(`^[\s\S]*Last post by `)

// RecentPosts parses the recent-posts listing into typed posts, ordered
// oldest first so that insertion order matches posting order. Entries
// missing a required anchor are skipped and logged; the rest of the page
// still parses.
func RecentPosts(doc *goquery.Document) ([]models.Post, error) {
	today, err := pageDate(doc)
	if err != nil {
		return nil, err
	}

	entries := doc.Find(`div#bodyarea table[cellpadding="4"] > tbody`)
	posts := make([]models.Post, 0, entries.Length())

	// The page lists newest first; walk it backwards.
	for i := entries.Length() - 1; i >= 0; i-- {
		post, err := recentEntry(entries.Eq(i), today)
		if err != nil {
			log.Printf("Skipping recent-posts entry %d: %v", i, err)
			continue
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func recentEntry(e *goquery.Selection, today string) (models.Post, error) {
	link, ok := e.Find("td.middletext > div:nth-child(2) > b > a").Attr("href")
	if !ok || link == "" {
		return models.Post{}, fmt.Errorf("post link: %w", ErrMissingAnchor)
	}
	id, err := MessageIDFromLink(link)
	if err != nil {
		return models.Post{}, err
	}

	dateText := e.Find("td.middletext > div:nth-child(3)").Text()
	dateText = strings.Replace(dateText, "on: Today at", today, 1)
	dateText = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(dateText), "on:"))
	date, err := parseForumTime(dateText)
	if err != nil {
		return models.Post{}, err
	}

	title := strings.TrimSpace(e.Find("td.middletext > div:nth-child(2)").Text())
	author := strings.TrimSpace(lastPostByRe.ReplaceAllString(e.Find("td.catbg > span.middletext").Text(), ""))

	// The author's profile link is optional; ids are discovered lazily.
	uid := profileUID(e.Find("tr:nth-child(2) > td > span > a:nth-child(2)").AttrOr("href", ""))

	content, _ := e.Find("td.windowbg2 > div.post").Html()

	return models.Post{
		ID:        id,
		Title:     title,
		Date:      date,
		Author:    author,
		AuthorUID: uid,
		Content:   content,
		Link:      link,
	}, nil
}
