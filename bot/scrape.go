package bot

import (
	"fmt"
	"log"
	"time"

	"forum-bot/fetcher"
	"forum-bot/models"
	"forum-bot/parser"
)

// ScrapeRecent ingests the recent-posts listing. Posts are inserted oldest
// first; re-observed posts are no-ops.
func (p *Pipeline) ScrapeRecent() error {
	doc, err := p.Fetcher.RecentPosts()
	if err != nil {
		return p.fetchFailed("recent posts", err)
	}

	posts, err := parser.RecentPosts(doc)
	if err != nil {
		log.Printf("Recent-posts page unparsable: %v", err)
		return nil
	}

	for _, post := range posts {
		if _, err := p.Store.InsertPostIfAbsent(post); err != nil {
			log.Printf("Dropping post %d: %v", post.ID, err)
		}
	}
	return nil
}

// ScrapeMerits ingests the merit-stats listing. A candidate whose
// referenced post is complete becomes a stored merit (when its receiver is
// registered); one whose post is missing or incomplete schedules a
// staggered single-post backfill instead, and the candidate is picked up
// again on a later scrape once the post is complete.
func (p *Pipeline) ScrapeMerits() error {
	doc, err := p.Fetcher.MeritStats()
	if err != nil {
		return p.fetchFailed("merit stats", err)
	}

	candidates, err := parser.MeritList(doc)
	if err != nil {
		log.Printf("Merit-stats page unparsable: %v", err)
		return nil
	}

	subscribers, err := p.Store.ListSubscribersWithUID()
	if err != nil {
		return fmt.Errorf("failed to load merit subscribers: %w", err)
	}
	registered := make(map[int64]bool, len(subscribers))
	for _, sub := range subscribers {
		registered[sub.UID] = true
	}

	cutoff := time.Now().UTC().Add(-p.PostWindow)
	for _, candidate := range candidates {
		if candidate.Datetime.Before(cutoff) {
			continue
		}
		if err := p.processMeritCandidate(candidate, registered); err != nil {
			log.Printf("Dropping merit candidate at position %d: %v", candidate.Position, err)
		}
	}
	return nil
}

func (p *Pipeline) processMeritCandidate(candidate models.MeritCandidate, registered map[int64]bool) error {
	post, err := p.Store.FindPostByID(candidate.PostID)
	if err != nil {
		return err
	}

	if post == nil || post.Title == "" || post.Title == models.PlaceholderTitle || post.AuthorUID == 0 {
		candidate.NeedsBackfill = true
		p.scheduleBackfill(candidate)
		return nil
	}

	if !registered[post.AuthorUID] {
		return nil
	}

	_, err = p.Store.InsertMeritIfAbsent(models.Merit{
		Datetime:       candidate.Datetime,
		Amount:         candidate.Amount,
		SenderUsername: candidate.Sender,
		SenderLink:     candidate.SenderLink,
		PostTitle:      post.Title,
		PostLink:       candidate.PostLink,
		ReceiverUID:    post.AuthorUID,
	})
	return err
}

// scheduleBackfill fetches the referenced post after a delay proportional
// to the candidate's listing position, so a page full of unknown posts
// does not burst thirty fetches at the source.
func (p *Pipeline) scheduleBackfill(candidate models.MeritCandidate) {
	url := p.BaseURL + candidate.PostLink
	time.AfterFunc(time.Duration(candidate.Position)*p.BackfillStagger, func() {
		if err := p.backfillPost(url); err != nil {
			if fetcher.IsFatal(err) {
				log.Fatalf("Backfill fetch hit a broken network environment: %v", err)
			}
			log.Printf("Backfill for %s failed: %v", url, err)
		}
	})
}

// backfillPost completes (or creates) a post from its own topic page.
func (p *Pipeline) backfillPost(url string) error {
	doc, err := p.Fetcher.SinglePost(url)
	if err != nil {
		return err
	}
	post, err := parser.SinglePost(doc, url)
	if err != nil {
		return err
	}

	existing, err := p.Store.FindPostByID(post.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return p.Store.UpdatePostBackfill(post.ID, post.Title, post.AuthorUID)
	}
	_, err = p.Store.InsertPostIfAbsent(post)
	return err
}

// ScrapeModlog ingests topic removals from the moderation log.
func (p *Pipeline) ScrapeModlog() error {
	doc, err := p.Fetcher.ModerationLog()
	if err != nil {
		return p.fetchFailed("moderation log", err)
	}

	events, err := parser.ModerationLog(doc)
	if err != nil {
		log.Printf("Moderation log unparsable: %v", err)
		return nil
	}

	for _, event := range events {
		if _, err := p.Modlog.InsertIfAbsent(event); err != nil {
			log.Printf("Dropping moderation event %d: %v", event.TopicID, err)
		}
	}
	return nil
}

// fetchFailed turns a transient fetch error into a logged retry-next-tick
// no-op, and propagates the fatal DNS case so the scheduler can halt.
func (p *Pipeline) fetchFailed(page string, err error) error {
	if fetcher.IsFatal(err) {
		return err
	}
	log.Printf("Failed to fetch %s, retrying next tick: %v", page, err)
	return nil
}
