package bot

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"forum-bot/database"
	"forum-bot/fetcher"
	"forum-bot/matcher"
	"forum-bot/models"
	"forum-bot/parser"
	"forum-bot/utils"
)

// previewLength caps the cleaned post excerpt included in notifications.
const previewLength = 150

// Pipeline wires one polling cycle together: fetch, parse, store, match,
// gate through the dedup ledger, dispatch. Cycles share nothing but the
// stores, so any of them can fail or lag without stalling the others.
type Pipeline struct {
	Store      *database.Store
	Modlog     *database.ModlogStore
	Addresses  *database.AddressStore
	Fetcher    fetcher.Fetcher
	Dispatcher Dispatcher

	BaseURL         string
	PostWindow      time.Duration
	MeritWindow     time.Duration
	PostLimit       int
	BackfillStagger time.Duration
}

// loadSnapshot takes the once-per-cycle read of posts, subscribers,
// ignores, tracked topics and the batch's dedup sets.
func (p *Pipeline) loadSnapshot() (matcher.Snapshot, error) {
	snap := matcher.Snapshot{}

	posts, err := p.Store.FindRecentPosts(p.PostWindow, p.PostLimit)
	if err != nil {
		return snap, err
	}
	subscribers, err := p.Store.ListNotifiableSubscribers()
	if err != nil {
		return snap, err
	}
	all, err := p.Store.ListAllSubscribers()
	if err != nil {
		return snap, err
	}
	ignores, err := p.Store.ListIgnores()
	if err != nil {
		return snap, err
	}
	topics, err := p.Store.ListTrackedTopics()
	if err != nil {
		return snap, err
	}

	ids := postIDs(posts)
	mentioned, err := p.Store.MentionedSets(ids)
	if err != nil {
		return snap, err
	}
	tracked, err := p.Store.TrackedSets(ids)
	if err != nil {
		return snap, err
	}

	byChat := make(map[string]*models.Subscriber, len(all))
	for i := range all {
		byChat[all[i].ChatID] = &all[i]
	}

	snap.Posts = posts
	snap.Subscribers = subscribers
	snap.SubscriberByChat = byChat
	snap.Ignores = ignores
	snap.Topics = topics
	snap.Mentioned = mentioned
	snap.Tracked = tracked
	return snap, nil
}

// RunPostCycle evaluates recent posts against the registry. The tracked
// stage runs only after the mention stage's ledger writes have committed
// and re-reads the mention sets, so a post that just triggered a mention
// cannot also trigger a tracked-reply notification for the same chat.
func (p *Pipeline) RunPostCycle() error {
	snap, err := p.loadSnapshot()
	if err != nil {
		return fmt.Errorf("failed to load post-cycle snapshot: %w", err)
	}

	p.runMentionStage(snap)
	p.runAddressStage(snap)

	// Stage dependency: refresh the mention sets written above before
	// the tracked matcher reads them.
	mentioned, err := p.Store.MentionedSets(postIDs(snap.Posts))
	if err != nil {
		return fmt.Errorf("failed to refresh mention sets: %w", err)
	}
	snap.Mentioned = mentioned

	p.runTrackedStage(snap)
	return nil
}

func (p *Pipeline) runMentionStage(snap matcher.Snapshot) {
	for _, intent := range matcher.Mentions(snap) {
		claimed, err := p.Store.AppendPostMentioned(intent.Post.ID, intent.Subscriber.ChatID)
		if err != nil {
			log.Printf("Dropping mention intent for post %d: %v", intent.Post.ID, err)
			continue
		}
		if !claimed || !intent.Deliver {
			continue
		}

		utils.Info("pipeline", "mention",
			fmt.Sprintf("%s mentioned by %s in post %d", intent.Subscriber.Username, intent.Post.Author, intent.Post.ID))

		err = p.Dispatcher.Dispatch(intent.Subscriber.ChatID, TemplateMention, intent.Subscriber.Language, map[string]string{
			"author":  intent.Post.Author,
			"title":   intent.Post.Title,
			"link":    intent.Post.Link,
			"preview": preview(intent.Post.Content),
		})
		if err != nil {
			// The pair is already claimed; best-effort delivery beats a duplicate.
			log.Printf("Mention dispatch failed for chat %s: %v", intent.Subscriber.ChatID, err)
		}
	}
}

func (p *Pipeline) runTrackedStage(snap matcher.Snapshot) {
	for _, intent := range matcher.TrackedReplies(snap) {
		claimed, err := p.Store.AppendPostTracked(intent.Post.ID, intent.ChatID)
		if err != nil {
			log.Printf("Dropping tracked-reply intent for post %d: %v", intent.Post.ID, err)
			continue
		}
		if !claimed || !intent.Deliver {
			continue
		}

		utils.Info("pipeline", "tracked-reply",
			fmt.Sprintf("post %d by %s in topic %d notified to %s", intent.Post.ID, intent.Post.Author, intent.Topic.ID, intent.ChatID))

		err = p.Dispatcher.Dispatch(intent.ChatID, TemplateTrackedReply, intent.Subscriber.Language, map[string]string{
			"author":  intent.Post.Author,
			"title":   intent.Post.Title,
			"link":    intent.Post.Link,
			"preview": preview(intent.Post.Content),
		})
		if err != nil {
			log.Printf("Tracked-reply dispatch failed for chat %s: %v", intent.ChatID, err)
		}
	}
}

func (p *Pipeline) runAddressStage(snap matcher.Snapshot) {
	for _, post := range snap.Posts {
		for _, address := range matcher.Addresses(post) {
			_, err := p.Addresses.RecordSighting("ETH", address, models.AddressSighting{
				Author:    post.Author,
				AuthorUID: post.AuthorUID,
				PostURL:   matcher.AddressPostURL(post.Link),
			})
			if err != nil {
				log.Printf("Dropping address sighting for post %d: %v", post.ID, err)
			}
		}
	}
}

// RunMeritCycle notifies receivers of unclaimed recent merits. The claim
// happens before dispatch: whoever flips the flag owns the notification.
func (p *Pipeline) RunMeritCycle() error {
	subscribers, err := p.Store.ListSubscribersWithUID()
	if err != nil {
		return fmt.Errorf("failed to load merit subscribers: %w", err)
	}
	merits, err := p.Store.FindUnnotifiedMerits(p.MeritWindow)
	if err != nil {
		return fmt.Errorf("failed to load unnotified merits: %w", err)
	}

	for _, intent := range matcher.Merits(subscribers, merits) {
		claimed, err := p.Store.ClaimMerit(intent.Merit.ID)
		if err != nil {
			log.Printf("Dropping merit intent %d: %v", intent.Merit.ID, err)
			continue
		}
		if !claimed || !intent.Subscriber.EnableMerits {
			continue
		}

		utils.Info("pipeline", "merit",
			fmt.Sprintf("%s received %d merit from %s", intent.Subscriber.Username, intent.Merit.Amount, intent.Merit.SenderUsername))

		err = p.Dispatcher.Dispatch(intent.Subscriber.ChatID, TemplateMerit, intent.Subscriber.Language, map[string]string{
			"amount": strconv.Itoa(intent.Merit.Amount),
			"sender": intent.Merit.SenderUsername,
			"title":  intent.Merit.PostTitle,
			"link":   p.BaseURL + intent.Merit.PostLink,
		})
		if err != nil {
			log.Printf("Merit dispatch failed for chat %s: %v", intent.Subscriber.ChatID, err)
		}
	}
	return nil
}

// RunDeletionCycle fans out topic removals to the authors whose posts
// vanished. Each event is claimed before its recipients are computed: a
// crash after the claim loses the event's notifications, which is the
// accepted cost of never fanning out twice.
func (p *Pipeline) RunDeletionCycle() error {
	events, err := p.Modlog.Unnotified()
	if err != nil {
		return fmt.Errorf("failed to load moderation events: %w", err)
	}

	for _, event := range events {
		claimed, err := p.Modlog.Claim(event.TopicID)
		if err != nil {
			log.Printf("Dropping moderation event %d: %v", event.TopicID, err)
			continue
		}
		if !claimed {
			continue
		}

		posts, err := p.Store.FindPostsByTopic(event.TopicID)
		if err != nil {
			log.Printf("Moderation event %d lost: %v", event.TopicID, err)
			continue
		}
		intents, err := matcher.Deletions(event, posts, p.Store.FindSubscriberByUID)
		if err != nil {
			log.Printf("Moderation event %d lost: %v", event.TopicID, err)
			continue
		}

		for _, intent := range intents {
			p.dispatchDeletion(intent)
		}
	}
	return nil
}

func (p *Pipeline) dispatchDeletion(intent models.DeletionIntent) {
	utils.Info("pipeline", "deletion",
		fmt.Sprintf("%d post(s) of %s gone with topic %d", len(intent.Posts), intent.Subscriber.Username, intent.Event.TopicID))

	var err error
	if len(intent.Posts) == 1 {
		post := intent.Posts[0]
		err = p.Dispatcher.Dispatch(intent.Subscriber.ChatID, TemplateDeleted, intent.Subscriber.Language, map[string]string{
			"title": post.Title,
			"link":  post.Link,
		})
	} else {
		err = p.Dispatcher.Dispatch(intent.Subscriber.ChatID, TemplateMultipleDeleted, intent.Subscriber.Language, map[string]string{
			"count": strconv.Itoa(len(intent.Posts)),
			"title": intent.Event.Title,
			"link":  fmt.Sprintf("%s/index.php?topic=%d", p.BaseURL, intent.Event.TopicID),
		})
	}
	if err != nil {
		log.Printf("Deletion dispatch failed for chat %s: %v", intent.Subscriber.ChatID, err)
	}
}

// preview renders the cleaned, truncated excerpt included in mention and
// tracked-reply notifications.
func preview(content string) string {
	text := parser.PlainText(content)
	runes := []rune(text)
	if len(runes) <= previewLength {
		return text
	}
	return string(runes[:previewLength]) + "..."
}

func postIDs(posts []models.Post) []int64 {
	ids := make([]int64, len(posts))
	for i, post := range posts {
		ids[i] = post.ID
	}
	return ids
}
