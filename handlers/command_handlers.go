package handlers

import (
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"forum-bot/bot"
	"forum-bot/models"
	"forum-bot/parser"
	"forum-bot/utils"
)

// HandleWatch registers the invoking channel for a forum username. An
// existing registration keeps its settings and only changes names.
func HandleWatch(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := optionMap(i)
	username := strings.TrimSpace(opts["username"].StringValue())
	if username == "" {
		respond(s, i, "🚫 A username is required.")
		return
	}

	sub, err := b.Store.FindSubscriberByChat(i.ChannelID)
	if err != nil {
		respondError(s, i, "watch", err)
		return
	}
	if sub == nil {
		sub = &models.Subscriber{
			ChatID:         i.ChannelID,
			EnableMentions: true,
			EnableMerits:   true,
			NotifyDeleted:  true,
			Language:       "en",
		}
	}
	sub.Username = username
	if opt, ok := opts["alt_username"]; ok {
		sub.AltUsername = strings.TrimSpace(opt.StringValue())
	}

	if err := b.Store.UpsertSubscriber(*sub); err != nil {
		respondError(s, i, "watch", err)
		return
	}
	respond(s, i, fmt.Sprintf("✅ Watching mentions of **%s** in this channel.", username))
}

// HandleUnwatch removes the channel's registration.
func HandleUnwatch(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := b.Store.DeleteSubscriber(i.ChannelID); err != nil {
		respondError(s, i, "unwatch", err)
		return
	}
	respond(s, i, "✅ This channel is no longer subscribed.")
}

// HandleSetUID stores the forum profile id for the channel's subscriber.
func HandleSetUID(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	sub, err := b.Store.FindSubscriberByChat(i.ChannelID)
	if err != nil {
		respondError(s, i, "set_uid", err)
		return
	}
	if sub == nil {
		respond(s, i, "🚫 Run /watch first to register this channel.")
		return
	}

	uid := optionMap(i)["uid"].IntValue()
	if uid <= 0 {
		respond(s, i, "🚫 The profile id must be a positive number.")
		return
	}
	sub.UID = uid

	if err := b.Store.UpsertSubscriber(*sub); err != nil {
		respondError(s, i, "set_uid", err)
		return
	}
	respond(s, i, fmt.Sprintf("✅ Profile id set to %d. Merit and deletion notifications are now possible.", uid))
}

// HandleToggle flips one of the subscriber's notification features.
func HandleToggle(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	sub, err := b.Store.FindSubscriberByChat(i.ChannelID)
	if err != nil {
		respondError(s, i, "toggle", err)
		return
	}
	if sub == nil {
		respond(s, i, "🚫 Run /watch first to register this channel.")
		return
	}

	feature := optionMap(i)["feature"].StringValue()
	var enabled bool
	switch feature {
	case "mentions":
		sub.EnableMentions = !sub.EnableMentions
		enabled = sub.EnableMentions
	case "merits":
		sub.EnableMerits = !sub.EnableMerits
		enabled = sub.EnableMerits
	case "deletions":
		sub.NotifyDeleted = !sub.NotifyDeleted
		enabled = sub.NotifyDeleted
	default:
		respond(s, i, "🚫 Unknown feature.")
		return
	}

	if err := b.Store.UpsertSubscriber(*sub); err != nil {
		respondError(s, i, "toggle", err)
		return
	}
	state := "off"
	if enabled {
		state = "on"
	}
	respond(s, i, fmt.Sprintf("✅ Notifications for **%s** are now **%s**.", feature, state))
}

// HandleLanguage sets the notification language for the channel.
func HandleLanguage(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	sub, err := b.Store.FindSubscriberByChat(i.ChannelID)
	if err != nil {
		respondError(s, i, "language", err)
		return
	}
	if sub == nil {
		respond(s, i, "🚫 Run /watch first to register this channel.")
		return
	}

	sub.Language = optionMap(i)["language"].StringValue()
	if err := b.Store.UpsertSubscriber(*sub); err != nil {
		respondError(s, i, "language", err)
		return
	}
	respond(s, i, fmt.Sprintf("✅ Language set to **%s**.", sub.Language))
}

// HandleTrack subscribes the channel to new replies in a topic.
func HandleTrack(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	link := parser.CanonicalTopicLink(optionMap(i)["link"].StringValue())
	topicID := parser.TopicIDFromLink(link)
	if topicID == 0 {
		respond(s, i, "🚫 That does not look like a topic link.")
		return
	}

	// Fetch the topic page for its title and starter; tracking still works
	// without them.
	topic := models.Topic{ID: topicID, Link: link}
	if doc, err := b.Pipeline.Fetcher.SingleTopic(link); err == nil {
		if info, err := parser.TopicInfo(doc, link); err == nil {
			topic = info
		}
	}

	if _, err := b.Store.InsertTopicIfAbsent(topic); err != nil {
		respondError(s, i, "track", err)
		return
	}
	added, err := b.Store.TrackTopic(topicID, i.ChannelID)
	if err != nil {
		respondError(s, i, "track", err)
		return
	}
	if !added {
		respond(s, i, "ℹ️ This channel already tracks that topic.")
		return
	}
	respond(s, i, fmt.Sprintf("✅ Tracking replies in topic %d.", topicID))
}

// HandleUntrack removes a topic subscription.
func HandleUntrack(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	topicID := parser.TopicIDFromLink(optionMap(i)["link"].StringValue())
	if topicID == 0 {
		respond(s, i, "🚫 That does not look like a topic link.")
		return
	}
	if err := b.Store.UntrackTopic(topicID, i.ChannelID); err != nil {
		respondError(s, i, "untrack", err)
		return
	}
	respond(s, i, fmt.Sprintf("✅ No longer tracking topic %d.", topicID))
}

// HandleIgnore suppresses mention notifications from a user or topic.
func HandleIgnore(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	kind, target, ok := ignoreArgs(s, i)
	if !ok {
		return
	}
	if err := b.Store.AddIgnore(kind, target, i.ChannelID); err != nil {
		respondError(s, i, "ignore", err)
		return
	}
	respond(s, i, fmt.Sprintf("✅ Ignoring mentions from %s **%s**.", kind, target))
}

// HandleUnignore removes an ignore rule for this channel.
func HandleUnignore(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	kind, target, ok := ignoreArgs(s, i)
	if !ok {
		return
	}
	if err := b.Store.RemoveIgnore(kind, target, i.ChannelID); err != nil {
		respondError(s, i, "unignore", err)
		return
	}
	respond(s, i, fmt.Sprintf("✅ No longer ignoring %s **%s**.", kind, target))
}

func ignoreArgs(s *discordgo.Session, i *discordgo.InteractionCreate) (kind, target string, ok bool) {
	opts := optionMap(i)
	kind = opts["kind"].StringValue()
	target = strings.TrimSpace(opts["target"].StringValue())
	if kind == models.IgnoreTopic {
		target = parser.CanonicalTopicLink(target)
	}
	if target == "" {
		respond(s, i, "🚫 A target is required.")
		return "", "", false
	}
	return kind, target, true
}

// HandleStatus shows the channel's current subscription settings.
func HandleStatus(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	sub, err := b.Store.FindSubscriberByChat(i.ChannelID)
	if err != nil {
		respondError(s, i, "status", err)
		return
	}
	if sub == nil {
		respond(s, i, "ℹ️ This channel is not subscribed. Run /watch to get started.")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "**Username:** %s\n", sub.Username)
	if sub.AltUsername != "" {
		fmt.Fprintf(&sb, "**Alt username:** %s\n", sub.AltUsername)
	}
	if sub.UID != 0 {
		fmt.Fprintf(&sb, "**Profile id:** %d\n", sub.UID)
	} else {
		sb.WriteString("**Profile id:** not set\n")
	}
	fmt.Fprintf(&sb, "**Mentions:** %s | **Merits:** %s | **Deletions:** %s\n",
		onOff(sub.EnableMentions), onOff(sub.EnableMerits), onOff(sub.NotifyDeleted))
	fmt.Fprintf(&sb, "**Language:** %s\n", sub.Language)

	topics, err := b.Store.TopicsTrackedBy(i.ChannelID)
	if err != nil {
		respondError(s, i, "status", err)
		return
	}
	if len(topics) > 0 {
		sb.WriteString("**Tracked topics:**\n")
		for _, topic := range topics {
			title := topic.Title
			if title == "" {
				title = topic.Link
			}
			fmt.Fprintf(&sb, "- %s\n", title)
		}
	}

	respond(s, i, sb.String())
}

// HandleScrape manually runs one scrape and matching cycle.
func HandleScrape(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	kind := optionMap(i)["type"].StringValue()
	respond(s, i, fmt.Sprintf("⏳ Running a %s cycle...", kind))

	go func() {
		var err error
		switch kind {
		case "recent":
			if err = b.Pipeline.ScrapeRecent(); err == nil {
				err = b.Pipeline.RunPostCycle()
			}
		case "merits":
			if err = b.Pipeline.ScrapeMerits(); err == nil {
				err = b.Pipeline.RunMeritCycle()
			}
		case "modlog":
			if err = b.Pipeline.ScrapeModlog(); err == nil {
				err = b.Pipeline.RunDeletionCycle()
			}
		default:
			return
		}
		if err != nil {
			utils.Error("handlers", "manual scrape", err.Error())
			return
		}
		utils.Info("handlers", "manual scrape", fmt.Sprintf("%s cycle finished", kind))
	}()
}

func respondError(s *discordgo.Session, i *discordgo.InteractionCreate, op string, err error) {
	log.Printf("Command %s failed: %v", op, err)
	respond(s, i, "🚫 Something went wrong. Try again later.")
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
