package command

import "github.com/bwmarrin/discordgo"

// WatchCommand registers the invoking channel for mention notifications.
type WatchCommand struct{}

func (c *WatchCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "watch",
		Description: "Subscribe this channel to mentions of a forum username",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "username",
				Description: "Your forum username",
				Type:        discordgo.ApplicationCommandOptionString,
				Required:    true,
			},
			{
				Name:        "alt_username",
				Description: "An alternate username to also match",
				Type:        discordgo.ApplicationCommandOptionString,
				Required:    false,
			},
		},
	}
}

// UnwatchCommand removes the channel's subscription.
type UnwatchCommand struct{}

func (c *UnwatchCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "unwatch",
		Description: "Remove this channel's subscription",
	}
}

// SetUIDCommand stores the subscriber's forum profile id, enabling merit
// and deletion notifications.
type SetUIDCommand struct{}

func (c *SetUIDCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "set_uid",
		Description: "Set your forum profile id (enables merit and deletion notifications)",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "uid",
				Description: "The numeric id from your forum profile link",
				Type:        discordgo.ApplicationCommandOptionInteger,
				Required:    true,
			},
		},
	}
}

// ToggleCommand flips one of the per-feature opt-ins.
type ToggleCommand struct{}

func (c *ToggleCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "toggle",
		Description: "Toggle a notification feature on or off",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "feature",
				Description: "The feature to toggle",
				Type:        discordgo.ApplicationCommandOptionString,
				Required:    true,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "Mentions", Value: "mentions"},
					{Name: "Merits", Value: "merits"},
					{Name: "Deletions", Value: "deletions"},
				},
			},
		},
	}
}

// LanguageCommand sets the notification language.
type LanguageCommand struct{}

func (c *LanguageCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "language",
		Description: "Set the notification language",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "language",
				Description: "The language to use",
				Type:        discordgo.ApplicationCommandOptionString,
				Required:    true,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "English", Value: "en"},
					{Name: "Português", Value: "pt"},
				},
			},
		},
	}
}

// TrackCommand subscribes the channel to replies in a topic.
type TrackCommand struct{}

func (c *TrackCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "track",
		Description: "Get notified about new replies in a topic",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "link",
				Description: "The topic link",
				Type:        discordgo.ApplicationCommandOptionString,
				Required:    true,
			},
		},
	}
}

// UntrackCommand removes a topic subscription.
type UntrackCommand struct{}

func (c *UntrackCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "untrack",
		Description: "Stop tracking a topic",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "link",
				Description: "The topic link",
				Type:        discordgo.ApplicationCommandOptionString,
				Required:    true,
			},
		},
	}
}

// IgnoreCommand suppresses mention notifications from a user or topic.
type IgnoreCommand struct{}

func (c *IgnoreCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "ignore",
		Description: "Suppress mention notifications from a user or topic",
		Options:     ignoreOptions(),
	}
}

// UnignoreCommand removes an ignore rule for this channel.
type UnignoreCommand struct{}

func (c *UnignoreCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "unignore",
		Description: "Remove an ignore rule for this channel",
		Options:     ignoreOptions(),
	}
}

func ignoreOptions() []*discordgo.ApplicationCommandOption {
	return []*discordgo.ApplicationCommandOption{
		{
			Name:        "kind",
			Description: "What the rule targets",
			Type:        discordgo.ApplicationCommandOptionString,
			Required:    true,
			Choices: []*discordgo.ApplicationCommandOptionChoice{
				{Name: "User", Value: "user"},
				{Name: "Topic", Value: "topic"},
			},
		},
		{
			Name:        "target",
			Description: "The username or topic link",
			Type:        discordgo.ApplicationCommandOptionString,
			Required:    true,
		},
	}
}

// StatusCommand shows the channel's current settings.
type StatusCommand struct{}

func (c *StatusCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "status",
		Description: "Show this channel's subscription settings",
	}
}

// ScrapeCommand manually triggers one scrape cycle.
type ScrapeCommand struct{}

func (c *ScrapeCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "scrape",
		Description: "Manually trigger a scrape cycle",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "type",
				Description: "The page to scrape",
				Type:        discordgo.ApplicationCommandOptionString,
				Required:    true,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "Recent posts", Value: "recent"},
					{Name: "Merit stats", Value: "merits"},
					{Name: "Moderation log", Value: "modlog"},
				},
			},
		},
	}
}
