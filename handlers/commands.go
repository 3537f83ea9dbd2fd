package handlers

import (
	"log"

	"github.com/bwmarrin/discordgo"

	"forum-bot/bot"
	"forum-bot/utils"
)

// CommandDispatcher is the central handler for all application command
// interactions. It performs permission checks and then dispatches the
// interaction to the appropriate handler.
func CommandDispatcher(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	auth, err := utils.NewAuth()
	if err != nil {
		log.Printf("Failed to create auth instance: %v", err)
		return
	}

	commandPermissions := map[string]string{
		"scrape": "admin",
	}

	commandName := i.ApplicationCommandData().Name
	if requiredLevel, ok := commandPermissions[commandName]; ok {
		if !auth.CheckPermission(i, requiredLevel) {
			respond(s, i, "🚫 You do not have permission to run this command.")
			return
		}
	}

	switch commandName {
	case "watch":
		HandleWatch(b, s, i)
	case "unwatch":
		HandleUnwatch(b, s, i)
	case "set_uid":
		HandleSetUID(b, s, i)
	case "toggle":
		HandleToggle(b, s, i)
	case "language":
		HandleLanguage(b, s, i)
	case "track":
		HandleTrack(b, s, i)
	case "untrack":
		HandleUntrack(b, s, i)
	case "ignore":
		HandleIgnore(b, s, i)
	case "unignore":
		HandleUnignore(b, s, i)
	case "status":
		HandleStatus(b, s, i)
	case "scrape":
		HandleScrape(b, s, i)
	default:
		respond(s, i, "🚫 Unknown command.")
	}
}

// respond sends an ephemeral reply to the interaction.
func respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("Failed to respond to interaction: %v", err)
	}
}

// optionMap indexes the interaction's options by name.
func optionMap(i *discordgo.InteractionCreate) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	options := i.ApplicationCommandData().Options
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		m[opt.Name] = opt
	}
	return m
}
