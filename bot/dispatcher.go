package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// Dispatcher delivers a rendered notification to a chat. Implementations
// do not dedupe: the pipeline's ledger is the sole source of "already
// sent" truth, and a failed dispatch is logged and dropped, never retried.
type Dispatcher interface {
	Dispatch(chatID, templateKey, lang string, params map[string]string) error
}

// DiscordDispatcher sends notifications as Discord channel messages.
type DiscordDispatcher struct {
	Session *discordgo.Session
}

// Dispatch renders the localized template and sends it to the chat's
// channel.
func (d *DiscordDispatcher) Dispatch(chatID, templateKey, lang string, params map[string]string) error {
	content := Render(lang, templateKey, params)
	if _, err := d.Session.ChannelMessageSend(chatID, content); err != nil {
		return fmt.Errorf("failed to send %s to chat %s: %w", templateKey, chatID, err)
	}
	return nil
}
