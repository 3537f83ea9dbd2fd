package bot

import "strings"

// Template keys the pipeline dispatches with.
const (
	TemplateMention         = "mentioned_notification"
	TemplateTrackedReply    = "reply_in_tracked_post_notification"
	TemplateMerit           = "merit_notification"
	TemplateDeleted         = "post_deleted_notification"
	TemplateMultipleDeleted = "posts_deleted_notification"
)

// templates holds the localized notification texts. Parameters appear as
// {name} tokens. Unknown languages and keys fall back to English.
var templates = map[string]map[string]string{
	"en": {
		TemplateMention:         "📢 You were mentioned by **{author}** in [{title}](<{link}>)\n```{preview}```",
		TemplateTrackedReply:    "💬 New reply by **{author}** in tracked topic [{title}](<{link}>)\n```{preview}```",
		TemplateMerit:           "⭐ You received **{amount}** merit from **{sender}** for [{title}](<{link}>)",
		TemplateDeleted:         "🗑️ Your post [{title}](<{link}>) is gone because its parent topic was removed.",
		TemplateMultipleDeleted: "🗑️ At least **{count}** of your posts are gone because their parent topic was removed: [{title}](<{link}>)",
	},
	"pt": {
		TemplateMention:         "📢 Você foi mencionado por **{author}** em [{title}](<{link}>)\n```{preview}```",
		TemplateTrackedReply:    "💬 Nova resposta de **{author}** no tópico rastreado [{title}](<{link}>)\n```{preview}```",
		TemplateMerit:           "⭐ Você recebeu **{amount}** merit de **{sender}** por [{title}](<{link}>)",
		TemplateDeleted:         "🗑️ Seu post [{title}](<{link}>) sumiu porque o tópico pai foi removido.",
		TemplateMultipleDeleted: "🗑️ Pelo menos **{count}** dos seus posts sumiram porque o tópico pai foi removido: [{title}](<{link}>)",
	},
}

// Render produces the notification text for a template key in the given
// language.
func Render(lang, key string, params map[string]string) string {
	byLang, ok := templates[lang]
	if !ok {
		byLang = templates["en"]
	}
	text, ok := byLang[key]
	if !ok {
		text = templates["en"][key]
	}
	for name, value := range params {
		text = strings.ReplaceAll(text, "{"+name+"}", value)
	}
	return text
}
