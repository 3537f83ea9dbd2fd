package main

import (
	"forum-bot/bot"
	"forum-bot/command"
	"forum-bot/handlers"
)

func main() {
	bot.Run(handlers.Register, command.GetCommandDefinitions())
}
