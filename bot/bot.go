package bot

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"forum-bot/config"
	"forum-bot/database"
	"forum-bot/fetcher"
	"forum-bot/models"
	"forum-bot/utils"
)

// Bot encapsulates the session, the stores and the polling pipeline.
type Bot struct {
	Session   *discordgo.Session
	Store     *database.Store
	Modlog    *database.ModlogStore
	Addresses *database.AddressStore
	Pipeline  *Pipeline
	Watcher   models.WatcherConfig
}

// NewBot creates and initializes a new Bot instance from the loaded
// configuration.
func NewBot() (*Bot, error) {
	config.LoadConfig()

	token := viper.GetString("BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("no bot token provided")
	}

	// Decode the watcher settings out of the merged configuration.
	var watcherCfg models.WatcherConfig
	if err := mapstructure.Decode(viper.GetStringMap("watcher"), &watcherCfg); err != nil {
		return nil, fmt.Errorf("could not decode watcher config: %w", err)
	}

	store, err := database.NewStore(viper.GetString("bot.dbPath"))
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	modlog, err := database.NewModlogStore(viper.GetString("bot.modlogPath"))
	if err != nil {
		return nil, fmt.Errorf("error opening modlog store: %w", err)
	}
	addresses, err := database.NewAddressStore(viper.GetString("bot.addressPath"))
	if err != nil {
		return nil, fmt.Errorf("error opening address store: %w", err)
	}

	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	baseURL := viper.GetString("forum.base_url")
	pipeline := &Pipeline{
		Store:           store,
		Modlog:          modlog,
		Addresses:       addresses,
		Fetcher:         fetcher.NewHTTPFetcher(baseURL, viper.GetString("FORUM_COOKIE")),
		Dispatcher:      &DiscordDispatcher{Session: dg},
		BaseURL:         baseURL,
		PostWindow:      time.Duration(watcherCfg.PostWindowMinutes) * time.Minute,
		MeritWindow:     time.Duration(watcherCfg.MeritWindowMinutes) * time.Minute,
		PostLimit:       watcherCfg.PostLimit,
		BackfillStagger: time.Duration(watcherCfg.BackfillStaggerMS) * time.Millisecond,
	}

	return &Bot{
		Session:   dg,
		Store:     store,
		Modlog:    modlog,
		Addresses: addresses,
		Pipeline:  pipeline,
		Watcher:   watcherCfg,
	}, nil
}

// Start opens the bot's session, registers handlers and slash commands,
// and starts the polling cycles.
func (b *Bot) Start(registerHandlers func(*Bot), commandDefs []*discordgo.ApplicationCommand) error {
	registerHandlers(b)

	if err := b.Session.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}

	utils.InitLogger(b.Session)

	for _, def := range commandDefs {
		if _, err := b.Session.ApplicationCommandCreate(b.Session.State.User.ID, "", def); err != nil {
			log.Printf("Cannot create '%v' command: %v", def.Name, err)
		}
	}

	startScheduler(b.Pipeline, b.Watcher)

	fmt.Println("Bot is now running. Press CTRL-C to exit.")
	return nil
}

// Stop gracefully shuts the bot down.
func (b *Bot) Stop() {
	stopScheduler()
	if b.Session != nil {
		b.Session.Close()
	}
	if b.Store != nil {
		b.Store.Close()
	}
	fmt.Println("Bot stopped gracefully.")
}

// Run is the main entry point for the bot application.
func Run(registerHandlers func(*Bot), commandDefs []*discordgo.ApplicationCommand) {
	bot, err := NewBot()
	if err != nil {
		log.Fatalf("Error initializing bot: %v", err)
	}

	if err := bot.Start(registerHandlers, commandDefs); err != nil {
		log.Fatalf("Error starting bot: %v", err)
	}

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	bot.Stop()
}
