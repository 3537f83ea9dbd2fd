package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// LoadConfig loads configuration from multiple sources: a .env file for
// secrets, config.yaml for the base configuration, and config/watcher.json
// for cycle cadences. Environment variables override file settings.
func LoadConfig() {
	// Load environment variables from .env; a missing file is fine.
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, skipping.")
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Printf("Base config file (config.yaml) not found, using environment variables and defaults.")
		} else {
			panic(fmt.Errorf("fatal error reading base config file: %w", err))
		}
	}

	// Merge the watcher configuration (cycle cadences, windows, limits).
	viper.SetConfigName("watcher")
	viper.SetConfigType("json")
	viper.AddConfigPath("./config")

	if err := viper.MergeInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Printf("Watcher config file (config/watcher.json) not found, using defaults.")
		} else {
			panic(fmt.Errorf("fatal error merging watcher config file: %w", err))
		}
	}

	setDefaults()
}

// setDefaults applies the cadences and windows used when the watcher config
// does not specify them. The values mirror the production deployment.
func setDefaults() {
	viper.SetDefault("watcher.post_cycle", "2.5s")
	viper.SetDefault("watcher.merit_cycle", "5s")
	viper.SetDefault("watcher.deletion_cycle", "3s")
	viper.SetDefault("watcher.recent_scrape", "4s")
	viper.SetDefault("watcher.merit_scrape", "5s")
	viper.SetDefault("watcher.modlog_scrape", "60s")
	viper.SetDefault("watcher.post_window_minutes", 30)
	viper.SetDefault("watcher.merit_window_minutes", 20)
	viper.SetDefault("watcher.post_limit", 20)
	viper.SetDefault("watcher.backfill_stagger_ms", 1000)
	viper.SetDefault("forum.base_url", "https://bitcointalk.org")
	viper.SetDefault("bot.dbPath", "data/forum-bot.db")
	viper.SetDefault("bot.modlogPath", "data/modlog.json")
	viper.SetDefault("bot.addressPath", "data/addresses.json")
}
