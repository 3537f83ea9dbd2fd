package models

// ForumConfig holds the scrape target settings.
type ForumConfig struct {
	BaseURL string `json:"base_url" mapstructure:"base_url"`
	Cookie  string `json:"cookie" mapstructure:"cookie"` // session cookie for authenticated pages
}

// WatcherConfig holds the cadences and windows for the polling cycles.
// Cycle fields are time.ParseDuration strings fed to cron @every entries.
type WatcherConfig struct {
	PostCycle     string `json:"post_cycle" mapstructure:"post_cycle"`
	MeritCycle    string `json:"merit_cycle" mapstructure:"merit_cycle"`
	DeletionCycle string `json:"deletion_cycle" mapstructure:"deletion_cycle"`
	RecentScrape  string `json:"recent_scrape" mapstructure:"recent_scrape"`
	MeritScrape   string `json:"merit_scrape" mapstructure:"merit_scrape"`
	ModlogScrape  string `json:"modlog_scrape" mapstructure:"modlog_scrape"`

	PostWindowMinutes  int `json:"post_window_minutes" mapstructure:"post_window_minutes"`
	MeritWindowMinutes int `json:"merit_window_minutes" mapstructure:"merit_window_minutes"`
	PostLimit          int `json:"post_limit" mapstructure:"post_limit"`

	BackfillStaggerMS int `json:"backfill_stagger_ms" mapstructure:"backfill_stagger_ms"`
}

// AuthConfig lists the principals allowed to run privileged commands.
type AuthConfig struct {
	Developers []string `json:"developers" mapstructure:"developers"`
	AdminRoles []string `json:"admin_roles" mapstructure:"admin_roles"`
}

// CommandsConfig wraps the command-surface settings.
type CommandsConfig struct {
	Auth AuthConfig `json:"auth" mapstructure:"auth"`
}
