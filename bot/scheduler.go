package bot

import (
	"log"

	"github.com/robfig/cron/v3"

	"forum-bot/fetcher"
	"forum-bot/models"
)

var c *cron.Cron

// startScheduler starts the six polling cycles. Each runs on its own
// cadence with no coordination beyond the shared stores; the cron chain
// recovers panics so one misbehaving cycle cannot take the others down.
func startScheduler(p *Pipeline, cfg models.WatcherConfig) {
	log.Println("Initializing scheduler...")
	c = cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger)))

	cycles := []struct {
		name  string
		every string
		run   func() error
	}{
		{"recent-scrape", cfg.RecentScrape, p.ScrapeRecent},
		{"merit-scrape", cfg.MeritScrape, p.ScrapeMerits},
		{"modlog-scrape", cfg.ModlogScrape, p.ScrapeModlog},
		{"post", cfg.PostCycle, p.RunPostCycle},
		{"merit", cfg.MeritCycle, p.RunMeritCycle},
		{"deletion", cfg.DeletionCycle, p.RunDeletionCycle},
	}

	for _, cycle := range cycles {
		cycle := cycle
		_, err := c.AddFunc("@every "+cycle.every, func() {
			if err := cycle.run(); err != nil {
				if fetcher.IsFatal(err) {
					log.Fatalf("%s cycle: broken network environment, halting: %v", cycle.name, err)
				}
				log.Printf("%s cycle error: %v", cycle.name, err)
			}
		})
		if err != nil {
			log.Fatalf("Could not schedule %s cycle: %v", cycle.name, err)
		}
		log.Printf("%s cycle scheduled every %s", cycle.name, cycle.every)
	}

	c.Start()
}

// stopScheduler stops the cron jobs.
func stopScheduler() {
	if c != nil {
		c.Stop()
		log.Println("Scheduler stopped.")
	}
}
