package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"
	"gorm.io/gorm"

	"github.com/edu-bd/StockVisualizer/config"
	"github.com/edu-bd/StockVisualizer/services/marketdata"
)

// Scheduler manages scheduled jobs
type Scheduler struct {
	cron      *gocron.Scheduler
	db        *gorm.DB
	cfg       *config.Config
	basicInfo *marketdata.BasicInfoService
	fetcher   *marketdata.SpotFetcher
}

// NewScheduler creates a new scheduler instance
func NewScheduler(db *gorm.DB, cfg *config.Config) *Scheduler {
	return &Scheduler{
		cron:      gocron.NewScheduler(time.Local),
		db:        db,
		cfg:       cfg,
		basicInfo: marketdata.NewBasicInfoService(db),
		fetcher:   marketdata.NewSpotFetcher(cfg.SpotProviderURL),
	}
}

// Start registers all jobs and runs the scheduler asynchronously.
func (s *Scheduler) Start() {
	log.Println("Starting scheduler...")

	// Refresh stock reference data daily after market close
	s.cron.Every(1).Day().At(s.cfg.BasicInfoRefreshAt).Do(func() {
		s.refreshBasicInfo()
	})

	s.cron.StartAsync()
	log.Println("Scheduler started successfully")
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("Scheduler stopped")
}

// refreshBasicInfo pulls the provider spot list and upserts it.
func (s *Scheduler) refreshBasicInfo() {
	if s.cfg.SpotProviderURL == "" {
		log.Println("Basic info refresh skipped: no spot provider configured")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	updated, err := s.basicInfo.RefreshFromProvider(ctx, s.fetcher)
	if err != nil {
		log.Printf("Basic info refresh failed: %v", err)
		return
	}
	log.Printf("Basic info refresh completed: %d records updated", updated)
}
