package infra

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"stockfolio/internal/domain"
)

// Scheduler periodically values every portfolio and logs the result, giving
// the service a heartbeat of each user's P/L without anyone polling the API.
type Scheduler struct {
	cron             *cron.Cron
	userRepo         domain.UserRepository
	portfolioService domain.PortfolioService
}

// NewScheduler creates a new scheduler
func NewScheduler(userRepo domain.UserRepository, portfolioService domain.PortfolioService) *Scheduler {
	return &Scheduler{
		cron:             cron.New(),
		userRepo:         userRepo,
		portfolioService: portfolioService,
	}
}

// Start registers the valuation job and starts the cron loop.
func (s *Scheduler) Start() error {
	log.Println("Starting portfolio snapshot scheduler...")

	// Every 5 minutes; outside US market hours quotes barely move, so those
	// runs are skipped entirely.
	_, err := s.cron.AddFunc("*/5 * * * *", func() {
		now := time.Now().UTC()
		if !isUSMarketHours(now) {
			return
		}

		log.Println("[CRON] Portfolio snapshot triggered")
		if err := s.RunNow(); err != nil {
			log.Printf("ERROR: Scheduled portfolio snapshot failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	log.Println("[OK] Snapshot scheduler started (every 5m during US market hours)")
	return nil
}

// RunNow values all portfolios immediately, regardless of market hours.
func (s *Scheduler) RunNow() error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return err
	}

	for _, user := range users {
		summary, err := s.portfolioService.Snapshot(ctx, user.ID)
		if err != nil {
			log.Printf("ERROR: Snapshot failed for user %s: %v", user.Username, err)
			continue
		}
		if len(summary.Positions) == 0 {
			continue
		}
		log.Printf("[Snapshot] %s: invested=%.2f value=%.2f pnl=%.2f (%.2f%%)",
			user.Username,
			summary.TotalInvested,
			summary.CurrentTotalValue,
			summary.TotalProfitLoss,
			summary.ProfitLossPercent,
		)
	}

	return nil
}

// Stop stops the scheduler gracefully
func (s *Scheduler) Stop() {
	log.Println("Stopping snapshot scheduler...")
	s.cron.Stop()
	log.Println("[OK] Snapshot scheduler stopped")
}

// isUSMarketHours reports whether t falls inside regular NYSE trading,
// 13:30-20:00 UTC on weekdays. DST shifts this by an hour twice a year;
// the window is deliberately left fixed since a skipped or extra snapshot
// run is harmless.
func isUSMarketHours(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}

	minutes := t.Hour()*60 + t.Minute()
	return minutes >= 13*60+30 && minutes < 20*60
}
