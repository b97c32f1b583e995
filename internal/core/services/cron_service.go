package services

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// CronService schedules the background maintenance jobs: the nightly overdue
// loan scan and the expired refresh token purge.
type CronService struct {
	cron      *cron.Cron
	lending   *LendingService
	auth      *AuthService
	clock     Clock
	graceDays int64
}

// NewCronService creates a new cron service. graceDays is how long past its
// term an active loan may run before it is marked defaulted.
func NewCronService(lending *LendingService, auth *AuthService, clock Clock, graceDays int64) *CronService {
	return &CronService{
		cron:      cron.New(cron.WithLocation(time.UTC)),
		lending:   lending,
		auth:      auth,
		clock:     clock,
		graceDays: graceDays,
	}
}

// Start registers and launches the scheduled jobs
func (s *CronService) Start() error {
	if _, err := s.cron.AddFunc("0 2 * * *", s.ScanOverdueLoans); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("30 3 * * *", s.PurgeExpiredTokens); err != nil {
		return err
	}

	s.cron.Start()
	log.Println("🚀 CronService started")
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 CronService stopped")
}

// ScanOverdueLoans marks active loans as defaulted once their term plus the
// grace period has passed.
func (s *CronService) ScanOverdueLoans() {
	ctx := context.Background()
	deadline := s.clock.Now().Unix() - s.graceDays*24*3600

	loans, err := s.lending.ListOverdue(ctx, deadline)
	if err != nil {
		log.Printf("❌ Overdue loan scan error: %v", err)
		return
	}

	for _, loan := range loans {
		if err := s.lending.MarkDefaulted(ctx, loan.ID); err != nil {
			log.Printf("❌ Default loan %d error: %v", loan.ID, err)
			continue
		}
		log.Printf("🗑️ Loan %d marked defaulted (borrower: %s)", loan.ID, loan.Borrower)
	}

	if len(loans) > 0 {
		log.Printf("🗑️ Marked %d overdue loans defaulted", len(loans))
	}
}

// PurgeExpiredTokens deletes expired refresh tokens
func (s *CronService) PurgeExpiredTokens() {
	if err := s.auth.PurgeExpiredTokens(context.Background()); err != nil {
		log.Printf("❌ Refresh token purge error: %v", err)
		return
	}
	log.Println("🧹 Expired refresh tokens purged")
}
