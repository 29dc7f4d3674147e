package services

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"
)

// CronService runs the scheduled maintenance jobs. Currently one job: the
// nightly sweep flagging login tokens past their expiry.
type CronService struct {
	cron *cron.Cron
	auth *AuthService
}

// NewCronService creates a new cron service
func NewCronService(auth *AuthService) *CronService {
	return &CronService{
		cron: cron.New(),
		auth: auth,
	}
}

// Start registers the jobs and starts the scheduler
func (s *CronService) Start() {
	// 00:30 daily
	_, err := s.cron.AddFunc("30 0 * * *", func() {
		if _, err := s.auth.SweepExpiredTokens(context.Background()); err != nil {
			log.Printf("⚠️ Token sweep failed: %v", err)
		}
	})
	if err != nil {
		log.Printf("⚠️ Failed to schedule token sweep: %v", err)
		return
	}

	s.cron.Start()
	log.Println("✅ Cron service started (token sweep daily at 00:30)")
}

// Stop stops the scheduler, waiting for a running job to finish
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("✅ Cron service stopped")
}
