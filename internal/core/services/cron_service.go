package services

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"hospicare/internal/adapters/persistence/repositories"
	"hospicare/internal/core/domain"
)

// CronService runs scheduled housekeeping jobs
type CronService struct {
	cron             *cron.Cron
	refreshTokenRepo repositories.RefreshTokenRepository
	appointmentRepo  repositories.AppointmentRepository
}

// NewCronService creates a new cron service
func NewCronService(
	refreshTokenRepo repositories.RefreshTokenRepository,
	appointmentRepo repositories.AppointmentRepository,
) *CronService {
	return &CronService{
		cron:             cron.New(),
		refreshTokenRepo: refreshTokenRepo,
		appointmentRepo:  appointmentRepo,
	}
}

// Start registers and launches the scheduled jobs
func (s *CronService) Start() {
	// Purge expired refresh tokens nightly
	s.cron.AddFunc("@daily", s.purgeExpiredTokens)

	// Sweep stale pending appointments hourly
	s.cron.AddFunc("@hourly", s.cancelStalePending)

	s.cron.Start()
	log.Println("🚀 CronService started")
}

// Stop stops the scheduler and waits for running jobs
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 CronService stopped")
}

func (s *CronService) purgeExpiredTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := s.refreshTokenRepo.DeleteExpired(ctx)
	if err != nil {
		log.Printf("❌ Token purge error: %v", err)
		return
	}
	if n > 0 {
		log.Printf("✅ Purged %d expired refresh tokens", n)
	}
}

// cancelStalePending cancels pending appointments whose date has passed.
// Goes through the same CAS as every other transition, so a concurrent
// approve can still win — the sweep then simply skips that record.
func (s *CronService) cancelStalePending() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().Truncate(24 * time.Hour)
	stale, err := s.appointmentRepo.FindPendingBefore(ctx, cutoff)
	if err != nil {
		log.Printf("❌ Stale appointment query error: %v", err)
		return
	}

	for _, a := range stale {
		ok, err := s.appointmentRepo.UpdateStatus(ctx, a.ID, domain.StatusPending, domain.StatusCancelled, nil)
		if err != nil {
			log.Printf("❌ Stale appointment %d cancel error: %v", a.ID, err)
			continue
		}
		if ok {
			log.Printf("✅ Stale pending appointment %d cancelled (date %s)", a.ID, a.Date.Format("2006-01-02"))
		}
	}
}
