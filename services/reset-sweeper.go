package services

import (
	"context"
	"log"
	"time"

	"devconnector/repositories"
)

// ResetSweeper periodically clears password reset tokens that have expired.
type ResetSweeper struct {
	users    repositories.UserRepository
	interval time.Duration
	now      func() time.Time
}

func NewResetSweeper(users repositories.UserRepository, interval time.Duration) *ResetSweeper {
	return &ResetSweeper{
		users:    users,
		interval: interval,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Start runs Sweep every interval until ctx is cancelled.
func (s *ResetSweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Sweep(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Sweep clears expired reset tokens once and returns how many were cleared.
func (s *ResetSweeper) Sweep(ctx context.Context) int64 {
	n, err := s.users.ClearExpiredResetTokens(ctx, s.now())
	if err != nil {
		log.Printf("Error clearing expired reset tokens: %v", err)
		return 0
	}
	if n > 0 {
		log.Printf("Cleared %d expired reset tokens", n)
	}
	return n
}
