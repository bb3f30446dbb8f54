package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/keystackhq/keystack/pkg/slogx"
)

// HousekeepingService periodically expires due invitations and archives
// orphaned profiles. One instance runs per process; sweeps are idempotent so
// overlapping deployments doing double work is harmless.
type HousekeepingService struct {
	Invites   *InviteService
	Reconcile *ReconcileService
	Interval  time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

const DefaultHousekeepingInterval = 15 * time.Minute

// Start launches the background sweep loop. Call Stop to shut it down.
func (s *HousekeepingService) Start(ctx context.Context) {
	if s.Interval <= 0 {
		s.Interval = DefaultHousekeepingInterval
	}
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})

	go func() {
		defer close(s.doneCh)
		ticker := time.NewTicker(s.Interval)
		defer ticker.Stop()

		s.sweep(ctx)
		for {
			select {
			case <-ticker.C:
				s.sweep(ctx)
			case <-s.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop signals the loop to exit and waits for the in-flight sweep to finish.
func (s *HousekeepingService) Stop() {
	if s.stopCh == nil {
		return
	}
	close(s.stopCh)
	<-s.doneCh
}

func (s *HousekeepingService) sweep(ctx context.Context) {
	log := slogx.FromContext(ctx)

	expired, err := s.Invites.ExpireDue(ctx)
	if err != nil {
		log.Error("housekeeping: invitation expiry sweep failed", slog.Any("error", err))
	}

	archived, err := s.Reconcile.ArchiveOrphanProfiles(ctx, SystemActorID)
	if err != nil {
		log.Error("housekeeping: orphan profile sweep failed", slog.Any("error", err))
	}

	if expired > 0 || archived > 0 {
		log.Info("housekeeping sweep complete",
			slog.Int("invitations_expired", expired),
			slog.Int("profiles_archived", archived),
		)
	}
}
