package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"tripmate/internal/domain/models"
	"tripmate/internal/plan"
	"tripmate/internal/repositories"
	"tripmate/internal/utils"
)

// PlanService is the application face of the collab engine: it opens a
// trip's plan for editing (hydrating from storage exactly once), exposes the
// save-now path and flushes everything at shutdown.
type PlanService struct {
	Store     *plan.Store
	Scheduler *plan.Scheduler
	Repo      repositories.PlanRepository
	RequestID string
	// Loader overrides the repository load in tests.
	Loader func(tripID string) (*models.Plan, error)
}

func (s PlanService) load(tripID string) (*models.Plan, error) {
	if s.Loader != nil {
		return s.Loader(tripID)
	}
	return s.Repo.Load(tripID)
}

// OpenPlan is the single "open trip for editing" operation: the first call
// for a trip hydrates the in-memory store from the persisted document before
// any mutation can touch it; every call returns a snapshot.
func (s PlanService) OpenPlan(tripID string) (*models.Plan, error) {
	utils.LogEvent(s.RequestID, "plan", "open", "trip_id="+tripID)
	return s.Store.OpenForEdit(tripID, func() (*models.Plan, error) {
		return s.load(tripID)
	})
}

// SaveNow force-flushes the trip immediately. wasSaving reports whether a
// flush was already in flight when the request arrived (advisory only).
func (s PlanService) SaveNow(tripID string) (wasSaving bool) {
	utils.LogEvent(s.RequestID, "plan", "save_now", "trip_id="+tripID)
	wasSaving = s.Scheduler.IsSaving(tripID)
	s.Scheduler.ForceFlush(tripID)
	return wasSaving
}

// FlushAll force-flushes every trip currently held in memory. Called on
// graceful shutdown so an open debounce window is not lost.
func (s PlanService) FlushAll(ctx context.Context) error {
	g, _ := errgroup.WithContext(ctx)
	for _, tripID := range s.Store.ActiveTripIDs() {
		tripID := tripID
		g.Go(func() error {
			s.Scheduler.ForceFlush(tripID)
			return nil
		})
	}
	return g.Wait()
}
