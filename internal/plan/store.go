// Package plan holds the in-memory collaborative plan engine: the per-trip
// document store, the typed mutation operations, and the debounced
// persistence scheduler. The in-memory plan is authoritative while a trip is
// being edited; storage trails behind on a quiet-period schedule.
package plan

import (
	"sync"
	"time"

	"tripmate/internal/domain/models"
)

// planState is the store's record for one trip: the live document plus the
// flush bookkeeping the scheduler needs.
type planState struct {
	plan        *models.Plan
	timer       *time.Timer
	saving      bool
	flushQueued bool
	hydrated    bool
}

// Store maps trip id to plan state. It exclusively owns every planState;
// other components reach the plan only through the engine and scheduler.
// A single mutex serializes mutations, so commands against one trip apply in
// lock-acquisition order and never interleave mid-mutation.
type Store struct {
	mu     sync.Mutex
	states map[string]*planState
}

func NewStore() *Store {
	return &Store{states: map[string]*planState{}}
}

// getOrCreate returns the state for tripID, lazily creating an empty default.
// Caller must hold s.mu.
func (s *Store) getOrCreate(tripID string) *planState {
	st, ok := s.states[tripID]
	if !ok {
		st = &planState{plan: models.NewPlan()}
		s.states[tripID] = st
	}
	return st
}

// Hydrate installs a plan loaded from storage, replacing any lazily-created
// default and dropping any pending flush timer.
func (s *Store) Hydrate(tripID string, p *models.Plan) {
	if p == nil {
		p = models.NewPlan()
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.getOrCreate(tripID)
	if st.timer != nil {
		st.timer.Stop()
		st.timer = nil
	}
	st.plan = p
	st.hydrated = true
}

// OpenForEdit is the single "open trip for editing" entry point: on the first
// activation of a trip it loads the persisted plan via load and hydrates the
// state before anything can mutate it; later calls just snapshot. The load
// runs under the store lock: a lazily-created empty default must never race
// ahead of hydration and get flushed over real data.
func (s *Store) OpenForEdit(tripID string, load func() (*models.Plan, error)) (*models.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.getOrCreate(tripID)
	if !st.hydrated {
		if load != nil {
			loaded, err := load()
			if err != nil {
				return nil, err
			}
			if loaded != nil {
				st.plan = loaded
			}
		}
		st.hydrated = true
	}
	return st.plan.Clone(), nil
}

// Snapshot returns a copy of the current plan, reporting whether the trip has
// any state at all.
func (s *Store) Snapshot(tripID string) (*models.Plan, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.states[tripID]
	if !ok {
		return nil, false
	}
	return st.plan.Clone(), true
}

// ActiveTripIDs lists every trip currently held in memory, for shutdown
// flushing. There is no idle eviction; states live until process exit.
func (s *Store) ActiveTripIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.states))
	for id := range s.states {
		out = append(out, id)
	}
	return out
}
