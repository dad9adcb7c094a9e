package plan

import (
	"log"
	"time"

	"tripmate/internal/domain/models"
)

// Save-status values relayed to room members.
const (
	StatusSaving = "saving"
	StatusSaved  = "saved"
	StatusError  = "error"
)

// PersistFunc writes one plan snapshot to durable storage.
type PersistFunc func(tripID string, p *models.Plan) error

// StatusFunc receives save-status transitions; message is non-empty only for
// StatusError.
type StatusFunc func(tripID, status, message string)

// Scheduler coalesces bursts of mutations into one persistence call per trip:
// every accepted mutation re-arms a delayed flush, so storage is written once
// per quiet period instead of once per keystroke.
type Scheduler struct {
	store   *Store
	persist PersistFunc
	delay   time.Duration
	notify  StatusFunc
}

func NewScheduler(store *Store, persist PersistFunc, delay time.Duration) *Scheduler {
	return &Scheduler{store: store, persist: persist, delay: delay}
}

// OnStatus registers the status relay. Must be set during wiring, before any
// mutation traffic.
func (s *Scheduler) OnStatus(fn StatusFunc) {
	s.notify = fn
}

// Arm cancels any pending timer for the trip and starts a fresh one.
func (s *Scheduler) Arm(tripID string) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	st := s.store.getOrCreate(tripID)
	if st.timer != nil {
		st.timer.Stop()
	}
	st.timer = time.AfterFunc(s.delay, func() { s.flush(tripID) })
}

// ForceFlush cancels any pending timer and persists immediately, synchronous
// with the caller. Used by the save-now endpoint, last-participant disconnect
// and graceful shutdown.
func (s *Scheduler) ForceFlush(tripID string) {
	s.store.mu.Lock()
	st, ok := s.store.states[tripID]
	if ok && st.timer != nil {
		st.timer.Stop()
		st.timer = nil
	}
	s.store.mu.Unlock()
	if !ok {
		return
	}
	s.flush(tripID)
}

// IsSaving reports the advisory in-flight flag.
func (s *Scheduler) IsSaving(tripID string) bool {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	st, ok := s.store.states[tripID]
	return ok && st.saving
}

// flush persists the current plan snapshot and emits status transitions.
// Overlapping flushes are serialized per trip: while one is in flight, a new
// request only queues a re-run, so the plan that reaches storage is the
// latest one at dequeue time. A failed flush does not re-arm; the next
// mutation or an explicit ForceFlush retries.
func (s *Scheduler) flush(tripID string) {
	s.store.mu.Lock()
	st, ok := s.store.states[tripID]
	if !ok {
		s.store.mu.Unlock()
		return
	}
	if st.saving {
		st.flushQueued = true
		s.store.mu.Unlock()
		return
	}
	st.saving = true
	snapshot := st.plan.Clone()
	s.store.mu.Unlock()

	s.emit(tripID, StatusSaving, "")
	err := s.persist(tripID, snapshot)

	s.store.mu.Lock()
	st.saving = false
	queued := st.flushQueued
	st.flushQueued = false
	s.store.mu.Unlock()

	if err != nil {
		log.Printf("[PLAN] flush gagal trip_id=%s: %v", tripID, err)
		s.emit(tripID, StatusError, err.Error())
	} else {
		s.emit(tripID, StatusSaved, "")
	}

	if queued {
		s.flush(tripID)
	}
}

func (s *Scheduler) emit(tripID, status, message string) {
	if s.notify != nil {
		s.notify(tripID, status, message)
	}
}
