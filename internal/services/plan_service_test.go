package services

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"tripmate/internal/domain/models"
	"tripmate/internal/plan"
)

func newPlanServiceHarness(t *testing.T) (PlanService, *plan.Engine, *map[string]int, *sync.Mutex) {
	t.Helper()
	store := plan.NewStore()
	var mu sync.Mutex
	persisted := map[string]int{}
	sched := plan.NewScheduler(store, func(tripID string, p *models.Plan) error {
		mu.Lock()
		defer mu.Unlock()
		persisted[tripID]++
		return nil
	}, time.Hour)
	eng := plan.NewEngine(store, sched)
	svc := PlanService{Store: store, Scheduler: sched}
	return svc, eng, &persisted, &mu
}

func TestOpenPlanHydratesFromLoaderOnce(t *testing.T) {
	svc, _, _, _ := newPlanServiceHarness(t)

	loads := 0
	svc.Loader = func(tripID string) (*models.Plan, error) {
		loads++
		p := models.NewPlan()
		p.Budget = "hemat"
		return p, nil
	}

	for i := 0; i < 2; i++ {
		p, err := svc.OpenPlan("7")
		if err != nil {
			t.Fatalf("open %d error: %v", i, err)
		}
		if p.Budget != "hemat" {
			t.Fatalf("open %d: budget = %v", i, p.Budget)
		}
	}
	if loads != 1 {
		t.Fatalf("loader called %d times, want 1", loads)
	}
}

func TestSaveNowFlushesImmediately(t *testing.T) {
	svc, eng, persisted, mu := newPlanServiceHarness(t)

	if _, err := eng.AddItem("7", models.SectionNotes, json.RawMessage(`{"content":"n"}`), nil); err != nil {
		t.Fatalf("add error: %v", err)
	}

	if wasSaving := svc.SaveNow("7"); wasSaving {
		t.Fatalf("no flush should have been in flight")
	}

	mu.Lock()
	got := (*persisted)["7"]
	mu.Unlock()
	if got != 1 {
		t.Fatalf("save-now persisted %d times, want 1", got)
	}
}

func TestFlushAllCoversEveryActiveTrip(t *testing.T) {
	svc, eng, persisted, mu := newPlanServiceHarness(t)

	for _, tripID := range []string{"1", "2", "3"} {
		if _, err := eng.AddItem(tripID, models.SectionNotes, json.RawMessage(`{"content":"n"}`), nil); err != nil {
			t.Fatalf("add %s error: %v", tripID, err)
		}
	}

	if err := svc.FlushAll(context.Background()); err != nil {
		t.Fatalf("flush all error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	for _, tripID := range []string{"1", "2", "3"} {
		if (*persisted)[tripID] != 1 {
			t.Fatalf("trip %s persisted %d times, want 1", tripID, (*persisted)[tripID])
		}
	}
}
