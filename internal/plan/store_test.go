package plan

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"tripmate/internal/domain/models"
)

func TestOpenForEditLazyDefault(t *testing.T) {
	store := NewStore()

	p, err := store.OpenForEdit("t1", nil)
	if err != nil {
		t.Fatalf("open error: %v", err)
	}
	if len(p.Notes)+len(p.Places)+len(p.Transits)+len(p.Itineraries)+len(p.Expenses) != 0 {
		t.Fatalf("default plan not empty: %+v", p)
	}
	if got, ok := p.Budget.(int); !ok || got != 0 {
		t.Fatalf("default budget = %v, want 0", p.Budget)
	}
}

func TestOpenForEditLoadsPersistedPlanOnce(t *testing.T) {
	store := NewStore()
	loads := 0
	loader := func() (*models.Plan, error) {
		loads++
		p := models.NewPlan()
		p.Notes = append(p.Notes, models.Note{ID: "n1", Content: "from storage"})
		return p, nil
	}

	for i := 0; i < 3; i++ {
		p, err := store.OpenForEdit("t1", loader)
		if err != nil {
			t.Fatalf("open %d error: %v", i, err)
		}
		if len(p.Notes) != 1 || p.Notes[0].Content != "from storage" {
			t.Fatalf("open %d: hydrated plan missing note: %+v", i, p.Notes)
		}
	}
	if loads != 1 {
		t.Fatalf("loader called %d times, want 1", loads)
	}
}

func TestOpenForEditAbsentPlanKeepsDefault(t *testing.T) {
	store := NewStore()
	loader := func() (*models.Plan, error) { return nil, nil }

	p, err := store.OpenForEdit("t1", loader)
	if err != nil {
		t.Fatalf("open error: %v", err)
	}
	if len(p.Notes) != 0 {
		t.Fatalf("absent plan should leave default, got %+v", p.Notes)
	}
}

func TestOpenForEditLoaderErrorPropagates(t *testing.T) {
	store := NewStore()
	boom := errors.New("storage down")

	if _, err := store.OpenForEdit("t1", func() (*models.Plan, error) { return nil, boom }); !errors.Is(err, boom) {
		t.Fatalf("want loader error, got %v", err)
	}

	// a failed open leaves the trip not hydrated so the next open retries
	p, err := store.OpenForEdit("t1", func() (*models.Plan, error) {
		loaded := models.NewPlan()
		loaded.Budget = "retried"
		return loaded, nil
	})
	if err != nil {
		t.Fatalf("retry open error: %v", err)
	}
	if p.Budget != "retried" {
		t.Fatalf("retry did not hydrate, budget = %v", p.Budget)
	}
}

func TestHydrateReplacesLazyDefaultAndClearsTimer(t *testing.T) {
	store := NewStore()
	sched := NewScheduler(store, func(string, *models.Plan) error {
		t.Errorf("hydrate should have cancelled the pending flush")
		return nil
	}, 30*time.Millisecond)
	eng := NewEngine(store, sched)

	if _, err := eng.AddItem("t1", models.SectionNotes, json.RawMessage(`{"content":"lazy"}`), nil); err != nil {
		t.Fatalf("add error: %v", err)
	}

	loaded := models.NewPlan()
	loaded.Notes = append(loaded.Notes, models.Note{ID: "n1", Content: "real"})
	store.Hydrate("t1", loaded)

	p, ok := store.Snapshot("t1")
	if !ok {
		t.Fatalf("no state after hydrate")
	}
	if len(p.Notes) != 1 || p.Notes[0].Content != "real" {
		t.Fatalf("hydrate did not replace plan: %+v", p.Notes)
	}

	time.Sleep(100 * time.Millisecond)
}

func TestSnapshotIsACopy(t *testing.T) {
	store := NewStore()
	if _, err := store.OpenForEdit("t1", nil); err != nil {
		t.Fatalf("open error: %v", err)
	}

	p, _ := store.Snapshot("t1")
	p.Notes = append(p.Notes, models.Note{ID: "x", Content: "mutating a snapshot"})

	again, _ := store.Snapshot("t1")
	if len(again.Notes) != 0 {
		t.Fatalf("snapshot mutation leaked into store")
	}
}
