package plan

import (
	"encoding/json"
	"testing"
	"time"

	"tripmate/internal/domain"
	"tripmate/internal/domain/models"
)

// newTestEngine wires an engine whose scheduler never fires on its own.
func newTestEngine() (*Engine, *Store) {
	store := NewStore()
	sched := NewScheduler(store, func(string, *models.Plan) error { return nil }, time.Hour)
	return NewEngine(store, sched), store
}

func sectionLen(t *testing.T, store *Store, tripID string, section models.Section) int {
	t.Helper()
	p, ok := store.Snapshot(tripID)
	if !ok {
		t.Fatalf("no plan state for trip %s", tripID)
	}
	switch section {
	case models.SectionNotes:
		return len(p.Notes)
	case models.SectionPlaces:
		return len(p.Places)
	case models.SectionTransits:
		return len(p.Transits)
	case models.SectionItineraries:
		return len(p.Itineraries)
	case models.SectionExpenses:
		return len(p.Expenses)
	}
	t.Fatalf("not a collection section: %s", section)
	return 0
}

func TestAddThenDeleteRestoresLength(t *testing.T) {
	payloads := map[models.Section]string{
		models.SectionNotes:       `{"content":"pack sunscreen"}`,
		models.SectionPlaces:      `{"name":"Borobudur"}`,
		models.SectionTransits:    `{"mode":"train","from":"Jakarta","to":"Yogyakarta"}`,
		models.SectionItineraries: `{"title":"temple sunrise"}`,
		models.SectionExpenses:    `{"title":"tickets","amount":250000}`,
	}

	for section, payload := range payloads {
		eng, store := newTestEngine()

		res, err := eng.AddItem("t1", section, json.RawMessage(payload), nil)
		if err != nil {
			t.Fatalf("%s: add error: %v", section, err)
		}
		if res.ItemID == "" {
			t.Fatalf("%s: add returned empty id", section)
		}
		if got := sectionLen(t, store, "t1", section); got != 1 {
			t.Fatalf("%s: length after add = %d, want 1", section, got)
		}

		if err := eng.DeleteItem("t1", section, res.ItemID); err != nil {
			t.Fatalf("%s: delete error: %v", section, err)
		}
		if got := sectionLen(t, store, "t1", section); got != 0 {
			t.Fatalf("%s: length after delete = %d, want 0", section, got)
		}
	}
}

func TestAddAssignsUniqueIDs(t *testing.T) {
	eng, _ := newTestEngine()

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		res, err := eng.AddItem("t1", models.SectionNotes, json.RawMessage(`{"content":"n"}`), nil)
		if err != nil {
			t.Fatalf("add error: %v", err)
		}
		if seen[res.ItemID] {
			t.Fatalf("duplicate item id %s", res.ItemID)
		}
		seen[res.ItemID] = true
	}
}

func TestUpdateMissingIDIsSilentNoop(t *testing.T) {
	eng, store := newTestEngine()

	if _, err := eng.AddItem("t1", models.SectionNotes, json.RawMessage(`{"content":"keep me"}`), nil); err != nil {
		t.Fatalf("add error: %v", err)
	}
	before, _ := store.Snapshot("t1")

	res, err := eng.UpdateItem("t1", models.SectionNotes, json.RawMessage(`{"id":"does-not-exist","content":"ghost"}`))
	if err != nil {
		t.Fatalf("update should be silent no-op, got error: %v", err)
	}
	if res.Applied {
		t.Fatalf("update of missing id reported as applied")
	}

	after, _ := store.Snapshot("t1")
	if len(after.Notes) != len(before.Notes) || after.Notes[0].Content != "keep me" {
		t.Fatalf("collection changed by no-op update: %+v", after.Notes)
	}
}

func TestUpdateMergesOnlyPresentKeys(t *testing.T) {
	eng, store := newTestEngine()

	actor := &models.TripUser{ID: "u1", Email: "ana@example.com", FullName: "Ana"}
	res, err := eng.AddItem("t1", models.SectionNotes, json.RawMessage(`{"content":"old"}`), actor)
	if err != nil {
		t.Fatalf("add error: %v", err)
	}

	upd, err := eng.UpdateItem("t1", models.SectionNotes, json.RawMessage(`{"id":"`+res.ItemID+`","content":"new"}`))
	if err != nil {
		t.Fatalf("update error: %v", err)
	}
	if !upd.Applied {
		t.Fatalf("update not applied")
	}

	p, _ := store.Snapshot("t1")
	if p.Notes[0].Content != "new" {
		t.Fatalf("content not updated: %q", p.Notes[0].Content)
	}
	if p.Notes[0].Author != "Ana" {
		t.Fatalf("author not preserved through merge: %q", p.Notes[0].Author)
	}
	if p.Notes[0].ID != res.ItemID {
		t.Fatalf("id changed by merge: %q", p.Notes[0].ID)
	}
}

func TestBudgetAcceptsNumberThenString(t *testing.T) {
	eng, store := newTestEngine()

	if _, err := eng.AddItem("t1", models.SectionBudget, json.RawMessage(`5000`), nil); err != nil {
		t.Fatalf("budget number rejected: %v", err)
	}
	p, _ := store.Snapshot("t1")
	if got, ok := p.Budget.(float64); !ok || got != 5000 {
		t.Fatalf("budget = %v, want 5000", p.Budget)
	}

	if _, err := eng.AddItem("t1", models.SectionBudget, json.RawMessage(`"low"`), nil); err != nil {
		t.Fatalf("budget string rejected: %v", err)
	}
	p, _ = store.Snapshot("t1")
	if got, ok := p.Budget.(string); !ok || got != "low" {
		t.Fatalf("budget = %v, want \"low\"", p.Budget)
	}
}

func TestBudgetRejectsNonScalarPayload(t *testing.T) {
	eng, _ := newTestEngine()

	_, err := eng.AddItem("t1", models.SectionBudget, json.RawMessage(`{"amount":5000}`), nil)
	if !domain.IsInvalidPayload(err) {
		t.Fatalf("want InvalidPayloadError, got %v", err)
	}
}

func TestBudgetUpdateAlwaysFails(t *testing.T) {
	eng, _ := newTestEngine()

	for _, payload := range []string{`5000`, `"low"`, `{"id":"budget"}`} {
		_, err := eng.UpdateItem("t1", models.SectionBudget, json.RawMessage(payload))
		if !domain.IsUnsupportedSection(err) {
			t.Fatalf("payload %s: want UnsupportedSectionError, got %v", payload, err)
		}
	}
}

func TestBudgetDeleteIsNoop(t *testing.T) {
	eng, store := newTestEngine()

	if _, err := eng.AddItem("t1", models.SectionBudget, json.RawMessage(`750`), nil); err != nil {
		t.Fatalf("budget add error: %v", err)
	}
	if err := eng.DeleteItem("t1", models.SectionBudget, "budget"); err != nil {
		t.Fatalf("budget delete should be a no-op, got %v", err)
	}
	p, _ := store.Snapshot("t1")
	if got, ok := p.Budget.(float64); !ok || got != 750 {
		t.Fatalf("budget changed by delete: %v", p.Budget)
	}
}

func TestUnknownSectionRejected(t *testing.T) {
	eng, _ := newTestEngine()

	if _, err := eng.AddItem("t1", "weather", json.RawMessage(`{}`), nil); !domain.IsUnsupportedSection(err) {
		t.Fatalf("add: want UnsupportedSectionError, got %v", err)
	}
	if _, err := eng.UpdateItem("t1", "weather", json.RawMessage(`{"id":"x"}`)); !domain.IsUnsupportedSection(err) {
		t.Fatalf("update: want UnsupportedSectionError, got %v", err)
	}
	if err := eng.DeleteItem("t1", "weather", "x"); !domain.IsUnsupportedSection(err) {
		t.Fatalf("delete: want UnsupportedSectionError, got %v", err)
	}
}

func TestActorStamping(t *testing.T) {
	eng, store := newTestEngine()
	actor := &models.TripUser{ID: "u1", Email: "budi@example.com", FullName: "Budi"}

	if _, err := eng.AddItem("t1", models.SectionNotes, json.RawMessage(`{"content":"halo"}`), actor); err != nil {
		t.Fatalf("note add error: %v", err)
	}
	if _, err := eng.AddItem("t1", models.SectionItineraries, json.RawMessage(`{"title":"beach day"}`), actor); err != nil {
		t.Fatalf("itinerary add error: %v", err)
	}
	// places are not stamped even when an actor is present
	if _, err := eng.AddItem("t1", models.SectionPlaces, json.RawMessage(`{"name":"Kuta"}`), actor); err != nil {
		t.Fatalf("place add error: %v", err)
	}

	p, _ := store.Snapshot("t1")
	if p.Notes[0].Author != "Budi" {
		t.Fatalf("note author = %q, want Budi", p.Notes[0].Author)
	}
	if p.Itineraries[0].AddedBy != "Budi" {
		t.Fatalf("itinerary addedBy = %q, want Budi", p.Itineraries[0].AddedBy)
	}
	if p.Itineraries[0].CreatedAt == "" {
		t.Fatalf("itinerary createdAt not stamped")
	}
	if _, err := time.Parse(time.RFC3339, p.Itineraries[0].CreatedAt); err != nil {
		t.Fatalf("createdAt not RFC3339: %v", err)
	}
}

func TestAddWithoutActorLeavesStampsEmpty(t *testing.T) {
	eng, store := newTestEngine()

	if _, err := eng.AddItem("t1", models.SectionNotes, json.RawMessage(`{"content":"anon"}`), nil); err != nil {
		t.Fatalf("add error: %v", err)
	}
	p, _ := store.Snapshot("t1")
	if p.Notes[0].Author != "" {
		t.Fatalf("author stamped without actor: %q", p.Notes[0].Author)
	}
}
