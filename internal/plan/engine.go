package plan

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/oklog/ulid/v2"

	"tripmate/internal/domain"
	"tripmate/internal/domain/models"
)

// BudgetItemID is the fixed marker returned for budget writes; the scalar
// section has no item identity to hand back.
const BudgetItemID = "budget"

// Result describes one applied mutation, ready for broadcast.
type Result struct {
	ItemID string
	// Item is the finalized item as stored (server id and stamps included).
	// Nil for deletes and for updates whose target no longer exists.
	Item json.RawMessage
	// Applied is false only for the update-miss no-op.
	Applied bool
}

// Engine applies typed add/update/delete operations to plan sections and arms
// the flush scheduler after every accepted command. Conflict resolution is
// last-write-wins by arrival order.
type Engine struct {
	store *Store
	sched *Scheduler
}

func NewEngine(store *Store, sched *Scheduler) *Engine {
	return &Engine{store: store, sched: sched}
}

func newItemID() string {
	return ulid.Make().String()
}

func nowStamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// AddItem appends a new item to a collection section, or replaces the budget
// scalar. The server assigns the item id; notes and itineraries are stamped
// with the actor's display name when one is supplied.
func (e *Engine) AddItem(tripID string, section models.Section, payload json.RawMessage, actor *models.TripUser) (Result, error) {
	if section == models.SectionBudget {
		return e.setBudget(tripID, payload)
	}
	if !section.IsCollection() {
		return Result{}, domain.UnsupportedSectionError{Section: string(section), Op: "add"}
	}

	id := newItemID()

	e.store.mu.Lock()
	st := e.store.getOrCreate(tripID)

	var (
		finalized any
		err       error
	)
	switch section {
	case models.SectionNotes:
		var item *models.Note
		st.plan.Notes, item, err = appendItem[models.Note, *models.Note](st.plan.Notes, payload, id)
		if err == nil {
			if actor != nil {
				item.Author = actor.FullName
			}
			finalized = item
		}
	case models.SectionPlaces:
		var item *models.PlaceNote
		st.plan.Places, item, err = appendItem[models.PlaceNote, *models.PlaceNote](st.plan.Places, payload, id)
		finalized = item
	case models.SectionTransits:
		var item *models.Transit
		st.plan.Transits, item, err = appendItem[models.Transit, *models.Transit](st.plan.Transits, payload, id)
		finalized = item
	case models.SectionItineraries:
		var item *models.ItineraryItem
		st.plan.Itineraries, item, err = appendItem[models.ItineraryItem, *models.ItineraryItem](st.plan.Itineraries, payload, id)
		if err == nil {
			if actor != nil {
				item.AddedBy = actor.FullName
				item.CreatedAt = nowStamp()
			}
			finalized = item
		}
	case models.SectionExpenses:
		var item *models.Expense
		st.plan.Expenses, item, err = appendItem[models.Expense, *models.Expense](st.plan.Expenses, payload, id)
		finalized = item
	}
	if err != nil {
		e.store.mu.Unlock()
		return Result{}, domain.InvalidPayloadError{Section: string(section), Msg: err.Error()}
	}
	raw, err := json.Marshal(finalized)
	e.store.mu.Unlock()
	if err != nil {
		return Result{}, domain.InternalError{Msg: "gagal encode item", Err: err}
	}

	e.sched.Arm(tripID)
	return Result{ItemID: id, Item: raw, Applied: true}, nil
}

// setBudget replaces the scalar budget section. Only JSON numbers and strings
// are accepted.
func (e *Engine) setBudget(tripID string, payload json.RawMessage) (Result, error) {
	var value any
	if err := json.Unmarshal(payload, &value); err != nil {
		return Result{}, domain.InvalidPayloadError{Section: string(models.SectionBudget), Msg: "budget harus berupa angka atau teks"}
	}
	switch value.(type) {
	case float64, string:
	default:
		return Result{}, domain.InvalidPayloadError{Section: string(models.SectionBudget), Msg: "budget harus berupa angka atau teks"}
	}

	e.store.mu.Lock()
	st := e.store.getOrCreate(tripID)
	st.plan.Budget = value
	e.store.mu.Unlock()

	e.sched.Arm(tripID)
	return Result{ItemID: BudgetItemID, Item: payload, Applied: true}, nil
}

// UpdateItem shallow-merges the payload onto the existing item with the same
// id: keys present in the payload overwrite, absent keys are preserved. A
// missing target is a silent no-op so re-delivered updates stay idempotent;
// the scheduler is armed either way. Budget cannot be updated, only re-added.
func (e *Engine) UpdateItem(tripID string, section models.Section, payload json.RawMessage) (Result, error) {
	if !section.IsCollection() {
		return Result{}, domain.UnsupportedSectionError{Section: string(section), Op: "update"}
	}

	var ref struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(payload, &ref); err != nil {
		return Result{}, domain.InvalidPayloadError{Section: string(section), Msg: err.Error()}
	}

	e.store.mu.Lock()
	st := e.store.getOrCreate(tripID)

	var (
		finalized any
		found     bool
		err       error
	)
	switch section {
	case models.SectionNotes:
		finalized, found, err = mergeItem[models.Note, *models.Note](st.plan.Notes, payload, ref.ID)
	case models.SectionPlaces:
		finalized, found, err = mergeItem[models.PlaceNote, *models.PlaceNote](st.plan.Places, payload, ref.ID)
	case models.SectionTransits:
		finalized, found, err = mergeItem[models.Transit, *models.Transit](st.plan.Transits, payload, ref.ID)
	case models.SectionItineraries:
		finalized, found, err = mergeItem[models.ItineraryItem, *models.ItineraryItem](st.plan.Itineraries, payload, ref.ID)
	case models.SectionExpenses:
		finalized, found, err = mergeItem[models.Expense, *models.Expense](st.plan.Expenses, payload, ref.ID)
	}
	if err != nil {
		e.store.mu.Unlock()
		return Result{}, domain.InvalidPayloadError{Section: string(section), Msg: err.Error()}
	}

	var raw json.RawMessage
	if found {
		raw, err = json.Marshal(finalized)
	}
	e.store.mu.Unlock()
	if err != nil {
		return Result{}, domain.InternalError{Msg: "gagal encode item", Err: err}
	}

	e.sched.Arm(tripID)
	return Result{ItemID: ref.ID, Item: raw, Applied: found}, nil
}

// DeleteItem removes the first item matching itemID. Deleting from budget is
// defined as a no-op, not an error. The scheduler is armed unconditionally.
func (e *Engine) DeleteItem(tripID string, section models.Section, itemID string) error {
	if section == models.SectionBudget {
		e.sched.Arm(tripID)
		return nil
	}
	if !section.IsCollection() {
		return domain.UnsupportedSectionError{Section: string(section), Op: "delete"}
	}

	e.store.mu.Lock()
	st := e.store.getOrCreate(tripID)
	switch section {
	case models.SectionNotes:
		st.plan.Notes, _ = removeItem[models.Note, *models.Note](st.plan.Notes, itemID)
	case models.SectionPlaces:
		st.plan.Places, _ = removeItem[models.PlaceNote, *models.PlaceNote](st.plan.Places, itemID)
	case models.SectionTransits:
		st.plan.Transits, _ = removeItem[models.Transit, *models.Transit](st.plan.Transits, itemID)
	case models.SectionItineraries:
		st.plan.Itineraries, _ = removeItem[models.ItineraryItem, *models.ItineraryItem](st.plan.Itineraries, itemID)
	case models.SectionExpenses:
		st.plan.Expenses, _ = removeItem[models.Expense, *models.Expense](st.plan.Expenses, itemID)
	}
	e.store.mu.Unlock()

	e.sched.Arm(tripID)
	return nil
}

// appendItem decodes the payload into a fresh item, stamps the server id and
// appends. The returned pointer addresses the stored element so callers can
// stamp actor fields before encoding.
func appendItem[T any, PT interface {
	*T
	models.Identifiable
}](list []T, payload []byte, id string) ([]T, PT, error) {
	var item T
	if len(payload) > 0 && !bytes.Equal(bytes.TrimSpace(payload), []byte("null")) {
		if err := json.Unmarshal(payload, &item); err != nil {
			return list, nil, err
		}
	}
	list = append(list, item)
	pt := PT(&list[len(list)-1])
	pt.SetItemID(id)
	return list, pt, nil
}

// mergeItem locates the item with the given id and unmarshals the payload
// over a copy of it. Only keys carried by the payload change.
func mergeItem[T any, PT interface {
	*T
	models.Identifiable
}](list []T, payload []byte, id string) (PT, bool, error) {
	if id == "" {
		return nil, false, nil
	}
	for i := range list {
		if PT(&list[i]).ItemID() != id {
			continue
		}
		merged := list[i]
		if err := json.Unmarshal(payload, &merged); err != nil {
			return nil, false, err
		}
		PT(&merged).SetItemID(id)
		list[i] = merged
		return PT(&list[i]), true, nil
	}
	return nil, false, nil
}

func removeItem[T any, PT interface {
	*T
	models.Identifiable
}](list []T, id string) ([]T, bool) {
	for i := range list {
		if PT(&list[i]).ItemID() == id {
			return append(list[:i], list[i+1:]...), true
		}
	}
	return list, false
}
