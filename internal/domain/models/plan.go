package models

// Section names one part of a trip plan. Five sections hold collections of
// items, budget holds a single scalar (number or string).
type Section string

const (
	SectionNotes       Section = "notes"
	SectionPlaces      Section = "places"
	SectionTransits    Section = "transits"
	SectionItineraries Section = "itineraries"
	SectionBudget      Section = "budget"
	SectionExpenses    Section = "expenses"
)

// IsCollection reports whether the section is item-based.
func (s Section) IsCollection() bool {
	switch s {
	case SectionNotes, SectionPlaces, SectionTransits, SectionItineraries, SectionExpenses:
		return true
	}
	return false
}

// KnownSection reports whether s names any plan section at all.
func KnownSection(s Section) bool {
	return s.IsCollection() || s == SectionBudget
}

// Note is a free-form text entry on the shared plan.
type Note struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	Author  string `json:"author,omitempty"`
}

// PlaceNote marks a place of interest with an optional visited flag.
type PlaceNote struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Note    string `json:"note,omitempty"`
	Visited bool   `json:"visited"`
}

// Transit describes one leg of travel between places.
type Transit struct {
	ID            string `json:"id"`
	Mode          string `json:"mode"`
	From          string `json:"from,omitempty"`
	To            string `json:"to,omitempty"`
	DepartureTime string `json:"departureTime,omitempty"`
	ArrivalTime   string `json:"arrivalTime,omitempty"`
}

// ItineraryItem is one scheduled activity on the plan.
type ItineraryItem struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Date      string `json:"date,omitempty"`
	Time      string `json:"time,omitempty"`
	Notes     string `json:"notes,omitempty"`
	AddedBy   string `json:"addedBy,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// Expense records money spent against the trip budget.
type Expense struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Amount   float64 `json:"amount"`
	PaidBy   string  `json:"paidBy,omitempty"`
	Category string  `json:"category,omitempty"`
}

func (n *Note) ItemID() string           { return n.ID }
func (n *Note) SetItemID(id string)      { n.ID = id }
func (p *PlaceNote) ItemID() string      { return p.ID }
func (p *PlaceNote) SetItemID(id string) { p.ID = id }
func (t *Transit) ItemID() string        { return t.ID }
func (t *Transit) SetItemID(id string)   { t.ID = id }
func (i *ItineraryItem) ItemID() string  { return i.ID }
func (i *ItineraryItem) SetItemID(id string) {
	i.ID = id
}
func (e *Expense) ItemID() string      { return e.ID }
func (e *Expense) SetItemID(id string) { e.ID = id }

// Identifiable is implemented by every collection item type; ids are assigned
// server-side and unique within one section's collection.
type Identifiable interface {
	ItemID() string
	SetItemID(string)
}

// Plan is the shared per-trip document edited live by tripmates.
type Plan struct {
	Notes       []Note          `json:"notes"`
	Places      []PlaceNote     `json:"places"`
	Transits    []Transit       `json:"transits"`
	Itineraries []ItineraryItem `json:"itineraries"`
	Budget      any             `json:"budget"`
	Expenses    []Expense       `json:"expenses"`
}

// NewPlan returns an empty plan with zero budget and non-nil collections so
// JSON encoding always emits arrays.
func NewPlan() *Plan {
	return &Plan{
		Notes:       []Note{},
		Places:      []PlaceNote{},
		Transits:    []Transit{},
		Itineraries: []ItineraryItem{},
		Budget:      0,
		Expenses:    []Expense{},
	}
}

// Clone deep-copies the plan so a flush can serialize a stable snapshot while
// new mutations keep landing on the original.
func (p *Plan) Clone() *Plan {
	out := &Plan{
		Notes:       append([]Note{}, p.Notes...),
		Places:      append([]PlaceNote{}, p.Places...),
		Transits:    append([]Transit{}, p.Transits...),
		Itineraries: append([]ItineraryItem{}, p.Itineraries...),
		Budget:      p.Budget,
		Expenses:    append([]Expense{}, p.Expenses...),
	}
	return out
}
