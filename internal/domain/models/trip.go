package models

// Trip is the collaboration scope: one shared plan, one broadcast room.
type Trip struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Destination string   `json:"destination"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	OwnerID     int64    `json:"owner_id"`
	Tripmates   []string `json:"tripmates"`
	CreatedAt   string   `json:"created_at,omitempty"`
	UpdatedAt   string   `json:"updated_at,omitempty"`
}

// HasTripmate checks membership by email (case-insensitive match is the
// caller's job; emails are stored lowercased).
func (t Trip) HasTripmate(email string) bool {
	for _, m := range t.Tripmates {
		if m == email {
			return true
		}
	}
	return false
}

// TripUser is the descriptor a realtime client presents in its handshake.
type TripUser struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}
