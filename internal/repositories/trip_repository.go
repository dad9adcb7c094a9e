package repositories

import (
	"database/sql"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	intconfig "tripmate/internal/config"
	"tripmate/internal/domain"
	"tripmate/internal/domain/models"
)

// TripRepository wraps DB access for trips. The tripmates list is stored as a
// JSON array of lowercased emails in one column.
type TripRepository struct {
	DB *sql.DB
}

func (r TripRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func scanTrip(row interface{ Scan(...any) error }) (models.Trip, error) {
	var t models.Trip
	var tripmates sql.NullString
	var createdAt, updatedAt sql.NullString

	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Destination,
		&t.StartDate,
		&t.EndDate,
		&t.OwnerID,
		&tripmates,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return models.Trip{}, err
	}
	t.Tripmates = decodeTripmates(tripmates.String)
	t.CreatedAt = strings.TrimSpace(createdAt.String)
	t.UpdatedAt = strings.TrimSpace(updatedAt.String)
	return t, nil
}

const tripColumns = `
	id,
	COALESCE(name,''),
	COALESCE(destination,''),
	COALESCE(start_date,''),
	COALESCE(end_date,''),
	COALESCE(owner_id,0),
	COALESCE(tripmates,'[]'),
	COALESCE(created_at,''),
	COALESCE(updated_at,'')`

// GetByID loads one trip; absent rows map to NotFoundError.
func (r TripRepository) GetByID(id int64) (models.Trip, error) {
	if id <= 0 {
		return models.Trip{}, domain.NotFoundError{Resource: "trip"}
	}
	row := r.db().QueryRow(`SELECT `+tripColumns+` FROM trips WHERE id=? LIMIT 1`, id)
	t, err := scanTrip(row)
	if err == sql.ErrNoRows {
		return models.Trip{}, domain.NotFoundError{Resource: "trip"}
	}
	if err != nil {
		return models.Trip{}, err
	}
	return t, nil
}

// GetByIDString is the TripLookup shape the realtime gate consumes; trip ids
// travel as strings over the wire.
func (r TripRepository) GetByIDString(tripID string) (models.Trip, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(tripID), 10, 64)
	if err != nil {
		return models.Trip{}, domain.NotFoundError{Resource: "trip"}
	}
	return r.GetByID(id)
}

// ListByMember returns every trip whose tripmates include the email.
func (r TripRepository) ListByMember(email string) ([]models.Trip, error) {
	rows, err := r.db().Query(`SELECT ` + tripColumns + ` FROM trips ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	email = strings.ToLower(strings.TrimSpace(email))
	out := []models.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return out, err
		}
		if email == "" || t.HasTripmate(email) {
			out = append(out, t)
		}
	}
	return out, rows.Err()
}

// Create inserts a trip; the owner's email is always part of the tripmates.
func (r TripRepository) Create(t models.Trip, ownerEmail string) (models.Trip, error) {
	t.Tripmates = normalizeTripmates(append(t.Tripmates, ownerEmail))
	raw, err := json.Marshal(t.Tripmates)
	if err != nil {
		return t, err
	}

	res, err := r.db().Exec(`
		INSERT INTO trips (name, destination, start_date, end_date, owner_id, tripmates, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Name, t.Destination, t.StartDate, t.EndDate, t.OwnerID, string(raw), time.Now(), time.Now(),
	)
	if err != nil {
		return t, err
	}
	t.ID, _ = res.LastInsertId()
	return t, nil
}

// Update overwrites the mutable trip fields.
func (r TripRepository) Update(t models.Trip) (models.Trip, error) {
	t.Tripmates = normalizeTripmates(t.Tripmates)
	raw, err := json.Marshal(t.Tripmates)
	if err != nil {
		return t, err
	}

	res, err := r.db().Exec(`
		UPDATE trips SET name=?, destination=?, start_date=?, end_date=?, tripmates=?, updated_at=?
		WHERE id=?`,
		t.Name, t.Destination, t.StartDate, t.EndDate, string(raw), time.Now(), t.ID,
	)
	if err != nil {
		return t, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(t.ID); err != nil {
			return t, err
		}
	}
	return t, nil
}

func (r TripRepository) Delete(id int64) error {
	res, err := r.db().Exec(`DELETE FROM trips WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "trip"}
	}
	return nil
}

// AddTripmate appends one email to the trip's member list (idempotent).
func (r TripRepository) AddTripmate(id int64, email string) (models.Trip, error) {
	t, err := r.GetByID(id)
	if err != nil {
		return models.Trip{}, err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return t, domain.ValidationError{Field: "email", Msg: "wajib diisi"}
	}
	if t.HasTripmate(email) {
		return t, nil
	}
	t.Tripmates = append(t.Tripmates, email)
	return r.Update(t)
}

func decodeTripmates(raw string) []string {
	out := []string{}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return out
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return []string{}
	}
	return normalizeTripmates(out)
}

func normalizeTripmates(in []string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, e := range in {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}
