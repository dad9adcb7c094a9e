package repositories

import (
	"database/sql"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	intconfig "tripmate/internal/config"
	intdb "tripmate/internal/db"
	"tripmate/internal/domain"
	"tripmate/internal/domain/models"
)

// PlanRepository is the durable side of the collaborative plan: one JSON
// document per trip, upserted as a whole. The in-memory plan stays
// authoritative during editing; this table only trails it.
type PlanRepository struct {
	DB *sql.DB
}

func (r PlanRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func parseTripID(tripID string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(tripID), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ValidationError{Field: "trip_id", Msg: "tidak valid"}
	}
	return id, nil
}

// Load fetches the persisted plan; (nil, nil) means no plan has ever been
// flushed for this trip.
func (r PlanRepository) Load(tripID string) (*models.Plan, error) {
	id, err := parseTripID(tripID)
	if err != nil {
		return nil, err
	}

	var raw string
	err = r.db().QueryRow(`SELECT plan_json FROM trip_plans WHERE trip_id=? LIMIT 1`, id).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	p := models.NewPlan()
	if err := json.Unmarshal([]byte(raw), p); err != nil {
		return nil, domain.InternalError{Msg: "plan tersimpan rusak", Err: err}
	}
	return p, nil
}

// Save upserts the plan document. actorID is recorded when known (force-save
// from a request carries one, debounce flushes do not).
func (r PlanRepository) Save(tripID string, p *models.Plan, actorID string) error {
	id, err := parseTripID(tripID)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return domain.InternalError{Msg: "gagal encode plan", Err: err}
	}

	now := time.Now()
	_, err = r.db().Exec(`
		INSERT INTO trip_plans (trip_id, plan_json, updated_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE plan_json=VALUES(plan_json), updated_by=VALUES(updated_by), updated_at=VALUES(updated_at)`,
		id, string(raw), intdb.NullIfEmpty(strings.TrimSpace(actorID)), now, now,
	)
	return err
}
