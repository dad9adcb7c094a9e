package repositories

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"tripmate/internal/domain"
	"tripmate/internal/domain/models"
)

func tripRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "destination", "start_date", "end_date", "owner_id", "tripmates", "created_at", "updated_at",
	})
}

func TestTripGetByIDDecodesTripmates(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT(.|\\s)+FROM trips WHERE id").WithArgs(int64(7)).
		WillReturnRows(tripRows().AddRow(
			7, "Bali", "Bali", "2026-09-01", "2026-09-07", 1,
			`["Ana@Example.com","budi@example.com"]`, "", "",
		))

	repo := TripRepository{DB: db}
	trip, err := repo.GetByID(7)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if len(trip.Tripmates) != 2 {
		t.Fatalf("tripmates = %v", trip.Tripmates)
	}
	// emails come back lowercased so the gate's membership check is stable
	if !trip.HasTripmate("ana@example.com") || !trip.HasTripmate("budi@example.com") {
		t.Fatalf("membership check failed for %v", trip.Tripmates)
	}
}

func TestTripGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT(.|\\s)+FROM trips WHERE id").WithArgs(int64(99)).
		WillReturnRows(tripRows())

	repo := TripRepository{DB: db}
	if _, err := repo.GetByID(99); !domain.IsNotFound(err) {
		t.Fatalf("want NotFoundError, got %v", err)
	}
}

func TestTripGetByIDStringRejectsGarbage(t *testing.T) {
	repo := TripRepository{DB: nil}
	if _, err := repo.GetByIDString("abc"); !domain.IsNotFound(err) {
		t.Fatalf("want NotFoundError, got %v", err)
	}
}

func TestTripCreateIncludesOwnerEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO trips").
		WillReturnResult(sqlmock.NewResult(12, 1))

	repo := TripRepository{DB: db}
	trip, err := repo.Create(models.Trip{
		Name:        "Bali",
		Destination: "Bali",
		StartDate:   "2026-09-01",
		EndDate:     "2026-09-07",
		OwnerID:     1,
		Tripmates:   []string{"budi@example.com"},
	}, "Owner@Example.com")
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if trip.ID != 12 {
		t.Fatalf("trip id = %d, want 12", trip.ID)
	}
	if !trip.HasTripmate("owner@example.com") || !trip.HasTripmate("budi@example.com") {
		t.Fatalf("tripmates incomplete: %v", trip.Tripmates)
	}
}
