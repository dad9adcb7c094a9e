package repositories

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"tripmate/internal/domain"
	"tripmate/internal/domain/models"
)

func TestPlanLoadAbsentReturnsNil(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT plan_json FROM trip_plans").WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"plan_json"}))

	repo := PlanRepository{DB: db}
	p, err := repo.Load("7")
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if p != nil {
		t.Fatalf("absent plan should be nil, got %+v", p)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPlanLoadDecodesDocument(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	doc := `{"notes":[{"id":"n1","content":"bawa sunscreen"}],"places":[],"transits":[],"itineraries":[],"budget":5000,"expenses":[]}`
	mock.ExpectQuery("SELECT plan_json FROM trip_plans").WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"plan_json"}).AddRow(doc))

	repo := PlanRepository{DB: db}
	p, err := repo.Load("7")
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if len(p.Notes) != 1 || p.Notes[0].ID != "n1" {
		t.Fatalf("notes not decoded: %+v", p.Notes)
	}
	if got, ok := p.Budget.(float64); !ok || got != 5000 {
		t.Fatalf("budget = %v, want 5000", p.Budget)
	}
}

func TestPlanLoadRejectsBadTripID(t *testing.T) {
	repo := PlanRepository{DB: nil}
	if _, err := repo.Load("not-a-number"); !domain.IsValidation(err) {
		t.Fatalf("want ValidationError, got %v", err)
	}
}

func TestPlanSaveUpserts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO trip_plans").
		WillReturnResult(sqlmock.NewResult(1, 1))

	p := models.NewPlan()
	p.Notes = append(p.Notes, models.Note{ID: "n1", Content: "halo"})

	repo := PlanRepository{DB: db}
	if err := repo.Save("7", p, "u1"); err != nil {
		t.Fatalf("save error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
