package handlers

import (
	"net/http"
	"strconv"

	"tripmate/internal/domain"
	"tripmate/internal/domain/models"
	"tripmate/internal/http/middleware"
	"tripmate/internal/repositories"
	"tripmate/internal/utils"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var tripRepo repositories.TripRepository

// SetTripRepo installs the repository the trip handlers use.
func SetTripRepo(r repositories.TripRepository) {
	tripRepo = r
}

type tripRequest struct {
	Name        string   `json:"name"`
	Destination string   `json:"destination"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	Tripmates   []string `json:"tripmates"`
}

func (r tripRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 150)),
		validation.Field(&r.StartDate, validation.By(optionalDate)),
		validation.Field(&r.EndDate, validation.By(optionalDate)),
	)
}

func optionalDate(v any) error {
	s, _ := v.(string)
	if utils.TrimOrEmpty(s) == "" {
		return nil
	}
	if _, err := utils.ParseDate(s); err != nil {
		return domain.ValidationError{Field: "date", Msg: "format harus YYYY-MM-DD"}
	}
	return nil
}

func tripIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid_trip_id", "id trip tidak valid", nil)
		return 0, false
	}
	return id, true
}

// loadMemberTrip fetches the trip and enforces that the caller is a tripmate.
func loadMemberTrip(c *gin.Context, id int64) (models.Trip, bool) {
	trip, err := tripRepo.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return models.Trip{}, false
	}
	if email := middleware.AuthUserEmail(c); email != "" && !trip.HasTripmate(email) {
		RespondDomainError(c, domain.UnauthorizedError{Reason: "bukan tripmate dari trip ini"})
		return models.Trip{}, false
	}
	return trip, true
}

// GET /api/trips
func GetTrips(c *gin.Context) {
	trips, err := tripRepo.ListByMember(middleware.AuthUserEmail(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trips": trips})
}

// GET /api/trips/:id
func GetTripByID(c *gin.Context) {
	id, ok := tripIDParam(c)
	if !ok {
		return
	}
	trip, ok := loadMemberTrip(c, id)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"trip": trip})
}

// POST /api/trips
func CreateTrip(c *gin.Context) {
	var req tripRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}

	trip, err := tripRepo.Create(models.Trip{
		Name:        utils.NormalizeSpace(req.Name),
		Destination: utils.TrimOrEmpty(req.Destination),
		StartDate:   utils.TrimOrEmpty(req.StartDate),
		EndDate:     utils.TrimOrEmpty(req.EndDate),
		OwnerID:     middleware.AuthUserID(c),
		Tripmates:   req.Tripmates,
	}, middleware.AuthUserEmail(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "trip dibuat", "trip": trip})
}

// PUT /api/trips/:id
func UpdateTrip(c *gin.Context) {
	id, ok := tripIDParam(c)
	if !ok {
		return
	}
	trip, ok := loadMemberTrip(c, id)
	if !ok {
		return
	}

	var req tripRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}

	trip.Name = utils.NormalizeSpace(req.Name)
	trip.Destination = utils.TrimOrEmpty(req.Destination)
	trip.StartDate = utils.TrimOrEmpty(req.StartDate)
	trip.EndDate = utils.TrimOrEmpty(req.EndDate)
	if req.Tripmates != nil {
		trip.Tripmates = req.Tripmates
	}

	updated, err := tripRepo.Update(trip)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "trip diperbarui", "trip": updated})
}

// DELETE /api/trips/:id (owner only)
func DeleteTrip(c *gin.Context) {
	id, ok := tripIDParam(c)
	if !ok {
		return
	}
	trip, err := tripRepo.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if uid := middleware.AuthUserID(c); uid != 0 && trip.OwnerID != uid {
		RespondDomainError(c, domain.UnauthorizedError{Reason: "hanya pemilik trip yang boleh menghapus"})
		return
	}
	if err := tripRepo.Delete(id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "trip dihapus"})
}

type tripmateRequest struct {
	Email  string `json:"email"`
	Emails string `json:"emails"`
}

// POST /api/trips/:id/tripmates
// Accepts a single email or a comma separated list; adding is idempotent.
func AddTripmates(c *gin.Context) {
	id, ok := tripIDParam(c)
	if !ok {
		return
	}
	if _, ok := loadMemberTrip(c, id); !ok {
		return
	}

	var req tripmateRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	emails := utils.SplitEmailList(req.Emails)
	if e := utils.TrimOrEmpty(req.Email); e != "" {
		emails = append(emails, e)
	}
	if len(emails) == 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "email wajib diisi", nil)
		return
	}

	var (
		trip models.Trip
		err  error
	)
	for _, e := range emails {
		trip, err = tripRepo.AddTripmate(id, e)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "tripmate ditambahkan", "trip": trip})
}
