package handlers

import (
	"net/http"
	"strconv"

	"tripmate/internal/http/middleware"
	"tripmate/internal/plan"
	"tripmate/internal/repositories"
	"tripmate/internal/services"
	"tripmate/internal/utils"

	"github.com/gin-gonic/gin"
)

var (
	planStore *plan.Store
	planSched *plan.Scheduler
	planRepo  repositories.PlanRepository
)

// SetPlanDeps wires the shared collab-engine state into the plan handlers.
func SetPlanDeps(store *plan.Store, sched *plan.Scheduler, repo repositories.PlanRepository) {
	planStore = store
	planSched = sched
	planRepo = repo
}

func planService(c *gin.Context) services.PlanService {
	return services.PlanService{
		Store:     planStore,
		Scheduler: planSched,
		Repo:      planRepo,
		RequestID: middleware.GetRequestID(c),
	}
}

// GET /api/trips/:id/plan
// Opens the trip's plan for editing: the first open hydrates the in-memory
// copy from storage, later opens return the live document.
func GetTripPlan(c *gin.Context) {
	id, ok := tripIDParam(c)
	if !ok {
		return
	}
	if _, ok := loadMemberTrip(c, id); !ok {
		return
	}

	tripID := strconv.FormatInt(id, 10)
	p, err := planService(c).OpenPlan(tripID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"trip_id": tripID,
		"plan":    p,
		"saving":  planSched.IsSaving(tripID),
	})
}

// POST /api/trips/:id/plan/save
// Flushes the debounce window immediately instead of waiting it out.
func SaveTripPlan(c *gin.Context) {
	id, ok := tripIDParam(c)
	if !ok {
		return
	}
	if _, ok := loadMemberTrip(c, id); !ok {
		return
	}

	tripID := strconv.FormatInt(id, 10)
	wasSaving := planService(c).SaveNow(tripID)
	c.JSON(http.StatusOK, gin.H{
		"message":    "plan disimpan",
		"trip_id":    tripID,
		"was_saving": wasSaving,
		"saved_at":   utils.FormatDateTime(utils.NowUTC()),
	})
}

// GET /api/trips/:id/plan/document
// Renders the current plan as a printable PDF (inline).
func GetTripPlanPDF(c *gin.Context) {
	id, ok := tripIDParam(c)
	if !ok {
		return
	}
	if _, ok := loadMemberTrip(c, id); !ok {
		return
	}

	svc := services.PlanDocsService{
		TripRepo:  tripRepo,
		PlanRepo:  planRepo,
		Store:     planStore,
		RequestID: middleware.GetRequestID(c),
	}
	pdfBytes, filename, err := svc.GenerateTripPlanPDF(strconv.FormatInt(id, 10))
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
