package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	intconfig "tripmate/internal/config"
	"tripmate/internal/domain/models"
	router "tripmate/internal/http"
	"tripmate/internal/http/handlers"
	"tripmate/internal/plan"
	"tripmate/internal/realtime"
	"tripmate/internal/repositories"
	"tripmate/internal/services"

	"github.com/gin-gonic/gin"
)

func main() {
	env := intconfig.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	intconfig.ConnectDB(env)
	defer intconfig.CloseDB()

	tripRepo := repositories.TripRepository{}
	planRepo := repositories.PlanRepository{}

	// collab engine: in-memory store, debounced persistence, mutation engine
	store := plan.NewStore()
	sched := plan.NewScheduler(store, func(tripID string, p *models.Plan) error {
		return planRepo.Save(tripID, p, "")
	}, env.PlanFlushDelay)
	engine := plan.NewEngine(store, sched)

	planSvc := services.PlanService{Store: store, Scheduler: sched, Repo: planRepo}

	hub := realtime.NewHub()
	sched.OnStatus(hub.NotifyStatus)
	// an emptied room has nobody left to trigger the debounce flush
	hub.OnRoomEmpty(func(tripID string) { go sched.ForceFlush(tripID) })

	gw := &realtime.Gateway{
		Hub:        hub,
		Engine:     engine,
		Scheduler:  sched,
		LookupTrip: tripRepo.GetByIDString,
		OpenPlan:   planSvc.OpenPlan,
	}

	handlers.SetJWTSecret(env.JWTSecret)
	handlers.SetTripRepo(tripRepo)
	handlers.SetPlanDeps(store, sched, planRepo)

	r := router.NewRouter(env, gw)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Server berjalan di http://localhost%s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Gagal menjalankan server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Mematikan server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Shutdown server gagal: %v", err)
	}

	// open debounce windows must not take unsaved edits down with them
	if err := planSvc.FlushAll(ctx); err != nil {
		log.Printf("Flush plan saat shutdown gagal: %v", err)
	}

	log.Println("Server berhenti dengan aman.")
}
