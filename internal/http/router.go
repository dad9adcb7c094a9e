package api

import (
	"log"
	stdhttp "net/http"

	intconfig "tripmate/internal/config"
	h "tripmate/internal/http/handlers"
	"tripmate/internal/http/middleware"
	"tripmate/internal/realtime"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env, gw *realtime.Gateway) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS())

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route tidak ditemukan",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	// realtime entrypoint; the connection authenticates with its first frame
	r.GET("/ws", gw.HandleWS)

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)
		api.GET("/routes", h.Routes)

		auth := api.Group("/auth")
		auth.POST("/login", h.Login)
		auth.POST("/register", h.Register)

		trips := api.Group("/trips")
		trips.Use(middleware.RequireAuth([]byte(env.JWTSecret)))
		trips.GET("", h.GetTrips)
		trips.POST("", h.CreateTrip)
		trips.GET("/:id", h.GetTripByID)
		trips.PUT("/:id", h.UpdateTrip)
		trips.DELETE("/:id", h.DeleteTrip)
		trips.POST("/:id/tripmates", h.AddTripmates)

		trips.GET("/:id/plan", h.GetTripPlan)
		trips.POST("/:id/plan/save", h.SaveTripPlan)
		trips.GET("/:id/plan/document", h.GetTripPlanPDF)
	}

	h.SetRouter(r)
	return r
}
