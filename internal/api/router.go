package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"seminar-registration-backend/config"
	"seminar-registration-backend/internal/assignment"
	"seminar-registration-backend/internal/mw"
	"seminar-registration-backend/internal/payment"
	"seminar-registration-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.ServerConfig, s store.Store, assignments *assignment.Service, payments *payment.Service) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(s, assignments, payments)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.POST("/inscriptions", handler.CreateInscription)
		api.GET("/inscriptions/:id", handler.GetInscription)
		api.DELETE("/inscriptions/:id", handler.DeleteInscription)

		// Dormitory listings are cacheable; everything that reads live
		// capacity for a decision goes through the services instead.
		api.GET("/dormitories", caching, handler.ListDormitories)
		api.POST("/dormitories", handler.CreateDormitory)
		api.GET("/dormitories/:id/slots", handler.GetDormitorySlots)
		api.PATCH("/dormitories/:id/capacity", handler.UpdateDormitoryCapacity)
		api.DELETE("/dormitories/:id", handler.DeleteDormitory)
		api.POST("/dormitories/recompute", handler.RecomputeCapacities)

		api.POST("/assignments", handler.Assign)
		api.GET("/assignments", handler.ListAssignments)
		api.DELETE("/assignments/:id", handler.Unassign)
		api.POST("/assignments/reassign", handler.Reassign)
		api.GET("/assignments/inscription/:inscription_id", handler.GetAssignmentByInscription)

		api.POST("/payments", handler.InitiatePayment)
		api.POST("/payments/callback", handler.PaymentCallback)
		api.POST("/payments/validate-cash", handler.ValidateCashPayment)
		api.POST("/payments/simulate", handler.SimulatePayment)
	}

	return r
}
