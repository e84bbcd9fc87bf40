package handlers

import (
	"log"
	"net/http"

	"real-estate-marketplace/internal/database"
	"real-estate-marketplace/internal/models"
	"real-estate-marketplace/internal/reconcile"

	"github.com/gin-gonic/gin"
)

// AdminHandler handles admin-related requests
type AdminHandler struct {
	store      *database.Store
	reconciler *reconcile.Reconciler
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(store *database.Store, reconciler *reconcile.Reconciler) *AdminHandler {
	return &AdminHandler{store: store, reconciler: reconciler}
}

// GetStats returns system statistics
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats := make(map[string]interface{})
	db := h.store.DB()

	// Property counts by status
	var listed, verified, bought int64
	db.Model(&models.Property{}).Where("status = ?", models.PropertyStatusListed).Count(&listed)
	db.Model(&models.Property{}).Where("status = ?", models.PropertyStatusVerified).Count(&verified)
	db.Model(&models.Property{}).Where("status = ?", models.PropertyStatusBought).Count(&bought)
	stats["properties"] = map[string]interface{}{
		"listed":   listed,
		"verified": verified,
		"bought":   bought,
		"total":    listed + verified + bought,
	}

	// Offer counts by status
	var pending, accepted, rejected int64
	db.Model(&models.Offer{}).Where("status = ?", models.OfferStatusPending).Count(&pending)
	db.Model(&models.Offer{}).Where("status = ?", models.OfferStatusAccepted).Count(&accepted)
	db.Model(&models.Offer{}).Where("status = ?", models.OfferStatusRejected).Count(&rejected)
	stats["offers"] = map[string]interface{}{
		"pending":  pending,
		"accepted": accepted,
		"rejected": rejected,
	}

	var users, frauds int64
	db.Model(&models.User{}).Count(&users)
	db.Model(&models.User{}).Where("role = ?", models.RoleFraud).Count(&frauds)
	stats["users"] = map[string]interface{}{
		"total": users,
		"fraud": frauds,
	}

	var bookings int64
	db.Model(&models.Booking{}).Count(&bookings)
	stats["bookings"] = map[string]interface{}{
		"total": bookings,
	}

	var pendingCascades int64
	db.Model(&models.CascadeIntent{}).Where("status = ?", models.CascadeIntentPending).Count(&pendingCascades)
	stats["cascades"] = map[string]interface{}{
		"pending": pendingCascades,
	}

	c.JSON(http.StatusOK, stats)
}

// RunReconcile manually triggers a cascade repair sweep
func (h *AdminHandler) RunReconcile(c *gin.Context) {
	log.Println("Admin: Manual reconcile sweep requested")

	// Run in goroutine to avoid blocking
	go func() {
		if err := h.reconciler.RunOnce(); err != nil {
			log.Printf("Admin: Manual reconcile sweep failed: %v", err)
		} else {
			log.Println("Admin: Manual reconcile sweep completed successfully")
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"message": "Reconcile sweep started",
		"status":  "running",
	})
}
