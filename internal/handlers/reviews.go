package handlers

import (
	"net/http"

	"real-estate-marketplace/internal/auth"
	"real-estate-marketplace/internal/database"
	"real-estate-marketplace/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReviewHandler covers the append-only review records.
type ReviewHandler struct {
	store *database.Store
}

func NewReviewHandler(store *database.Store) *ReviewHandler {
	return &ReviewHandler{store: store}
}

// Create appends a review authored by the caller
func (h *ReviewHandler) Create(c *gin.Context) {
	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized access"})
		return
	}

	var body struct {
		PropertyID string `json:"property_id"`
		Content    string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
		return
	}

	review := models.Review{
		ID:          uuid.NewString(),
		PropertyID:  body.PropertyID,
		Content:     body.Content,
		AuthorName:  claims.Name,
		AuthorEmail: claims.Email,
	}
	if err := h.store.CreateReview(&review); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

// List returns all reviews
func (h *ReviewHandler) List(c *gin.Context) {
	reviews, err := h.store.ListReviews()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// Delete removes a review; only its author or an admin may do so
func (h *ReviewHandler) Delete(c *gin.Context) {
	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized access"})
		return
	}

	review, err := h.store.ReviewByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	isAdmin := false
	if user, err := h.store.UserByEmail(claims.Email); err == nil {
		isAdmin = user.Role == models.RoleAdmin
	}
	if !isAdmin && review.AuthorEmail != claims.Email {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized access"})
		return
	}

	if err := h.store.DeleteReview(review.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
