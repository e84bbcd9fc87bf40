package handlers

import (
	"log"
	"net/http"

	"real-estate-marketplace/internal/auth"
	"real-estate-marketplace/internal/database"
	"real-estate-marketplace/internal/lifecycle"
	"real-estate-marketplace/internal/models"
	"real-estate-marketplace/internal/search"

	"github.com/gin-gonic/gin"
)

// PropertyHandler covers listing reads and lifecycle operations.
type PropertyHandler struct {
	store   *database.Store
	manager *lifecycle.PropertyManager
	search  *search.Client
}

func NewPropertyHandler(store *database.Store, manager *lifecycle.PropertyManager, searchClient *search.Client) *PropertyHandler {
	return &PropertyHandler{store: store, manager: manager, search: searchClient}
}

// List returns listings matching a substring query and sort key. Served
// from the search index when configured, otherwise from the store.
func (h *PropertyHandler) List(c *gin.Context) {
	query := c.Query("q")
	sortBy := c.DefaultQuery("sort", "created_at")

	if h.search != nil && query != "" {
		properties, err := h.search.Search(query, sortBy, 50)
		if err == nil {
			c.JSON(http.StatusOK, properties)
			return
		}
		log.Printf("Search unavailable, falling back to store: %v", err)
	}

	properties, err := h.store.ListProperties(database.PropertyFilters{
		Query:  query,
		SortBy: sortBy,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, properties)
}

// Get returns a single listing
func (h *PropertyHandler) Get(c *gin.Context) {
	property, err := h.store.PropertyByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, property)
}

// ByAgent returns the caller agent's own listings
func (h *PropertyHandler) ByAgent(c *gin.Context) {
	properties, err := h.store.PropertiesByAgent(c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, properties)
}

// Create inserts a listing owned by the calling agent
func (h *PropertyHandler) Create(c *gin.Context) {
	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized access"})
		return
	}

	var draft lifecycle.PropertyDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title, location and price are required"})
		return
	}

	agent, err := h.store.UserByEmail(claims.Email)
	if err != nil {
		respondError(c, err)
		return
	}

	property, err := h.manager.Create(draft, agent)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, property)
}

// Update edits listing fields
func (h *PropertyHandler) Update(c *gin.Context) {
	var body struct {
		Title    string `json:"title"`
		Location string `json:"location"`
		Price    string `json:"price"`
		ImageURL string `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	fields := make(map[string]interface{})
	if body.Title != "" {
		fields["title"] = body.Title
	}
	if body.Location != "" {
		fields["location"] = body.Location
	}
	if body.Price != "" {
		fields["price"] = body.Price
	}
	if body.ImageURL != "" {
		fields["image_url"] = body.ImageURL
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
		return
	}

	property, err := h.manager.Update(c.Param("id"), fields)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, property)
}

// Delete removes a listing owned by the caller (or any listing for an
// admin caller).
func (h *PropertyHandler) Delete(c *gin.Context) {
	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized access"})
		return
	}

	isAdmin := false
	if user, err := h.store.UserByEmail(claims.Email); err == nil {
		isAdmin = user.Role == models.RoleAdmin
	}

	if err := h.manager.Delete(c.Param("id"), claims.Email, isAdmin); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Verify advances a listing to verified
func (h *PropertyHandler) Verify(c *gin.Context) {
	property, err := h.manager.Verify(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, property)
}

// MarkBought records the terminal status after payment confirmation
func (h *PropertyHandler) MarkBought(c *gin.Context) {
	var body struct {
		TransactionID string `json:"transaction_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "transaction_id is required"})
		return
	}

	property, err := h.manager.MarkBought(c.Param("id"), body.TransactionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, property)
}

// SetWishlist marks a listing as wishlisted by the caller
func (h *PropertyHandler) SetWishlist(c *gin.Context) {
	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized access"})
		return
	}

	if err := h.manager.SetWishlist(c.Param("id"), claims.Email); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ClearWishlist removes the wishlist marker
func (h *PropertyHandler) ClearWishlist(c *gin.Context) {
	if err := h.manager.ClearWishlist(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// SetAdvertise marks a listing as advertised
func (h *PropertyHandler) SetAdvertise(c *gin.Context) {
	if err := h.manager.SetAdvertise(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ClearAdvertise removes the advertise marker
func (h *PropertyHandler) ClearAdvertise(c *gin.Context) {
	if err := h.manager.ClearAdvertise(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
