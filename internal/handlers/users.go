package handlers

import (
	"net/http"

	"real-estate-marketplace/internal/database"
	"real-estate-marketplace/internal/lifecycle"
	"real-estate-marketplace/internal/models"

	"github.com/gin-gonic/gin"
)

// UserHandler covers user records and admin role mutations, including
// the fraud demotion cascade.
type UserHandler struct {
	store      *database.Store
	properties *lifecycle.PropertyManager
}

func NewUserHandler(store *database.Store, properties *lifecycle.PropertyManager) *UserHandler {
	return &UserHandler{store: store, properties: properties}
}

// Upsert records a user on first login. Idempotent: repeat calls return
// the existing record and never touch the role.
func (h *UserHandler) Upsert(c *gin.Context) {
	var body struct {
		Name  string `json:"name" binding:"required"`
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and email are required"})
		return
	}

	user, err := h.store.UpsertUser(body.Name, body.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetByEmail returns a user record by its natural key
func (h *UserHandler) GetByEmail(c *gin.Context) {
	user, err := h.store.UserByEmail(c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// List returns all user records
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.store.ListUsers()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// SetRole promotes a user to admin or agent
func (h *UserHandler) SetRole(c *gin.Context) {
	var body struct {
		Role models.Role `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role is required"})
		return
	}
	if body.Role != models.RoleAdmin && body.Role != models.RoleAgent {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role must be admin or agent"})
		return
	}

	if err := h.store.SetUserRole(c.Param("id"), body.Role); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "role": body.Role})
}

// DemoteFraud runs the fraud cascade: delete every listing the user
// authored, then set the role. Reports the number of deleted listings.
func (h *UserHandler) DemoteFraud(c *gin.Context) {
	deleted, err := h.properties.DemoteToFraud(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":          "user role updated to fraud and properties deleted",
		"deleted_listings": deleted,
		"role":             models.RoleFraud,
	})
}

// Delete removes a user record. Explicit admin action, independent of
// lifecycle cascades.
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.store.DeleteUser(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
