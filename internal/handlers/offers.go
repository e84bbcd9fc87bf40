package handlers

import (
	"net/http"

	"real-estate-marketplace/internal/auth"
	"real-estate-marketplace/internal/database"
	"real-estate-marketplace/internal/lifecycle"
	"real-estate-marketplace/internal/models"

	"github.com/gin-gonic/gin"
)

// OfferHandler covers offer submission and the agent-side state machine.
type OfferHandler struct {
	store   *database.Store
	manager *lifecycle.OfferManager
}

func NewOfferHandler(store *database.Store, manager *lifecycle.OfferManager) *OfferHandler {
	return &OfferHandler{store: store, manager: manager}
}

// Submit records a buyer's offer against a listing. Duplicate submission
// for the same listing by the same buyer yields 409.
func (h *OfferHandler) Submit(c *gin.Context) {
	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized access"})
		return
	}

	var draft lifecycle.OfferDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "property_id and amount are required"})
		return
	}
	// The buyer is always the verified caller, never what the body says.
	draft.BuyerName = claims.Name
	draft.BuyerEmail = claims.Email

	offer, err := h.manager.Submit(draft)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, offer)
}

// List returns offers, narrowed by buyer, agent or property
func (h *OfferHandler) List(c *gin.Context) {
	offers, err := h.store.ListOffers(database.OfferFilters{
		BuyerEmail: c.Query("buyer"),
		AgentEmail: c.Query("agent"),
		PropertyID: c.Query("property_id"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, offers)
}

// Accept accepts the offer and cascade-rejects its siblings. Only the
// agent owning the underlying listing may accept.
func (h *OfferHandler) Accept(c *gin.Context) {
	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized access"})
		return
	}

	offer, err := h.manager.Accept(c.Param("id"), claims.Email, h.callerIsAdmin(claims.Email))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, offer)
}

// Reject rejects a single offer; same ownership gate as Accept
func (h *OfferHandler) Reject(c *gin.Context) {
	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized access"})
		return
	}

	offer, err := h.manager.Reject(c.Param("id"), claims.Email, h.callerIsAdmin(claims.Email))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, offer)
}

func (h *OfferHandler) callerIsAdmin(email string) bool {
	user, err := h.store.UserByEmail(email)
	return err == nil && user.Role == models.RoleAdmin
}

// Withdraw removes the caller's own offer
func (h *OfferHandler) Withdraw(c *gin.Context) {
	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized access"})
		return
	}

	if err := h.manager.Withdraw(c.Param("id"), claims.Email, h.callerIsAdmin(claims.Email)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
