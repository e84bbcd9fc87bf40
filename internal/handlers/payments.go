package handlers

import (
	"net/http"

	"real-estate-marketplace/internal/auth"
	"real-estate-marketplace/internal/database"
	"real-estate-marketplace/internal/models"
	"real-estate-marketplace/internal/payment"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PaymentHandler covers payment-intent creation and the booking record
// written after the client confirms payment out-of-band. No automatic
// reconciliation links an intent to an eventual booking.
type PaymentHandler struct {
	gateway payment.Gateway
	store   *database.Store
}

func NewPaymentHandler(gateway payment.Gateway, store *database.Store) *PaymentHandler {
	return &PaymentHandler{gateway: gateway, store: store}
}

// CreateIntent obtains a client secret for a quoted price
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	var body struct {
		Price string `json:"price"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price is required"})
		return
	}

	amount, err := payment.AmountMinorFromPrice(body.Price)
	if err != nil {
		respondError(c, err)
		return
	}

	clientSecret, err := h.gateway.CreateIntent(c.Request.Context(), amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clientSecret": clientSecret})
}

// CreateBooking records a confirmed purchase
func (h *PaymentHandler) CreateBooking(c *gin.Context) {
	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized access"})
		return
	}

	var body struct {
		PropertyID    string `json:"property_id"`
		Title         string `json:"title" binding:"required"`
		Price         string `json:"price" binding:"required"`
		TransactionID string `json:"transaction_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title, price and transaction_id are required"})
		return
	}

	booking := models.Booking{
		ID:            uuid.NewString(),
		PropertyID:    body.PropertyID,
		Title:         body.Title,
		Price:         body.Price,
		BuyerName:     claims.Name,
		BuyerEmail:    claims.Email,
		TransactionID: body.TransactionID,
	}
	if err := h.store.CreateBooking(&booking); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// ListBookings returns the caller's bookings
func (h *PaymentHandler) ListBookings(c *gin.Context) {
	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized access"})
		return
	}

	bookings, err := h.store.BookingsByBuyer(claims.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}
