package handlers

import (
	"net/http"

	"real-estate-marketplace/internal/auth"

	"github.com/gin-gonic/gin"
)

// AuthHandler issues and clears the cookie-bound identity token.
type AuthHandler struct {
	tokens        *auth.TokenService
	secureCookies bool
}

func NewAuthHandler(tokens *auth.TokenService, secureCookies bool) *AuthHandler {
	return &AuthHandler{tokens: tokens, secureCookies: secureCookies}
}

// IssueToken signs a token for the caller-supplied identity claims and
// binds it to an HTTP-only cookie. Identity is not verified against a
// credential store here; the upstream identity provider did that.
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var body struct {
		Name  string `json:"name"`
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and email are required"})
		return
	}

	token, err := h.tokens.Issue(body.Name, body.Email)
	if err != nil {
		respondError(c, err)
		return
	}

	auth.SetTokenCookie(c, token, h.tokens.TTL(), h.secureCookies)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Logout tells the client transport to discard the credential. A replayed
// token would still verify until expiry.
func (h *AuthHandler) Logout(c *gin.Context) {
	auth.ClearTokenCookie(c, h.secureCookies)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
