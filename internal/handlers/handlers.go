// Package handlers contains the gin HTTP handlers. Each handler group
// hangs off a constructor-built struct; access policy is declared in the
// route table in cmd/api, not here.
package handlers

import (
	"log"

	"real-estate-marketplace/internal/apperr"

	"github.com/gin-gonic/gin"
)

// respondError maps a taxonomy error onto an HTTP response. Internal
// failures are logged with their cause and reported generically.
func respondError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindInternal {
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(kind.HTTPStatus(), gin.H{"error": apperr.ClientMessage(err)})
}
