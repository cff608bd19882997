package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/studysmarter/studysmarter-api/internal/middleware"
	"github.com/studysmarter/studysmarter-api/internal/models"
)

// CurrentClaims returns the JWT claims stored by the auth middleware, or nil
// when the request is unauthenticated.
func CurrentClaims(c *gin.Context) *models.JWTClaims {
	v, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := v.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}
