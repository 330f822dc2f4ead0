package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/tutorlane/tutor-dash-api/internal/middleware"
	"github.com/tutorlane/tutor-dash-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// tutorDisplayName resolves the name used when the claim service omits the
// tutor field.
func tutorDisplayName(claims *models.JWTClaims) string {
	if claims == nil {
		return ""
	}
	if claims.DisplayName != "" {
		return claims.DisplayName
	}
	return claims.UserID
}
