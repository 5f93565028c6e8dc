package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tailor-backend/internal/shared/server/middleware"
	"tailor-backend/internal/shared/server/respond"
)

// registerMeRoutes attaches the identity echo endpoint. Clients call it to
// confirm which identity their X-Guest-Id header resolved to.
func registerMeRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", meHandler)
}

func meHandler(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "Missing identity", nil)
		return
	}

	response := gin.H{"userId": userID}
	if isGuest, ok := c.Get("isGuest"); ok {
		response["isGuest"] = isGuest
	}
	respond.JSON(c, http.StatusOK, response)
}
