package http

import (
	"github.com/gin-gonic/gin"

	"github.com/nurpe/ecosort/internal/http/middleware"
)

func NewRouter(handler *Handler, authMiddleware gin.HandlerFunc, environment string) *gin.Engine {
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())

	handler.Register(router, authMiddleware)
	return router
}
