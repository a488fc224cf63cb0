package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/finbox-in/imagegen/http/server"
)

func AddStatusRoutes(router gin.IRoutes, s *server.ServerHandler) {
	router.GET("/stats", s.Stats)
	router.GET("/health", s.Health)
}
