package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/finbox-in/imagegen/http/server"
)

func AddImageRoutes(router gin.IRoutes, s *server.ServerHandler) {
	router.POST("/generate", s.GenerateImage)
}
