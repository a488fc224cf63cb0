package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/finbox-in/imagegen/http/server"
)

func AddHTMLToPDFRoutes(router gin.IRoutes, s *server.ServerHandler) {
	router.POST("/convert_html_to_pdf", s.ConvertHTMLToPDF)
}
