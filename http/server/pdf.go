package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	models "github.com/finbox-in/imagegen/internal/models/wkhtmltopdf"
)

func (s *ServerHandler) ConvertHTMLToPDF(c *gin.Context) {
	s.serve(c, s.convert)
}

func (s *ServerHandler) handleConvert(ctx context.Context, body requestBody) (reply, error) {
	var req models.PDFRequest
	if err := body.decode(&req); err != nil {
		return reply{}, err
	}

	pdfResponse, err := s.WkHTMLtoPDFService.Convert(ctx, req)
	if err != nil {
		return s.handledError(ctx, req.RequestID, err)
	}

	return reply{http.StatusOK, gin.H{
		"status":       "success",
		"pdf_blob_url": pdfResponse.BlobURL,
	}}, nil
}
