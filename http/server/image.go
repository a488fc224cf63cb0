package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	models "github.com/finbox-in/imagegen/internal/models/imagegen"
)

func (s *ServerHandler) GenerateImage(c *gin.Context) {
	s.serve(c, s.generate)
}

func (s *ServerHandler) handleGenerate(ctx context.Context, body requestBody) (reply, error) {
	var req models.ImageRequest
	if err := body.decode(&req); err != nil {
		return reply{}, err
	}

	resp, err := s.generateImage(ctx, req)
	if err != nil {
		return s.handledError(ctx, req.RequestID, err)
	}
	return reply{http.StatusOK, resp}, nil
}
