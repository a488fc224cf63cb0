package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/finbox-in/imagegen/internal/pkg/logger"
	"github.com/finbox-in/imagegen/internal/pkg/metrics"
)

const (
	ServiceName = "Image Generator"

	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"

	mostCommonErrors = 5
)

type statsResponse struct {
	metrics.Stats
	Status           string           `json:"status"`
	MostCommonErrors map[string]int64 `json:"most_common_errors"`
}

type healthResponse struct {
	Service       string              `json:"service"`
	Status        string              `json:"status"`
	Timestamp     string              `json:"timestamp"`
	Uptime        string              `json:"uptime"`
	Configuration healthConfiguration `json:"configuration"`
	Performance   healthPerformance   `json:"performance"`
	Endpoints     map[string]string   `json:"endpoints"`
}

type healthConfiguration struct {
	APIConfigured bool     `json:"api_configured"`
	MissingConfig []string `json:"missing_config"`
}

type healthPerformance struct {
	TotalRequests       int64  `json:"total_requests"`
	SuccessRate         string `json:"success_rate"`
	AverageResponseTime string `json:"average_response_time"`
}

var endpoints = map[string]string{
	"generate":    "/generate",
	"pdf_convert": "/convert_html_to_pdf",
	"health":      "/health",
	"stats":       "/stats",
}

// Stats reports the snapshot together with an overall status and the most
// frequent error kinds.
func (s *ServerHandler) Stats(c *gin.Context) {
	logger := logger.LoggerFromContext(c)

	snapshot := s.Registry.Snapshot()
	status := StatusDegraded
	if snapshot.Healthy() {
		status = StatusHealthy
	}

	resp := statsResponse{
		Stats:            snapshot,
		Status:           status,
		MostCommonErrors: snapshot.MostCommonErrors(mostCommonErrors),
	}

	logger.WithField("stats", resp).Info("STATS REQUESTED")
	c.JSON(http.StatusOK, resp)
}

// Health is degraded, with a 503, while required configuration is missing.
func (s *ServerHandler) Health(c *gin.Context) {
	missing := s.ImageGenService.MissingConfig()
	snapshot := s.Registry.Snapshot()

	status, code := StatusHealthy, http.StatusOK
	if len(missing) > 0 {
		status, code = StatusDegraded, http.StatusServiceUnavailable
	}

	c.JSON(code, healthResponse{
		Service:   ServiceName,
		Status:    status,
		Timestamp: time.Now().Format(time.RFC3339Nano),
		Uptime:    snapshot.UptimeFormatted,
		Configuration: healthConfiguration{
			APIConfigured: len(missing) == 0,
			MissingConfig: missing,
		},
		Performance: healthPerformance{
			TotalRequests:       snapshot.TotalRequests,
			SuccessRate:         snapshot.SuccessRate,
			AverageResponseTime: snapshot.AverageResponseTime,
		},
		Endpoints: endpoints,
	})
}
