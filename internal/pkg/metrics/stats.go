package metrics

import (
	"fmt"
	"math"
)

// NotApplicable is reported as the success rate before any call completed.
const NotApplicable = "N/A"

// Stats is a point-in-time copy of the registry. The string fields are
// presentation values consumed as-is by /stats and /health clients.
type Stats struct {
	UptimeSeconds         float64          `json:"uptime_seconds"`
	UptimeFormatted       string           `json:"uptime_formatted"`
	TotalRequests         int64            `json:"total_requests"`
	SuccessfulGenerations int64            `json:"successful_generations"`
	FailedGenerations     int64            `json:"failed_generations"`
	SuccessRate           string           `json:"success_rate"`
	AverageResponseTime   string           `json:"average_response_time"`
	RecentResponseTimes   []float64        `json:"recent_response_times"`
	ErrorBreakdown        map[string]int64 `json:"error_breakdown"`
	EndpointUsage         map[string]int64 `json:"endpoint_usage"`
}

// Healthy reports whether failures are outnumbered by successes.
func (s Stats) Healthy() bool {
	return s.FailedGenerations < s.SuccessfulGenerations
}

// MostCommonErrors picks the n most frequent kinds out of ErrorBreakdown, so
// the result always agrees with the rest of the snapshot.
func (s Stats) MostCommonErrors(n int) map[string]int64 {
	return topCounts(s.ErrorBreakdown, n)
}

// roundTo rounds half away from zero.
func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// formatUptime truncates each component of an already rounded uptime:
// 3725.99s is "1h 2m 5s".
func formatUptime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int64(seconds)
	return fmt.Sprintf("%dh %dm %ds", total/3600, (total%3600)/60, total%60)
}

func formatSuccessRate(successful, failed int64) string {
	completed := successful + failed
	if completed == 0 {
		return NotApplicable
	}
	return fmt.Sprintf("%.1f%%", float64(successful)/float64(completed)*100)
}

func formatSeconds(v float64) string {
	return fmt.Sprintf("%.2fs", v)
}
