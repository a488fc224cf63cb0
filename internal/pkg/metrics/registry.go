package metrics

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/finbox-in/imagegen/internal/pkg/logger"
)

const (
	// ResponseWindow is how many durations the registry keeps.
	ResponseWindow = 100
	// RecentResponses is how many of them a snapshot reports.
	RecentResponses = 10
)

// Registry aggregates request counts, outcomes, durations and error kinds
// for the lifetime of the process. One instance is created at startup and
// shared by every handler. All methods are safe for concurrent use.
type Registry struct {
	log *logger.Logger
	now func() time.Time

	mu            sync.Mutex
	startTime     time.Time
	requestCount  int64
	requestsByKey map[string]int64
	responseTimes *window
	errorCounts   map[string]int64
	successful    int64
	failed        int64
}

type Option func(*Registry)

// WithClock replaces time.Now, used for uptime.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

func NewRegistry(l *logger.Logger, opts ...Option) *Registry {
	r := &Registry{
		log:           l,
		now:           time.Now,
		requestsByKey: make(map[string]int64),
		responseTimes: newWindow(ResponseWindow),
		errorCounts:   make(map[string]int64),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logger.LoggerFromContext(context.Background())
	}
	r.startTime = r.now()
	return r
}

func (r *Registry) RecordRequest(endpoint, method string) {
	r.mu.Lock()
	r.requestCount++
	n := r.requestCount
	r.requestsByKey[method+" "+endpoint]++
	r.mu.Unlock()

	r.log.Infof("Request #%d - %s %s", n, method, endpoint)
}

// RecordResponseTime adds a duration in seconds and counts the outcome.
// Negative durations are stored as 0.
func (r *Registry) RecordResponseTime(duration float64, success bool) {
	if duration < 0 {
		duration = 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.responseTimes.push(duration)
	if success {
		r.successful++
	} else {
		r.failed++
	}
}

func (r *Registry) RecordError(kind, message string) {
	r.mu.Lock()
	r.errorCounts[kind]++
	r.mu.Unlock()

	r.log.Errorf("Error recorded: %s - %s", kind, message)
}

// Snapshot reads the whole registry under one lock.
func (r *Registry) Snapshot() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	uptime := roundTo(r.now().Sub(r.startTime).Seconds(), 2)

	avg := 0.0
	if n := r.responseTimes.len(); n > 0 {
		avg = r.responseTimes.sum() / float64(n)
	}

	return Stats{
		UptimeSeconds:         uptime,
		UptimeFormatted:       formatUptime(uptime),
		TotalRequests:         r.requestCount,
		SuccessfulGenerations: r.successful,
		FailedGenerations:     r.failed,
		SuccessRate:           formatSuccessRate(r.successful, r.failed),
		AverageResponseTime:   formatSeconds(avg),
		RecentResponseTimes:   r.responseTimes.last(RecentResponses),
		ErrorBreakdown:        copyCounts(r.errorCounts),
		EndpointUsage:         copyCounts(r.requestsByKey),
	}
}

// ResponseTimes returns every duration currently held, oldest first.
func (r *Registry) ResponseTimes() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.responseTimes.last(ResponseWindow)
}

func (r *Registry) Counts() (successful, failed int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.successful, r.failed
}

// MostCommonErrors returns the n most frequent error kinds. Ties are broken
// by kind name so the selection is stable.
func (r *Registry) MostCommonErrors(n int) map[string]int64 {
	r.mu.Lock()
	counts := copyCounts(r.errorCounts)
	r.mu.Unlock()

	return topCounts(counts, n)
}

func topCounts(counts map[string]int64, n int) map[string]int64 {
	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool {
		if counts[kinds[i]] != counts[kinds[j]] {
			return counts[kinds[i]] > counts[kinds[j]]
		}
		return kinds[i] < kinds[j]
	})
	if n >= 0 && len(kinds) > n {
		kinds = kinds[:n]
	}

	out := make(map[string]int64, len(kinds))
	for _, k := range kinds {
		out[k] = counts[k]
	}
	return out
}

func copyCounts(in map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
