package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecorder_MirrorsRecordedCalls(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsRecorder(reg)

	m.RecordRequest("generate", "POST")
	m.RecordRequest("generate", "POST")
	m.RecordRequest("convert_html_to_pdf", "POST")
	assert.Equal(t, 3.0, testutil.ToFloat64(m.activeRequests))

	m.RecordResponseTime(0.2, true)
	m.RecordResponseTime(0.4, false)
	m.RecordError("ValueError", "bad input")
	m.ObservePDFSize(2048)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("POST", "generate")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("POST", "convert_html_to_pdf")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.activeRequests))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errorTotal.WithLabelValues("ValueError")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.requestDuration))
	assert.Equal(t, 1, testutil.CollectAndCount(m.pdfSize))
}

func TestMetricsRecorder_RegistersOnGivenRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	_ = NewMetricsRecorder(reg)

	// A second recorder on the same registry collides.
	assert.Panics(t, func() { NewMetricsRecorder(reg) })

	// A separate registry does not.
	require.NotPanics(t, func() { NewMetricsRecorder(prometheus.NewRegistry()) })
}
