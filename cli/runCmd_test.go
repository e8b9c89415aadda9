package cli

import (
	"net/http"
	"testing"

	"xrdpsink/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

func TestMetricsServerShutdown(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.New(reg)
	srv := serveMetrics("127.0.0.1:0", reg)
	assert.NoError(t, shutdownMetrics(srv))
	// Serving after shutdown reports the closed server
	assert.ErrorIs(t, srv.ListenAndServe(), http.ErrServerClosed)
}
