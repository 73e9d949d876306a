package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestQuoteRequests_Labels(t *testing.T) {
	before := testutil.ToFloat64(QuoteRequests.WithLabelValues("eodhd", "ok"))
	QuoteRequests.WithLabelValues("eodhd", "ok").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(QuoteRequests.WithLabelValues("eodhd", "ok")))
}

func TestProjectionRuns_Labels(t *testing.T) {
	before := testutil.ToFloat64(ProjectionRuns.WithLabelValues("ok"))
	ProjectionRuns.WithLabelValues("ok").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(ProjectionRuns.WithLabelValues("ok")))
}
