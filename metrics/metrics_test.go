package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObservePredict(t *testing.T) {
	before := testutil.ToFloat64(PredictTotal.WithLabelValues("remote", "malformed_response"))
	ObservePredict("remote", "malformed_response", 20*time.Millisecond)
	after := testutil.ToFloat64(PredictTotal.WithLabelValues("remote", "malformed_response"))

	assert.Equal(t, before+1, after)
	assert.Positive(t, testutil.CollectAndCount(PredictDuration))
}
