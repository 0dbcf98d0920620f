package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveRetrieval(t *testing.T) {
	before := testutil.ToFloat64(RetrievalCallsTotal.WithLabelValues(OutcomeCacheHit))
	ObserveRetrieval(OutcomeCacheHit, time.Millisecond)
	after := testutil.ToFloat64(RetrievalCallsTotal.WithLabelValues(OutcomeCacheHit))
	assert.Equal(t, before+1, after)
}

func TestObserveLLM(t *testing.T) {
	okBefore := testutil.ToFloat64(LLMCallsTotal.WithLabelValues("test", OutcomeSuccess))
	errBefore := testutil.ToFloat64(LLMCallsTotal.WithLabelValues("test", OutcomeError))

	ObserveLLM("test", nil, time.Second)
	ObserveLLM("test", errors.New("boom"), time.Second)

	assert.Equal(t, okBefore+1, testutil.ToFloat64(LLMCallsTotal.WithLabelValues("test", OutcomeSuccess)))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(LLMCallsTotal.WithLabelValues("test", OutcomeError)))
}
